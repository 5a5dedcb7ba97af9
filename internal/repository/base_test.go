package repository

import (
	"context"
	"testing"
	"time"

	"yatube/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// useReplica installs a primary and an empty replica as the global
// connections and returns the primary.
func useReplica(t *testing.T) *gorm.DB {
	t.Helper()
	prevDB, prevRead := database.DB, database.ReadDB
	t.Cleanup(func() { database.DB, database.ReadDB = prevDB, prevRead })

	primary := setupTestDB(t)
	database.DB, database.ReadDB = primary, setupNamedTestDB(t, t.Name()+"_replica")
	return primary
}

func TestReadDB_RoutesListingsToReplica(t *testing.T) {
	primary := useReplica(t)
	leo := createUser(t, primary, "leo")
	createPosts(t, primary, leo, nil, 2, time.Now())

	repo := NewPostRepository(primary)

	// The replica has not caught up yet.
	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	pinned := database.WithPrimary(context.Background())
	n, err = repo.Count(pinned)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	posts, err := repo.ListByAuthor(pinned, leo.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestReadDB_InjectedConnectionIsHonoured(t *testing.T) {
	useReplica(t)
	other := setupNamedTestDB(t, t.Name()+"_other")
	leo := createUser(t, other, "leo")
	createPosts(t, other, leo, nil, 3, time.Now())

	n, err := NewPostRepository(other).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
