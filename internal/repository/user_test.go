package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByID_DatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(1, 1).
		WillReturnError(errors.New("connection timeout"))

	user, err := repo.GetByID(context.Background(), 1)
	assert.Nil(t, user)
	assert.True(t, models.HasCode(err, models.CodeInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	leo := &models.User{Username: "leo", Email: "leo@example.com", Password: "hash", FirstName: "Leo", LastName: "Tolstoy"}
	require.NoError(t, repo.Create(ctx, leo))
	assert.NotZero(t, leo.ID)

	err := repo.Create(ctx, &models.User{Username: "leo", Email: "other@example.com", Password: "hash"})
	assert.True(t, models.HasCode(err, models.CodeValidation))

	byName, err := repo.GetByUsername(ctx, "leo")
	require.NoError(t, err)
	assert.Equal(t, "Leo Tolstoy", byName.FullName())

	byEmail, err := repo.GetByEmail(ctx, "leo@example.com")
	require.NoError(t, err)
	assert.Equal(t, leo.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, leo.ID)
	require.NoError(t, err)
	assert.Equal(t, "leo", byID.Username)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.True(t, models.IsNotFound(err))
}
