package server

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/models"
	"yatube/internal/render"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testSecret   = "test-secret-key-12345678901234567890123456789012"
	testPassword = "correct-horse-battery"
)

type testEnv struct {
	server *Server
	db     *gorm.DB
	rec    *render.Recorder
	mr     *miniredis.Miniredis
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      testSecret,
		Port:           "0",
		Env:            "test",
		SiteName:       "Yatube",
		AllowedOrigins: "http://localhost:8000",
		DisplayedPosts: 10,
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return setupNamedTestDB(t, t.Name())
}

func setupNamedTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// newTestEnv wires a server over sqlite and miniredis. A nil renderer
// records renders instead of executing templates.
func newTestEnv(t *testing.T, renderer render.Renderer) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(cache.Close)

	rec := &render.Recorder{}
	if renderer == nil {
		renderer = rec
	}
	s, err := NewServerWithDeps(testConfig(), db, cache.GetClient(), renderer)
	require.NoError(t, err)
	return &testEnv{server: s, db: db, rec: rec, mr: mr}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.server.App().Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *testEnv) get(t *testing.T, path string, as *models.User) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	e.authenticate(t, req, as)
	return e.do(t, req)
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values, as *models.User) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	e.authenticate(t, req, as)
	return e.do(t, req)
}

func (e *testEnv) authenticate(t *testing.T, req *http.Request, user *models.User) {
	t.Helper()
	if user == nil {
		return
	}
	token, err := e.server.authService.IssueToken(user)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Username: username, Email: username + "@example.com", Password: string(hash)}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) createGroup(t *testing.T, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	require.NoError(t, e.db.Create(g).Error)
	return g
}

var postClock = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func (e *testEnv) createPost(t *testing.T, author *models.User, group *models.Group, text string) *models.Post {
	t.Helper()
	postClock = postClock.Add(time.Minute)
	p := &models.Post{Text: text, AuthorID: author.ID, CreatedAt: postClock}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, e.db.Omit("Author", "Group").Create(p).Error)
	return p
}

func (e *testEnv) countPosts(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.Post{}).Count(&n).Error)
	return n
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
