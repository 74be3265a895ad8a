package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/martijn/quill/internal/api/middleware"
	"github.com/martijn/quill/internal/api/render"
	"github.com/martijn/quill/internal/core/domain"
	"github.com/martijn/quill/internal/core/service"
	"github.com/martijn/quill/internal/core/session"
	"github.com/martijn/quill/internal/infrastructure/database"
	"github.com/martijn/quill/web"
)

const sessionCookie = "session"

// testEnv holds all test dependencies
type testEnv struct {
	db     *database.DB
	router *gin.Engine
	codec  *session.Codec
}

// setupTestEnv creates a test environment with in-memory SQLite database.
// Users "test" and "other" exist with their username as password, and
// "test" has written post 1.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// Use in-memory SQLite database
	db, err := database.Open(database.Options{Driver: database.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err, "failed to create test database")
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.EnsureSchema(context.Background()))

	codec, err := session.NewCodec("test-secret", "HS256", time.Hour)
	require.NoError(t, err)

	templates, err := render.New(web.FS, "templates")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Create services
	credentials := service.NewCredentialService(service.NewBcryptHasher(bcrypt.MinCost), logger)
	posts := service.NewPostService()

	// Create handlers
	cookies := middleware.NewSessionCookies(codec, sessionCookie, false)
	resolver := session.NewResolver(codec, logger)
	authHandler := NewAuthHandler(credentials, cookies)
	blogHandler := NewBlogHandler(posts)

	// Setup gin router in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.HTMLRender = templates
	router.Use(middleware.ErrorHandlerMiddleware(logger))
	router.Use(middleware.ScopeMiddleware(db, resolver, cookies))

	router.GET("/auth/register", authHandler.RegisterForm)
	router.POST("/auth/register", authHandler.Register)
	router.GET("/auth/login", authHandler.LoginForm)
	router.POST("/auth/login", authHandler.Login)
	router.GET("/auth/logout", authHandler.Logout)
	router.GET("/", blogHandler.Index)

	blog := router.Group("/", middleware.LoginRequired())
	blog.GET("/create", blogHandler.CreateForm)
	blog.POST("/create", blogHandler.Create)
	blog.GET("/:id/update", blogHandler.UpdateForm)
	blog.POST("/:id/update", blogHandler.Update)
	blog.POST("/:id/delete", blogHandler.Delete)

	env := &testEnv{
		db:     db,
		router: router,
		codec:  codec,
	}
	env.seedTestData(t)
	return env
}

// seedTestData populates the database with the two users and one post
func (env *testEnv) seedTestData(t *testing.T) {
	t.Helper()

	for _, username := range []string{"test", "other"} {
		hash, err := bcrypt.GenerateFromPassword([]byte(username), bcrypt.MinCost)
		require.NoError(t, err)
		_, err = env.db.Exec(`INSERT INTO "user" (username, password) VALUES (?, ?)`, username, string(hash))
		require.NoError(t, err, "failed to seed user %s", username)
	}

	_, err := env.db.Exec(`
		INSERT INTO post (title, body, author_id, created)
		VALUES ('test title', 'test' || char(10) || 'body', 1, '2018-01-01 00:00:00')
	`)
	require.NoError(t, err, "failed to seed post")
}

// request performs a request, posting form as urlencoded when it is non-nil
func (env *testEnv) request(t *testing.T, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err, "failed to create request")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// login posts credentials and returns the session cookie that was set
func (env *testEnv) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()

	w := env.request(t, http.MethodPost, "/auth/login", url.Values{
		"username": {username},
		"password": {password},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code, "login failed: %s", w.Body.String())

	cookie := findCookie(w, sessionCookie)
	require.NotNil(t, cookie, "login did not set a session cookie")
	return cookie
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func (env *testEnv) countPosts(t *testing.T) int {
	t.Helper()

	var n int
	require.NoError(t, env.db.Get(&n, `SELECT COUNT(id) FROM post`))
	return n
}

func (env *testEnv) countUsers(t *testing.T) int {
	t.Helper()

	var n int
	require.NoError(t, env.db.Get(&n, `SELECT COUNT(id) FROM "user"`))
	return n
}

// findPost reads a post directly from the database; nil when missing
func (env *testEnv) findPost(t *testing.T, id int64) *domain.Post {
	t.Helper()

	post, err := database.NewPostRepository(env.db).FindByID(context.Background(), id)
	require.NoError(t, err)
	return post
}
