package handler

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Log In")
	assert.Contains(t, body, "Register")
	assert.Contains(t, body, "test title")
	assert.Contains(t, body, "by test on 2018-01-01")
	assert.Contains(t, body, "test\nbody")
	assert.NotContains(t, body, `href="/1/update"`)

	cookie := env.login(t, "test", "test")
	w = env.request(t, http.MethodGet, "/", nil, cookie)
	body = w.Body.String()
	assert.Contains(t, body, "Log Out")
	assert.Contains(t, body, `href="/1/update"`)
	assert.Contains(t, body, `href="/create"`)
}

func TestLoginRequired(t *testing.T) {
	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/create"},
		{http.MethodPost, "/create"},
		{http.MethodGet, "/1/update"},
		{http.MethodPost, "/1/update"},
		{http.MethodPost, "/1/delete"},
		{http.MethodGet, "/2/update"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			env := setupTestEnv(t)

			var form url.Values
			if tt.method == http.MethodPost {
				form = url.Values{"title": {"changed"}, "body": {"changed"}}
			}
			w := env.request(t, tt.method, tt.path, form, nil)

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/auth/login", w.Header().Get("Location"))
			assert.Equal(t, 1, env.countPosts(t))
			assert.Equal(t, "test title", env.findPost(t, 1).Title)
		})
	}
}

func TestAuthorRequired(t *testing.T) {
	env := setupTestEnv(t)
	cookie := env.login(t, "other", "other")

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/1/update"},
		{http.MethodPost, "/1/update"},
		{http.MethodPost, "/1/delete"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var form url.Values
			if tt.method == http.MethodPost {
				form = url.Values{"title": {"changed"}, "body": {"changed"}}
			}
			w := env.request(t, tt.method, tt.path, form, cookie)

			assert.Equal(t, http.StatusForbidden, w.Code)
			post := env.findPost(t, 1)
			require.NotNil(t, post)
			assert.Equal(t, "test title", post.Title)
		})
	}

	// current user doesn't see edit link
	w := env.request(t, http.MethodGet, "/", nil, cookie)
	assert.NotContains(t, w.Body.String(), `href="/1/update"`)
}

func TestExistsRequired(t *testing.T) {
	env := setupTestEnv(t)
	cookie := env.login(t, "test", "test")

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/2/update"},
		{http.MethodPost, "/2/update"},
		{http.MethodPost, "/2/delete"},
		{http.MethodGet, "/abc/update"},
		{http.MethodGet, "/-1/update"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var form url.Values
			if tt.method == http.MethodPost {
				form = url.Values{"title": {"changed"}}
			}
			w := env.request(t, tt.method, tt.path, form, cookie)
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestCreate(t *testing.T) {
	env := setupTestEnv(t)
	cookie := env.login(t, "test", "test")

	w := env.request(t, http.MethodGet, "/create", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodPost, "/create", url.Values{"title": {"created"}, "body": {""}}, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, 2, env.countPosts(t))

	post := env.findPost(t, 2)
	require.NotNil(t, post)
	assert.Equal(t, "created", post.Title)
	assert.Equal(t, int64(1), post.AuthorID)
}

func TestUpdate(t *testing.T) {
	env := setupTestEnv(t)
	cookie := env.login(t, "test", "test")

	w := env.request(t, http.MethodGet, "/1/update", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="test title"`)

	w = env.request(t, http.MethodPost, "/1/update", url.Values{"title": {"updated"}, "body": {""}}, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	post := env.findPost(t, 1)
	require.NotNil(t, post)
	assert.Equal(t, "updated", post.Title)
	assert.Equal(t, "", post.Body)
}

func TestCreateUpdate_Validate(t *testing.T) {
	for _, path := range []string{"/create", "/1/update"} {
		t.Run(path, func(t *testing.T) {
			env := setupTestEnv(t)
			cookie := env.login(t, "test", "test")

			w := env.request(t, http.MethodPost, path, url.Values{"title": {""}, "body": {"kept"}}, cookie)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "Title is required.")
			assert.Contains(t, w.Body.String(), ">kept</textarea>")
			assert.Equal(t, 1, env.countPosts(t))
			assert.Equal(t, "test title", env.findPost(t, 1).Title)
		})
	}
}

func TestDelete(t *testing.T) {
	env := setupTestEnv(t)
	cookie := env.login(t, "test", "test")

	w := env.request(t, http.MethodPost, "/1/delete", nil, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Nil(t, env.findPost(t, 1))
	assert.Equal(t, 0, env.countPosts(t))
}

func TestScenario_RegisterLoginWriteEditDelete(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodPost, "/auth/register", url.Values{
		"username": {"alice"},
		"password": {"pw"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)

	cookie := env.login(t, "alice", "pw")

	w = env.request(t, http.MethodPost, "/create", url.Values{"title": {"Hello"}, "body": {"World"}}, cookie)
	require.Equal(t, http.StatusFound, w.Code)

	w = env.request(t, http.MethodGet, "/", nil, cookie)
	body := w.Body.String()
	assert.Contains(t, body, "Hello")
	assert.Contains(t, body, "by alice on")
	assert.Contains(t, body, `href="/2/update"`)
	assert.NotContains(t, body, `href="/1/update"`)

	w = env.request(t, http.MethodPost, "/2/update", url.Values{"title": {"Hello again"}, "body": {"World"}}, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "Hello again", env.findPost(t, 2).Title)

	w = env.request(t, http.MethodPost, "/2/delete", nil, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Nil(t, env.findPost(t, 2))
	assert.Equal(t, 1, env.countPosts(t))
}
