package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"interntech/internal/apiserver/auth"
	"interntech/internal/config"
	"interntech/internal/shared/cache"
	"interntech/internal/shared/storage/sqlitestore"
)

type stubGenerator struct{}

func (stubGenerator) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	return `{"description":"A hands-on introduction to Go."}`, nil
}

func (stubGenerator) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	return nil, io.ErrUnexpectedEOF
}

func testConfig() *config.Config {
	secure := false
	cfg := &config.Config{Env: config.EnvTest}
	cfg.Auth.JWTSecret = "server-test-secret"
	cfg.Auth.AccessTokenTTL = time.Hour
	cfg.Auth.LoginMaxAttempts = 5
	cfg.Auth.LoginWindow = time.Minute
	cfg.Auth.SecureCookie = &secure
	cfg.APIServer.CORSOrigins = []string{"http://localhost:3000"}
	return cfg
}

func newTestServer(t *testing.T, static fstest.MapFS) (http.Handler, *Handler) {
	t.Helper()
	store, err := sqlitestore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	deps := Deps{
		Config:    testConfig(),
		Store:     store,
		Cache:     cache.NewMemoryCache(),
		Generator: stubGenerator{},
	}
	if static != nil {
		deps.StaticFS = static
	}
	h, err := NewHandler(t.Context(), deps)
	require.NoError(t, err)
	require.NoError(t, h.AuthService().EnsureAdminUser(t.Context(), "admin@example.com", "password123"))
	return h.Router(), h
}

func do(h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	w := do(h, http.MethodPost, "/api/admin/login", `{"email":"admin@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

const courseBody = `{
	"title": "Go for Beginners",
	"category": "Web Development",
	"instructor": "Jane Doe",
	"description": "Learn Go from scratch.",
	"duration": "8 Weeks",
	"price": 199,
	"rating": 4.5,
	"imageUrl": "https://example.com/go.png",
	"studentsEnrolled": 0
}`

func TestRouter_AdminFlow(t *testing.T) {
	h, _ := newTestServer(t, nil)

	w := do(h, http.MethodPost, "/api/courses", courseBody)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	session := login(t, h)

	w = do(h, http.MethodPost, "/api/courses", courseBody, session)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// 公开读取不需要会话
	w = do(h, http.MethodGet, "/api/courses", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Go for Beginners")

	w = do(h, http.MethodGet, "/api/listings?kind=course", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"Course"`)

	w = do(h, http.MethodGet, "/api/admin/stats", "", session)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		Courses int64 `json:"courses"`
		Users   int64 `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.Courses)
	assert.Equal(t, int64(1), stats.Users)

	w = do(h, http.MethodPost, "/api/admin/ai/course-description", `{"title":"Go for Beginners"}`, session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "hands-on")

	w = do(h, http.MethodPost, "/api/admin/ai/banner-image", `{"prompt":"gophers"}`, session)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = do(h, http.MethodPost, "/api/admin/logout", "", session)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(h, http.MethodGet, "/api/admin/me", "", session)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "revoked token is rejected")
}

func TestRouter_Metrics(t *testing.T) {
	h, _ := newTestServer(t, nil)
	session := login(t, h)
	do(h, http.MethodGet, "/api/users", "")
	do(h, http.MethodPost, "/api/admin/ai/course-description", `{"title":"Go"}`, session)

	w := do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `interntech_http_requests_total{method="POST",path="/api/admin/login",status="200"} 1`)
	assert.Contains(t, body, `interntech_guard_decisions_total{action="redirect_login",reason="missing_token"} 1`)
	assert.Contains(t, body, `interntech_generations_total{kind="course-description",result="success"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestRouter_HealthAndOpenAPI(t *testing.T) {
	h, _ := newTestServer(t, nil)

	w := do(h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(h, http.MethodGet, "/api/openapi.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Contains(t, doc["paths"], "/api/courses/{id}")
}

func TestRouter_StaticSite(t *testing.T) {
	site := fstest.MapFS{
		"index.html":       {Data: []byte("<html>home</html>")},
		"admin/login.html": {Data: []byte("<html>login</html>")},
		"app.js":           {Data: []byte("console.log(1)")},
	}
	h, _ := newTestServer(t, site)

	w := do(h, http.MethodGet, "/admin/login", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "login")

	w = do(h, http.MethodGet, "/admin/courses", "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, auth.LoginPath, w.Header().Get("Location"))

	session := login(t, h)
	w = do(h, http.MethodGet, "/admin/courses", "", session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "home", "unknown pages fall back to index.html")

	w = do(h, http.MethodGet, "/app.js", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	w = do(h, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestRouter_CORSAndRequestID(t *testing.T) {
	h, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/courses", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set(RequestIDHeader, "req-42")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))

	w = do(h, http.MethodGet, "/health", "")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestRecoverMiddleware(t *testing.T) {
	h := recoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/courses", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/health", "/health"},
		{"/api/courses", "/api/courses"},
		{"/api/courses/abc", "/api/courses/{id}"},
		{"/api/users/abc/status", "/api/users/{id}/status"},
		{"/api/blogs/slug/hello-world", "/api/blogs/slug/{slug}"},
		{"/api/listings/course/abc", "/api/listings/{kind}/{id}"},
		{"/api/admin/login", "/api/admin/login"},
		{"/api/admin/ai/banner-image", "/api/admin/ai/{kind}"},
		{"/api/a/b/c/d/e", "/api/other"},
		{"/media/media/x.png", "/media/{key}"},
		{"/admin/courses", "static"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePath(tt.path))
		})
	}
}

func TestNewHandler_RequiresStore(t *testing.T) {
	_, err := NewHandler(t.Context(), Deps{Config: testConfig()})
	assert.Error(t, err)
}

func TestRouter_DevProxy(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "next:"+r.URL.Path)
	}))
	defer backend.Close()

	store, err := sqlitestore.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	cfg := testConfig()
	cfg.Web.DevServerURL = backend.URL
	h, err := NewHandler(t.Context(), Deps{Config: cfg, Store: store})
	require.NoError(t, err)
	router := h.Router()

	w := do(router, http.MethodGet, "/blog/hello", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "next:/blog/hello", w.Body.String())

	w = do(router, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	cfg.Web.DevServerURL = "localhost:3000"
	_, err = NewHandler(t.Context(), Deps{Config: cfg, Store: store})
	assert.Error(t, err)
}

func loginAttempt(h http.Handler, xff string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"email":"admin@example.com","password":"wrong-password"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", xff)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code
}

func TestRouter_LoginThrottleIgnoresSpoofedForwarding(t *testing.T) {
	h, _ := newTestServer(t, nil)

	var codes []int
	for i := range 8 {
		codes = append(codes, loginAttempt(h, fmt.Sprintf("10.0.0.%d", i)))
	}
	assert.Equal(t, []int{401, 401, 401, 401, 401, 429, 429, 429}, codes)
}

func TestRouter_LoginThrottleBehindTrustedProxy(t *testing.T) {
	store, err := sqlitestore.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	cfg := testConfig()
	// httptest 请求的 RemoteAddr 为 192.0.2.1
	cfg.APIServer.TrustedProxies = []string{"192.0.2.0/24"}
	srv, err := NewHandler(t.Context(), Deps{Config: cfg, Store: store, Cache: cache.NewMemoryCache()})
	require.NoError(t, err)
	require.NoError(t, srv.AuthService().EnsureAdminUser(t.Context(), "admin@example.com", "password123"))
	h := srv.Router()

	for range 5 {
		require.Equal(t, http.StatusUnauthorized, loginAttempt(h, "203.0.113.7"))
	}
	assert.Equal(t, http.StatusTooManyRequests, loginAttempt(h, "203.0.113.7"))
	assert.Equal(t, http.StatusUnauthorized, loginAttempt(h, "203.0.113.8"), "other clients behind the proxy are unaffected")

	cfg.APIServer.TrustedProxies = []string{"not-a-proxy"}
	_, err = NewHandler(t.Context(), Deps{Config: cfg, Store: store})
	assert.Error(t, err)
}
