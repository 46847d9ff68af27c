package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *Service) {
	t.Helper()
	svc, _ := newTestService(t)
	mux := http.NewServeMux()
	NewHandler(svc, false).RegisterRoutes(mux)
	return NewGuard(testCfg, svc.deny, false).Middleware(mux), svc
}

func doJSON(h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("response has no %s cookie", CookieName)
	return nil
}

func TestAuthFlow(t *testing.T) {
	h, _ := newTestRouter(t)

	w := doJSON(h, "POST", "/api/admin/signup", `{"name":"Ada","email":"ada@example.com","password":"s3cretpass"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Admin user created successfully")
	assert.NotContains(t, w.Body.String(), "password")

	w = doJSON(h, "POST", "/api/admin/signup", `{"name":"Ada","email":"ada@example.com","password":"s3cretpass"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(h, "POST", "/api/admin/login", `{"email":"ada@example.com","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())

	w = doJSON(h, "POST", "/api/admin/login", `{"email":"ada@example.com","password":"s3cretpass"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.InDelta(t, 3600, cookie.MaxAge, 5)

	w = doJSON(h, "GET", "/api/admin/me", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		User struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "ada@example.com", me.User.Email)
	assert.Equal(t, "admin", me.User.Role)

	w = doJSON(h, "POST", "/api/admin/logout", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logout successful"}`, w.Body.String())
	assert.True(t, sessionCookie(t, w).MaxAge < 0)

	// 注销后旧令牌失效
	w = doJSON(h, "GET", "/api/admin/me", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginHandler_Errors(t *testing.T) {
	h, svc := newTestRouter(t)
	_, err := svc.CreateUser(t.Context(), "Sam", "sam@example.com", "s3cretpass", "student")
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"missing fields", `{"email":""}`, http.StatusBadRequest},
		{"unknown user", `{"email":"x@example.com","password":"s3cretpass"}`, http.StatusUnauthorized},
		{"not admin", `{"email":"sam@example.com","password":"s3cretpass"}`, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(h, "POST", "/api/admin/login", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestPasswordAndProfileHandlers(t *testing.T) {
	h, _ := newTestRouter(t)
	w := doJSON(h, "POST", "/api/admin/signup", `{"name":"Ada","email":"ada@example.com","password":"s3cretpass"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(h, "POST", "/api/admin/login", `{"email":"ada@example.com","password":"s3cretpass"}`)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	w = doJSON(h, "PUT", "/api/admin/password", `{"currentPassword":"nope-nope","newPassword":"n3wpassword"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(h, "PUT", "/api/admin/password", `{"currentPassword":"s3cretpass","newPassword":"n3wpassword"}`, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(h, "PUT", "/api/admin/profile", `{"name":"Ada L."}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Ada L."`)

	w = doJSON(h, "PUT", "/api/admin/profile", `{"name":"Ada L."}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
