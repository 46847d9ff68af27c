package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interntech/internal/apiserver/auth"
	"interntech/internal/shared/model"
	"interntech/internal/shared/storage/sqlitestore"
)

type env struct {
	mux  *http.ServeMux
	self string
}

func setup(t *testing.T) *env {
	t.Helper()
	store, err := sqlitestore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := auth.NewService(store, nil, auth.ServiceConfig{Token: auth.Config{JWTSecret: "test", AccessTokenTTL: time.Hour}})
	admin, err := svc.CreateUser(t.Context(), "Root", "root@example.com", "bootstrap-pass", model.UserRoleAdmin)
	require.NoError(t, err)

	mux := http.NewServeMux()
	NewHandler(store, svc).RegisterRoutes(mux)
	return &env{mux: mux, self: admin.ID}
}

func (e *env) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{UserID: e.self, Role: auth.RoleAdmin}))
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, req)
	return w
}

type userEnvelope struct {
	User model.User `json:"user"`
}

func TestUserAdminFlow(t *testing.T) {
	e := setup(t)

	w := e.do("POST", "/api/users", `{"name":"Sam","email":"sam@example.com","password":"s3cretpass","role":"student","subscription":"premium"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")
	var created userEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, model.SubscriptionPremium, created.User.Subscription)
	assert.Equal(t, model.UserStatusActive, created.User.Status)
	id := created.User.ID

	w = e.do("POST", "/api/users", `{"name":"Sam 2","email":"sam@example.com","password":"s3cretpass","role":"student"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do("POST", "/api/users", `{"name":"NoPass","email":"np@example.com","role":"student"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do("PATCH", "/api/users/"+id, `{"status":"blocked"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"blocked"`)

	w = e.do("PATCH", "/api/users/"+id, `{"status":"deleted"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do("PATCH", "/api/users/"+id+"/status", `{"status":"blocked"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do("GET", "/api/users?status=blocked", "")
	var list struct {
		Users []model.User `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Users, 1)
	assert.Equal(t, id, list.Users[0].ID)

	w = e.do("PUT", "/api/users/"+id, `{"name":"Samantha"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated userEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Samantha", updated.User.Name)
	assert.Equal(t, model.UserStatusBlocked, updated.User.Status)

	w = e.do("PUT", "/api/users/"+id, `{"email":"root@example.com"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do("DELETE", "/api/users/"+id, "")
	assert.JSONEq(t, `{"message":"User deleted successfully"}`, w.Body.String())
	assert.Equal(t, http.StatusNotFound, e.do("GET", "/api/users/"+id, "").Code)
}

func TestUserSelfProtection(t *testing.T) {
	e := setup(t)
	assert.Equal(t, http.StatusBadRequest, e.do("DELETE", "/api/users/"+e.self, "").Code)
	assert.Equal(t, http.StatusBadRequest, e.do("PATCH", "/api/users/"+e.self, `{"status":"blocked"}`).Code)
	assert.Equal(t, http.StatusBadRequest, e.do("PUT", "/api/users/"+e.self, `{"role":"student"}`).Code)
	assert.Equal(t, http.StatusOK, e.do("GET", "/api/users/"+e.self, "").Code)
}

func TestCreateUser_RejectsUnknownSubscription(t *testing.T) {
	e := setup(t)

	w := e.do("POST", "/api/users", `{"name":"Gus","email":"gus@example.com","password":"s3cretpass","role":"student","subscription":"gold"}`)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "subscription")

	w = e.do("GET", "/api/users?q=gus", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "gus@example.com", "rejected user must not be stored")
}
