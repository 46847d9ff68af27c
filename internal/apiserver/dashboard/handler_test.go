package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"
	"interntech/internal/shared/storage/sqlitestore"
	"interntech/internal/shared/storage/storagetest"
)

func TestCollect(t *testing.T) {
	store, err := sqlitestore.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.CreateCourse(ctx, storagetest.Course("Go", "Dev", now)))
	require.NoError(t, store.CreateCourse(ctx, storagetest.Course("Rust", "Dev", now)))
	require.NoError(t, store.CreateBlog(ctx, storagetest.Blog("Hello", model.BlogStatusDraft, now)))

	users := []struct {
		email  string
		status model.UserStatus
		sub    model.Subscription
	}{
		{"a@example.com", model.UserStatusActive, model.SubscriptionPremium},
		{"b@example.com", model.UserStatusActive, model.SubscriptionFree},
		{"c@example.com", model.UserStatusBlocked, model.SubscriptionPremium},
	}
	for _, u := range users {
		user := model.NewUser("U", u.email, "hash", now)
		user.Status = u.status
		user.Subscription = u.sub
		require.NoError(t, store.CreateUser(ctx, user))
	}

	stats, err := Collect(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, Stats{
		Courses:      2,
		Internships:  0,
		Blogs:        1,
		Users:        3,
		ActiveUsers:  2,
		BlockedUsers: 1,
		PremiumUsers: 2,
	}, *stats)
}

type failingCounter struct{}

func (failingCounter) CountCourses(context.Context) (int64, error)     { return 0, errors.New("boom") }
func (failingCounter) CountInternships(context.Context) (int64, error) { return 1, nil }
func (failingCounter) CountBlogs(context.Context) (int64, error)       { return 1, nil }
func (failingCounter) CountUsers(context.Context, storage.UserFilter) (int64, error) {
	return 1, nil
}

func TestHandler_Error(t *testing.T) {
	mux := http.NewServeMux()
	NewHandler(failingCounter{}).RegisterRoutes(mux)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"failed to load stats"}`, w.Body.String())
}
