package listing

import (
	"context"
	"encoding/json"
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

func seeded(t *testing.T) (*sqlitestore.Store, *model.Course, *model.Internship) {
	t.Helper()
	store, err := sqlitestore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	old := storagetest.Course("Old course", "Dev", base)
	mid := model.NewInternship(model.InternshipPatch{}, base.Add(time.Hour))
	mid.Title, mid.Category, mid.Organization = "Backend Intern", "Dev", "Acme"
	mid.Description, mid.Duration, mid.Stipend, mid.Location = "d", "3 Months", "$1000/month", "Remote"
	mid.ImageURL = "https://example.com/i.png"
	newest := storagetest.Course("New course", "Design", base.Add(2*time.Hour))

	require.NoError(t, store.CreateCourse(ctx, old))
	require.NoError(t, store.CreateInternship(ctx, mid))
	require.NoError(t, store.CreateCourse(ctx, newest))
	return store, newest, mid
}

func TestFeed(t *testing.T) {
	store, newest, mid := seeded(t)
	ctx := context.Background()

	all, err := Feed(ctx, store, "", storage.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, newest.ID, all[0].ID())
	assert.Equal(t, model.ListingKindInternship, all[1].Kind)
	assert.Equal(t, mid.ID, all[1].ID())
	for _, l := range all {
		require.NoError(t, l.Check())
	}

	onlyCourses, err := Feed(ctx, store, model.ListingKindCourse, storage.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, onlyCourses, 2)

	dev, err := Feed(ctx, store, "", storage.ListOptions{Category: "Dev"})
	require.NoError(t, err)
	assert.Len(t, dev, 2)

	page, err := Feed(ctx, store, "", storage.ListOptions{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, mid.ID, page[0].ID())

	empty, err := Feed(ctx, store, "", storage.ListOptions{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestHandler(t *testing.T) {
	store, newest, mid := seeded(t)
	mux := http.NewServeMux()
	NewHandler(store).RegisterRoutes(mux)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/api/listings?kind=internship")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Listings []model.Listing `json:"listings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Listings, 1)
	assert.Equal(t, "Backend Intern", resp.Listings[0].Title())
	assert.Contains(t, w.Body.String(), `"type":"Internship"`)

	assert.Equal(t, http.StatusBadRequest, get("/api/listings?kind=webinar").Code)

	w = get("/api/listings/course/" + newest.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"Course"`)

	assert.Equal(t, http.StatusNotFound, get("/api/listings/course/"+mid.ID).Code)
	assert.Equal(t, http.StatusNotFound, get("/api/listings/webinar/"+mid.ID).Code)
}
