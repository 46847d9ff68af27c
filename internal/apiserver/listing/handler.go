// Package listing 课程与实习的合并列表（学生端浏览）
package listing

import (
	"context"
	"net/http"
	"sort"

	"golang.org/x/sync/errgroup"

	"interntech/internal/apiserver/apiutil"
	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"
)

// Store 合并列表所需的存储能力
type Store interface {
	ListCourses(ctx context.Context, opts storage.ListOptions) ([]*model.Course, error)
	GetCourse(ctx context.Context, id string) (*model.Course, error)
	ListInternships(ctx context.Context, opts storage.ListOptions) ([]*model.Internship, error)
	GetInternship(ctx context.Context, id string) (*model.Internship, error)
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/listings", h.List)
	mux.HandleFunc("GET /api/listings/{kind}/{id}", h.Get)
}

// Feed 按 kind 过滤后合并，按创建时间倒序，再做分页
func Feed(ctx context.Context, store Store, kind model.ListingKind, opts storage.ListOptions) ([]model.Listing, error) {
	// 分页在合并之后进行
	inner := storage.ListOptions{Category: opts.Category, Search: opts.Search}

	var courses []*model.Course
	var internships []*model.Internship
	g, gctx := errgroup.WithContext(ctx)
	if kind == "" || kind == model.ListingKindCourse {
		g.Go(func() (err error) {
			courses, err = store.ListCourses(gctx, inner)
			return
		})
	}
	if kind == "" || kind == model.ListingKindInternship {
		g.Go(func() (err error) {
			internships, err = store.ListInternships(gctx, inner)
			return
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]model.Listing, 0, len(courses)+len(internships))
	for _, c := range courses {
		out = append(out, model.CourseListing(c))
	}
	for _, i := range internships {
		out = append(out, model.InternshipListing(i))
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CreatedAt().After(out[b].CreatedAt())
	})

	if opts.Offset >= len(out) {
		return []model.Listing{}, nil
	}
	out = out[opts.Offset:]
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// List GET /api/listings?kind=course|internship&category=&q=&limit=&offset=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseListingKind(r.URL.Query().Get("kind"))
	if err != nil {
		apiutil.WriteValidationError(w, model.NewValidationError("kind", "kind must be one of [course internship]"))
		return
	}
	opts, err := apiutil.ParseListOptions(r)
	if err != nil {
		apiutil.WriteStoreError(w, "listing.list", "listing", err)
		return
	}
	listings, err := Feed(r.Context(), h.store, kind, opts)
	if err != nil {
		apiutil.WriteStoreError(w, "listing.list", "listing", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"listings": listings})
}

// Get GET /api/listings/{kind}/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseListingKind(r.PathValue("kind"))
	if err != nil || kind == "" {
		apiutil.WriteError(w, http.StatusNotFound, "listing not found")
		return
	}

	var l model.Listing
	switch kind {
	case model.ListingKindCourse:
		c, err := h.store.GetCourse(r.Context(), r.PathValue("id"))
		if err != nil {
			apiutil.WriteStoreError(w, "listing.get", "listing", err)
			return
		}
		l = model.CourseListing(c)
	case model.ListingKindInternship:
		i, err := h.store.GetInternship(r.Context(), r.PathValue("id"))
		if err != nil {
			apiutil.WriteStoreError(w, "listing.get", "listing", err)
			return
		}
		l = model.InternshipListing(i)
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"listing": l})
}
