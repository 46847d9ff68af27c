// Package dashboard 管理后台概览统计
package dashboard

import (
	"context"
	"log"
	"net/http"

	"golang.org/x/sync/errgroup"

	"interntech/internal/apiserver/apiutil"
	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"
)

// Counter 统计所需的存储能力
type Counter interface {
	CountCourses(ctx context.Context) (int64, error)
	CountInternships(ctx context.Context) (int64, error)
	CountBlogs(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context, filter storage.UserFilter) (int64, error)
}

// Stats 概览统计
type Stats struct {
	Courses      int64 `json:"courses"`
	Internships  int64 `json:"internships"`
	Blogs        int64 `json:"blogs"`
	Users        int64 `json:"users"`
	ActiveUsers  int64 `json:"activeUsers"`
	BlockedUsers int64 `json:"blockedUsers"`
	PremiumUsers int64 `json:"premiumUsers"`
}

// Handler 概览统计处理器
type Handler struct {
	store Counter
}

func NewHandler(store Counter) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/admin/stats", h.Get)
}

// Collect 并发查询各集合计数，任一失败即返回
func Collect(ctx context.Context, store Counter) (*Stats, error) {
	var s Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { s.Courses, err = store.CountCourses(ctx); return })
	g.Go(func() (err error) { s.Internships, err = store.CountInternships(ctx); return })
	g.Go(func() (err error) { s.Blogs, err = store.CountBlogs(ctx); return })
	g.Go(func() (err error) { s.Users, err = store.CountUsers(ctx, storage.UserFilter{}); return })
	g.Go(func() (err error) {
		s.ActiveUsers, err = store.CountUsers(ctx, storage.UserFilter{Status: model.UserStatusActive})
		return
	})
	g.Go(func() (err error) {
		s.BlockedUsers, err = store.CountUsers(ctx, storage.UserFilter{Status: model.UserStatusBlocked})
		return
	})
	g.Go(func() (err error) {
		s.PremiumUsers, err = store.CountUsers(ctx, storage.UserFilter{Subscription: model.SubscriptionPremium})
		return
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Get GET /api/admin/stats
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := Collect(r.Context(), h.store)
	if err != nil {
		log.Printf("[dashboard.stats] count error: %v", err)
		apiutil.WriteError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, stats)
}
