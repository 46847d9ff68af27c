// Package blog 博客领域 - HTTP 处理
//
// 列表和详情对公众只展示已发布且发布日期不晚于当前时间的文章；
// 携带有效管理员会话的请求可以看到草稿和定时发布的文章（?public=1 强制公开视图）。
package blog

import (
	"errors"
	"net/http"
	"time"

	"interntech/internal/apiserver/apiutil"
	"interntech/internal/apiserver/auth"
	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"
)

// Handler 博客 HTTP 处理器
type Handler struct {
	store storage.BlogStore
	now   func() time.Time
}

// NewHandler 创建博客处理器
func NewHandler(store storage.BlogStore) *Handler {
	return &Handler{store: store, now: time.Now}
}

// RegisterRoutes 注册博客路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/blogs", h.List)
	mux.HandleFunc("POST /api/blogs", h.Create)
	mux.HandleFunc("GET /api/blogs/slug/{slug}", h.GetBySlug)
	mux.HandleFunc("GET /api/blogs/{id}", h.Get)
	mux.HandleFunc("PUT /api/blogs/{id}", h.Update)
	mux.HandleFunc("DELETE /api/blogs/{id}", h.Delete)
}

// adminView 请求是否以管理员视角查看（可见草稿）
func adminView(r *http.Request) bool {
	if r.URL.Query().Get("public") == "1" {
		return false
	}
	return auth.IdentityFrom(r.Context()).IsAdmin()
}

// List 博客列表（按发布日期倒序）
// GET /api/blogs
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	opts, err := apiutil.ParseListOptions(r)
	if err != nil {
		apiutil.WriteStoreError(w, "blog.list", "blog", err)
		return
	}
	filter := storage.BlogFilter{ListOptions: opts}
	if !adminView(r) {
		filter.PublishedOnly = true
		filter.Now = h.now().UTC()
	}

	blogs, err := h.store.ListBlogs(r.Context(), filter)
	if err != nil {
		apiutil.WriteStoreError(w, "blog.list", "blog", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"posts": blogs})
}

// Get 博客详情
// GET /api/blogs/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	blog, err := h.store.GetBlog(r.Context(), r.PathValue("id"))
	h.writeVisible(w, r, "blog.get", blog, err)
}

// GetBySlug 按 slug 查询
// GET /api/blogs/slug/{slug}
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	blog, err := h.store.GetBlogBySlug(r.Context(), r.PathValue("slug"))
	h.writeVisible(w, r, "blog.slug", blog, err)
}

// writeVisible 未发布的文章对公众表现为不存在
func (h *Handler) writeVisible(w http.ResponseWriter, r *http.Request, op string, blog *model.Blog, err error) {
	if err == nil && !adminView(r) && !blog.IsPublic(h.now()) {
		err = storage.ErrNotFound
	}
	if err != nil {
		apiutil.WriteStoreError(w, op, "blog", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"post": blog})
}

// Create 创建博客
// POST /api/blogs
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.BlogPatch
	if err := apiutil.DecodeJSON(w, r, &req); err != nil {
		apiutil.WriteStoreError(w, "blog.create", "blog", err)
		return
	}

	blog := model.NewBlog(req, h.now().UTC())
	if err := blog.Validate(); err != nil {
		apiutil.WriteStoreError(w, "blog.create", "blog", err)
		return
	}
	if err := h.store.CreateBlog(r.Context(), blog); err != nil {
		h.writeError(w, "blog.create", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusCreated, map[string]interface{}{"post": blog})
}

// Update 部分更新博客
// PUT /api/blogs/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var patch model.BlogPatch
	if err := apiutil.DecodeJSON(w, r, &patch); err != nil {
		apiutil.WriteStoreError(w, "blog.update", "blog", err)
		return
	}

	current, err := h.store.GetBlog(r.Context(), id)
	if err != nil {
		apiutil.WriteStoreError(w, "blog.update", "blog", err)
		return
	}
	patch.Apply(current)
	if err := current.Validate(); err != nil {
		apiutil.WriteStoreError(w, "blog.update", "blog", err)
		return
	}

	blog, err := h.store.UpdateBlog(r.Context(), id, patch)
	if err != nil {
		h.writeError(w, "blog.update", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"post": blog})
}

// Delete 删除博客
// DELETE /api/blogs/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteBlog(r.Context(), r.PathValue("id")); err != nil {
		apiutil.WriteStoreError(w, "blog.delete", "blog", err)
		return
	}
	apiutil.WriteMessage(w, http.StatusOK, "Blog post deleted successfully")
}

// writeError slug 冲突给出明确提示
func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, storage.ErrDuplicate) {
		apiutil.WriteError(w, http.StatusConflict, "a blog with this slug already exists")
		return
	}
	apiutil.WriteStoreError(w, op, "blog", err)
}
