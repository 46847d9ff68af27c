// Package internship 实习领域 - HTTP 处理
package internship

import (
	"net/http"
	"time"

	"interntech/internal/apiserver/apiutil"
	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"
)

// Handler 实习 HTTP 处理器
type Handler struct {
	store storage.InternshipStore
	now   func() time.Time
}

// NewHandler 创建实习处理器
func NewHandler(store storage.InternshipStore) *Handler {
	return &Handler{store: store, now: time.Now}
}

// RegisterRoutes 注册实习路由（写操作由会话守卫限制为管理员）
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/internships", h.List)
	mux.HandleFunc("POST /api/internships", h.Create)
	mux.HandleFunc("GET /api/internships/{id}", h.Get)
	mux.HandleFunc("PUT /api/internships/{id}", h.Update)
	mux.HandleFunc("DELETE /api/internships/{id}", h.Delete)
}

// List 实习列表
// GET /api/internships?category=&q=&limit=&offset=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	opts, err := apiutil.ParseListOptions(r)
	if err != nil {
		apiutil.WriteStoreError(w, "internship.list", "internship", err)
		return
	}
	internships, err := h.store.ListInternships(r.Context(), opts)
	if err != nil {
		apiutil.WriteStoreError(w, "internship.list", "internship", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"internships": internships})
}

// Create 创建实习
// POST /api/internships
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.InternshipPatch
	if err := apiutil.DecodeJSON(w, r, &req); err != nil {
		apiutil.WriteStoreError(w, "internship.create", "internship", err)
		return
	}

	internship := model.NewInternship(req, h.now().UTC())
	if err := internship.Validate(); err != nil {
		apiutil.WriteStoreError(w, "internship.create", "internship", err)
		return
	}
	if err := h.store.CreateInternship(r.Context(), internship); err != nil {
		apiutil.WriteStoreError(w, "internship.create", "internship", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusCreated, map[string]interface{}{"internship": internship})
}

// Get 实习详情
// GET /api/internships/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	internship, err := h.store.GetInternship(r.Context(), r.PathValue("id"))
	if err != nil {
		apiutil.WriteStoreError(w, "internship.get", "internship", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"internship": internship})
}

// Update 部分更新实习，未提交的字段保持不变
// PUT /api/internships/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var patch model.InternshipPatch
	if err := apiutil.DecodeJSON(w, r, &patch); err != nil {
		apiutil.WriteStoreError(w, "internship.update", "internship", err)
		return
	}

	// 先合并到当前文档上校验，避免写入非法值
	current, err := h.store.GetInternship(r.Context(), id)
	if err != nil {
		apiutil.WriteStoreError(w, "internship.update", "internship", err)
		return
	}
	patch.Apply(current)
	if err := current.Validate(); err != nil {
		apiutil.WriteStoreError(w, "internship.update", "internship", err)
		return
	}

	internship, err := h.store.UpdateInternship(r.Context(), id, patch)
	if err != nil {
		apiutil.WriteStoreError(w, "internship.update", "internship", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"internship": internship})
}

// Delete 删除实习
// DELETE /api/internships/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteInternship(r.Context(), r.PathValue("id")); err != nil {
		apiutil.WriteStoreError(w, "internship.delete", "internship", err)
		return
	}
	apiutil.WriteMessage(w, http.StatusOK, "Internship deleted successfully")
}
