// Package course 课程领域 - HTTP 处理
package course

import (
	"net/http"
	"time"

	"interntech/internal/apiserver/apiutil"
	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"
)

// Handler 课程 HTTP 处理器
type Handler struct {
	store storage.CourseStore
	now   func() time.Time
}

// NewHandler 创建课程处理器
func NewHandler(store storage.CourseStore) *Handler {
	return &Handler{store: store, now: time.Now}
}

// RegisterRoutes 注册课程路由（写操作由会话守卫限制为管理员）
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/courses", h.List)
	mux.HandleFunc("POST /api/courses", h.Create)
	mux.HandleFunc("GET /api/courses/{id}", h.Get)
	mux.HandleFunc("PUT /api/courses/{id}", h.Update)
	mux.HandleFunc("DELETE /api/courses/{id}", h.Delete)
}

// List 课程列表
// GET /api/courses?category=&q=&limit=&offset=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	opts, err := apiutil.ParseListOptions(r)
	if err != nil {
		apiutil.WriteStoreError(w, "course.list", "course", err)
		return
	}
	courses, err := h.store.ListCourses(r.Context(), opts)
	if err != nil {
		apiutil.WriteStoreError(w, "course.list", "course", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"courses": courses})
}

// Create 创建课程
// POST /api/courses
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CoursePatch
	if err := apiutil.DecodeJSON(w, r, &req); err != nil {
		apiutil.WriteStoreError(w, "course.create", "course", err)
		return
	}

	course := model.NewCourse(req, h.now().UTC())
	if err := course.Validate(); err != nil {
		apiutil.WriteStoreError(w, "course.create", "course", err)
		return
	}
	if err := h.store.CreateCourse(r.Context(), course); err != nil {
		apiutil.WriteStoreError(w, "course.create", "course", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusCreated, map[string]interface{}{"course": course})
}

// Get 课程详情
// GET /api/courses/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	course, err := h.store.GetCourse(r.Context(), r.PathValue("id"))
	if err != nil {
		apiutil.WriteStoreError(w, "course.get", "course", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"course": course})
}

// Update 部分更新课程，未提交的字段保持不变
// PUT /api/courses/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var patch model.CoursePatch
	if err := apiutil.DecodeJSON(w, r, &patch); err != nil {
		apiutil.WriteStoreError(w, "course.update", "course", err)
		return
	}

	// 先合并到当前文档上校验，避免写入非法值
	current, err := h.store.GetCourse(r.Context(), id)
	if err != nil {
		apiutil.WriteStoreError(w, "course.update", "course", err)
		return
	}
	patch.Apply(current)
	if err := current.Validate(); err != nil {
		apiutil.WriteStoreError(w, "course.update", "course", err)
		return
	}

	course, err := h.store.UpdateCourse(r.Context(), id, patch)
	if err != nil {
		apiutil.WriteStoreError(w, "course.update", "course", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"course": course})
}

// Delete 删除课程
// DELETE /api/courses/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteCourse(r.Context(), r.PathValue("id")); err != nil {
		apiutil.WriteStoreError(w, "course.delete", "course", err)
		return
	}
	apiutil.WriteMessage(w, http.StatusOK, "Course deleted successfully")
}
