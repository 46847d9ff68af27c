// Package user 用户管理 - HTTP 处理（全部路由仅管理员可用）
package user

import (
	"context"
	"errors"
	"net/http"

	"interntech/internal/apiserver/apiutil"
	"interntech/internal/apiserver/auth"
	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"
)

// Creator 创建带密码的用户（由凭据服务实现）
type Creator interface {
	CreateUserWith(ctx context.Context, name, email, password string, role model.UserRole, extra model.UserPatch) (*model.User, error)
}

// Handler 用户管理 HTTP 处理器
type Handler struct {
	store   storage.UserStore
	creator Creator
}

// NewHandler 创建用户管理处理器
func NewHandler(store storage.UserStore, creator Creator) *Handler {
	return &Handler{store: store, creator: creator}
}

// RegisterRoutes 注册用户管理路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users", h.List)
	mux.HandleFunc("POST /api/users", h.Create)
	mux.HandleFunc("GET /api/users/{id}", h.Get)
	mux.HandleFunc("PUT /api/users/{id}", h.Update)
	mux.HandleFunc("PATCH /api/users/{id}", h.UpdateStatus)
	mux.HandleFunc("PATCH /api/users/{id}/status", h.UpdateStatus)
	mux.HandleFunc("DELETE /api/users/{id}", h.Delete)
}

type createRequest struct {
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Password     string              `json:"password"`
	Role         model.UserRole      `json:"role"`
	Subscription *model.Subscription `json:"subscription,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// List 用户列表
// GET /api/users?role=&status=&subscription=&q=&limit=&offset=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	opts, err := apiutil.ParseListOptions(r)
	if err != nil {
		apiutil.WriteStoreError(w, "user.list", "user", err)
		return
	}
	q := r.URL.Query()
	filter := storage.UserFilter{
		ListOptions:  opts,
		Role:         model.UserRole(q.Get("role")),
		Status:       model.UserStatus(q.Get("status")),
		Subscription: model.Subscription(q.Get("subscription")),
	}
	users, err := h.store.ListUsers(r.Context(), filter)
	if err != nil {
		apiutil.WriteStoreError(w, "user.list", "user", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// Create 管理员新建用户
// POST /api/users
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := apiutil.DecodeJSON(w, r, &req); err != nil {
		apiutil.WriteStoreError(w, "user.create", "user", err)
		return
	}
	if req.Role == "" {
		apiutil.WriteValidationError(w, model.NewValidationError("role", "role is required"))
		return
	}

	extra := model.UserPatch{Subscription: req.Subscription}
	user, err := h.creator.CreateUserWith(r.Context(), req.Name, req.Email, req.Password, req.Role, extra)
	if err != nil {
		h.writeError(w, "user.create", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusCreated, map[string]interface{}{"user": user})
}

// Get 用户详情
// GET /api/users/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		apiutil.WriteStoreError(w, "user.get", "user", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// Update 部分更新用户（不含密码）
// PUT /api/users/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var patch model.UserPatch
	if err := apiutil.DecodeJSON(w, r, &patch); err != nil {
		apiutil.WriteStoreError(w, "user.update", "user", err)
		return
	}

	current, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		apiutil.WriteStoreError(w, "user.update", "user", err)
		return
	}
	patch.Apply(current)
	if err := current.Validate(); err != nil {
		apiutil.WriteStoreError(w, "user.update", "user", err)
		return
	}
	if isSelf(r, id) && current.Role != model.UserRoleAdmin {
		apiutil.WriteError(w, http.StatusBadRequest, "cannot remove your own admin role")
		return
	}

	user, err := h.store.UpdateUser(r.Context(), id, patch)
	if err != nil {
		h.writeError(w, "user.update", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// UpdateStatus 启用/封禁用户
// PATCH /api/users/{id}
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req statusRequest
	if err := apiutil.DecodeJSON(w, r, &req); err != nil {
		apiutil.WriteStoreError(w, "user.status", "user", err)
		return
	}
	status, ok := model.ParseUserStatus(req.Status)
	if !ok {
		apiutil.WriteValidationError(w, model.NewValidationError("status", "status must be one of [active blocked]"))
		return
	}
	if isSelf(r, id) && status == model.UserStatusBlocked {
		apiutil.WriteError(w, http.StatusBadRequest, "cannot block your own account")
		return
	}

	user, err := h.store.UpdateUserStatus(r.Context(), id, status)
	if err != nil {
		apiutil.WriteStoreError(w, "user.status", "user", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// Delete 删除用户
// DELETE /api/users/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if isSelf(r, id) {
		apiutil.WriteError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}
	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		apiutil.WriteStoreError(w, "user.delete", "user", err)
		return
	}
	apiutil.WriteMessage(w, http.StatusOK, "User deleted successfully")
}

func isSelf(r *http.Request, id string) bool {
	me := auth.IdentityFrom(r.Context())
	return me != nil && me.UserID == id
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, auth.ErrConflict) || errors.Is(err, storage.ErrDuplicate) {
		apiutil.WriteError(w, http.StatusConflict, "user with this email already exists")
		return
	}
	apiutil.WriteStoreError(w, op, "user", err)
}
