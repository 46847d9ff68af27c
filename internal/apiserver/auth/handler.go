package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"interntech/internal/apiserver/apiutil"
	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"
	"interntech/pkg/logging"
)

// Handler 认证 HTTP 处理器
type Handler struct {
	svc    *Service
	secure bool
	logger *logging.Logger
}

// NewHandler 创建认证处理器
func NewHandler(svc *Service, secureCookie bool) *Handler {
	return &Handler{svc: svc, secure: secureCookie, logger: logging.Default("auth")}
}

// RegisterRoutes 注册认证相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/admin/login", h.Login)
	mux.HandleFunc("POST /api/admin/signup", h.Signup)
	mux.HandleFunc("POST /api/admin/logout", h.Logout)
	mux.HandleFunc("GET /api/admin/me", h.Me)
	mux.HandleFunc("PUT /api/admin/password", h.ChangePassword)
	mux.HandleFunc("PUT /api/admin/profile", h.UpdateProfile)
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type profileRequest struct {
	Name     *string `json:"name,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

type loginResponse struct {
	Message   string      `json:"message"`
	User      *model.User `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// ============================================================================
// Handlers
// ============================================================================

// Login 管理员登录，成功后写入 HttpOnly 会话 Cookie
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := apiutil.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, "auth.login", err)
		return
	}

	ip := apiutil.ClientIP(r)
	res, err := h.svc.Login(r.Context(), req.Email, req.Password, ip)
	h.logger.WithContext(r.Context()).AuthLog("login", req.Email, ip, err)
	if err != nil {
		h.writeError(w, "auth.login", err)
		return
	}

	SetSessionCookie(w, res.Token, time.Until(res.ExpiresAt), h.secure)
	apiutil.WriteJSON(w, http.StatusOK, loginResponse{
		Message:   "Login successful",
		User:      res.User,
		ExpiresAt: res.ExpiresAt,
	})
}

// Signup 管理员注册
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := apiutil.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, "auth.signup", err)
		return
	}

	user, err := h.svc.Signup(r.Context(), req.Name, req.Email, req.Password)
	h.logger.WithContext(r.Context()).AuthLog("signup", req.Email, apiutil.ClientIP(r), err)
	if err != nil {
		h.writeError(w, "auth.signup", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Admin user created successfully",
		"user":    user,
	})
}

// Logout 注销：吊销令牌并清除 Cookie（未登录时同样成功）
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), TokenFromRequest(r)); err != nil {
		log.Printf("[auth.logout] revoke token: %v", err)
	}
	ClearSessionCookie(w, h.secure)
	apiutil.WriteMessage(w, http.StatusOK, "Logout successful")
}

// Me 当前登录的管理员
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id := IdentityFrom(r.Context())
	if id == nil {
		apiutil.WriteError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	user, err := h.svc.Me(r.Context(), id)
	if err != nil {
		h.writeError(w, "auth.me", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// ChangePassword 修改密码
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id := IdentityFrom(r.Context())
	if id == nil {
		apiutil.WriteError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req changePasswordRequest
	if err := apiutil.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, "auth.password", err)
		return
	}
	if err := h.svc.ChangePassword(r.Context(), id.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		h.writeError(w, "auth.password", err)
		return
	}
	apiutil.WriteMessage(w, http.StatusOK, "Password updated successfully")
}

// UpdateProfile 修改姓名/头像
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := IdentityFrom(r.Context())
	if id == nil {
		apiutil.WriteError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req profileRequest
	if err := apiutil.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, "auth.profile", err)
		return
	}
	user, err := h.svc.UpdateProfile(r.Context(), id.UserID, req.Name, req.ImageURL)
	if err != nil {
		h.writeError(w, "auth.profile", err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// writeError 凭据服务错误 → HTTP 状态码
func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	if ve, ok := model.AsValidationError(err); ok {
		apiutil.WriteValidationError(w, ve)
		return
	}
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		apiutil.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrWrongPassword):
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrAccountBlocked), errors.Is(err, ErrSignupDisabled):
		apiutil.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrConflict):
		apiutil.WriteError(w, http.StatusConflict, "user with this email already exists")
	case errors.Is(err, ErrTooManyAttempts):
		apiutil.WriteError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, ErrMissingSecret):
		log.Printf("[%s] JWT_SECRET is not configured", op)
		apiutil.WriteError(w, http.StatusInternalServerError, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		apiutil.WriteError(w, http.StatusNotFound, "user not found")
	default:
		log.Printf("[%s] error: %v", op, err)
		apiutil.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
