package auth

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"interntech/internal/apiserver/apiutil"
	"interntech/internal/shared/cache"
	"interntech/pkg/logging"
)

// LoginPath 管理后台登录页
const LoginPath = "/admin/login"

// Action 守卫判定结果
type Action int

const (
	Allow Action = iota
	RedirectLogin
	RedirectLoginClear
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectLoginClear:
		return "redirect_login_clear"
	}
	return "unknown"
}

// Reason 拒绝原因
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonMissingToken  Reason = "missing_token"
	ReasonInvalidToken  Reason = "invalid_token"
	ReasonNotAdmin      Reason = "not_admin"
	ReasonMissingSecret Reason = "missing_secret"
)

// Verdict 守卫对单个请求的判定
type Verdict struct {
	Action   Action
	Identity *Identity // Allow 且令牌有效时非空
	Reason   Reason
}

// 免认证路由（登录/注册/注销本身）
var publicExact = map[string]bool{
	"/admin/login":      true,
	"/admin/signup":     true,
	"/api/admin/login":  true,
	"/api/admin/signup": true,
	"/api/admin/logout": true,
}

// 写操作需要管理员的内容集合
var contentPrefixes = []string{
	"/api/courses",
	"/api/internships",
	"/api/blogs",
}

func under(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// IsProtected 请求是否需要管理员会话
func IsProtected(method, path string) bool {
	if publicExact[path] {
		return false
	}
	if under(path, "/admin") || under(path, "/api/admin") || under(path, "/api/users") {
		return true
	}
	if isMutating(method) {
		for _, p := range contentPrefixes {
			if under(path, p) {
				return true
			}
		}
	}
	return false
}

// Guard 会话守卫
type Guard struct {
	cfg      Config
	denylist cache.TokenDenylist
	secure   bool
	now      func() time.Time

	// OnVerdict 每次判定后回调（指标统计），可为空
	OnVerdict func(Verdict)
}

// NewGuard 创建会话守卫，denylist 可为空
func NewGuard(cfg Config, denylist cache.TokenDenylist, secureCookie bool) *Guard {
	return &Guard{cfg: cfg, denylist: denylist, secure: secureCookie, now: time.Now}
}

// Decide 根据路径与令牌给出判定
//
// 未受保护的路径总是放行；令牌有效时附带身份（可选认证）。
func (g *Guard) Decide(ctx context.Context, method, path, token string) Verdict {
	protected := IsProtected(method, path)

	if !g.cfg.HasSecret() {
		if protected {
			return Verdict{Action: RedirectLogin, Reason: ReasonMissingSecret}
		}
		return Verdict{Action: Allow}
	}

	if token == "" {
		if protected {
			return Verdict{Action: RedirectLogin, Reason: ReasonMissingToken}
		}
		return Verdict{Action: Allow}
	}

	id, err := g.verify(ctx, token)
	if err != nil {
		if protected {
			return Verdict{Action: RedirectLoginClear, Reason: ReasonInvalidToken}
		}
		return Verdict{Action: Allow}
	}
	if protected && !id.IsAdmin() {
		return Verdict{Action: RedirectLoginClear, Reason: ReasonNotAdmin}
	}
	return Verdict{Action: Allow, Identity: id}
}

func (g *Guard) verify(ctx context.Context, token string) (*Identity, error) {
	claims, err := ParseToken(g.cfg, token, g.now())
	if err != nil {
		return nil, err
	}
	id := claims.Identity()
	if g.denylist != nil && id.TokenID != "" {
		revoked, err := g.denylist.IsRevoked(ctx, id.TokenID)
		if err != nil {
			// 缓存不可用时不阻断已签名的有效令牌
			log.Printf("[auth.guard] denylist lookup failed: %v", err)
		} else if revoked {
			return nil, errRevoked
		}
	}
	return id, nil
}

// Middleware HTTP 中间件：页面路径 303 重定向到登录页，API 路径返回 JSON 错误
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := g.Decide(r.Context(), r.Method, r.URL.Path, TokenFromRequest(r))
		if g.OnVerdict != nil {
			g.OnVerdict(v)
		}

		if v.Action == Allow {
			ctx := r.Context()
			if v.Identity != nil {
				ctx = WithIdentity(ctx, v.Identity)
				ctx = logging.WithUserID(ctx, v.Identity.UserID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if v.Reason == ReasonMissingSecret {
			log.Printf("[auth.guard] JWT_SECRET is not configured")
			apiutil.WriteError(w, http.StatusInternalServerError, "server configuration error")
			return
		}

		if v.Action == RedirectLoginClear {
			ClearSessionCookie(w, g.secure)
		}

		if !under(r.URL.Path, "/api") {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}

		switch v.Reason {
		case ReasonNotAdmin:
			apiutil.WriteError(w, http.StatusForbidden, "admin access required")
		case ReasonInvalidToken:
			apiutil.WriteError(w, http.StatusUnauthorized, "invalid or expired session")
		default:
			apiutil.WriteError(w, http.StatusUnauthorized, "not authenticated")
		}
	})
}

// TokenFromRequest 优先读取 Cookie，其次 Authorization: Bearer
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// SetSessionCookie 写入会话 Cookie
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie 使会话 Cookie 立即过期
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
