// Package server 路由配置与核心基础设施
//
// 本包把各领域包的路由装配到一个 ServeMux，并按以下顺序包裹中间件（外→内）：
//
//	recover → request id → 真实 IP → 访问日志 → 指标 → CORS → 会话守卫 → 路由
//
// 文件组织：
//   - handler.go: 依赖注入与路由
//   - common.go: 健康检查与 OpenAPI 文档
//   - middleware.go: 通用中间件
//   - metrics.go: Prometheus 指标
//   - static.go / devproxy.go: 前端页面（静态导出或开发代理）
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"

	"interntech/api"
	"interntech/internal/apiserver/apiutil"
	"interntech/internal/apiserver/auth"
	"interntech/internal/apiserver/blog"
	"interntech/internal/apiserver/course"
	"interntech/internal/apiserver/dashboard"
	"interntech/internal/apiserver/internship"
	"interntech/internal/apiserver/listing"
	"interntech/internal/apiserver/media"
	"interntech/internal/apiserver/relay"
	"interntech/internal/apiserver/user"
	"interntech/internal/config"
	"interntech/internal/shared/cache"
	"interntech/internal/shared/objstore"
	"interntech/internal/shared/storage"
	"interntech/pkg/logging"
)

// MetricsNamespace Prometheus 指标命名空间
const MetricsNamespace = "interntech"

// Deps 服务依赖
//
// Store 必填；其余为空时：Cache 关闭登录限流与令牌拒绝列表，
// Objects 使用进程内存储，Generator 使内容生成接口返回 503，
// StaticFS 不提供前端页面。
type Deps struct {
	Config    *config.Config
	Store     storage.PersistentStore
	Cache     cache.Cache
	Objects   objstore.Store
	Generator relay.Generator
	StaticFS  fs.FS
}

// Handler API 处理器
type Handler struct {
	cfg     *config.Config
	store   storage.PersistentStore
	authSvc *auth.Service
	guard   *auth.Guard
	media   *media.Service
	relay   *relay.Relay
	metrics *Metrics
	proxies apiutil.TrustedProxies
	static  http.Handler
	spec    []byte // OpenAPI 文档（JSON）
	logger  *logging.Logger
}

// NewHandler 创建 Handler 实例
func NewHandler(ctx context.Context, d Deps) (*Handler, error) {
	if d.Store == nil {
		return nil, fmt.Errorf("server: store is required")
	}
	cfg := d.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	objects := d.Objects
	if objects == nil {
		objects = objstore.NewMemory()
	}

	doc, err := api.Load(ctx)
	if err != nil {
		return nil, err
	}
	spec, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}

	proxies, err := apiutil.ParseTrustedProxies(cfg.APIServer.TrustedProxies)
	if err != nil {
		return nil, err
	}

	tokenCfg := auth.Config{
		JWTSecret:      cfg.Auth.JWTSecret,
		AccessTokenTTL: cfg.Auth.AccessTokenTTL,
	}
	h := &Handler{
		cfg:     cfg,
		store:   d.Store,
		metrics: NewMetrics(MetricsNamespace),
		proxies: proxies,
		spec:    spec,
		logger:  logging.Default("http"),
	}

	h.authSvc = auth.NewService(d.Store, d.Cache, auth.ServiceConfig{
		Token:            tokenCfg,
		AllowAdminSignup: cfg.Auth.AllowAdminSignup,
		LoginMaxAttempts: cfg.Auth.LoginMaxAttempts,
		LoginWindow:      cfg.Auth.LoginWindow,
	})

	var denylist cache.TokenDenylist
	if d.Cache != nil {
		denylist = d.Cache
	}
	h.guard = auth.NewGuard(tokenCfg, denylist, cfg.CookieSecure())
	h.guard.OnVerdict = h.metrics.RecordVerdict

	h.media = media.NewService(objects, cfg.MinIO.PublicBaseURL)
	h.relay = relay.New(d.Generator, h.media)
	h.relay.OnGenerate = h.metrics.RecordGeneration

	switch {
	case cfg.Web.DevServerURL != "":
		h.static, err = newDevProxy(cfg.Web.DevServerURL)
	case d.StaticFS != nil:
		h.static, err = newSPAHandler(d.StaticFS)
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// AuthService 认证服务（启动时创建初始管理员）
func (h *Handler) AuthService() *auth.Service {
	return h.authSvc
}

// Metrics 指标实例
func (h *Handler) Metrics() *Metrics {
	return h.metrics
}

// Router 返回配置好的 HTTP 路由
//
// 路由规则：
//
// 系统:
//   - GET  /health, /metrics, /api/openapi.json
//
// 认证 (auth):
//   - POST /api/admin/login | signup | logout
//   - GET  /api/admin/me
//   - PUT  /api/admin/password | profile
//
// 内容 (course / internship / blog)，写操作需要管理员:
//   - GET|POST /api/{courses,internships,blogs}
//   - GET|PUT|DELETE /api/{courses,internships,blogs}/{id}
//   - GET /api/blogs/slug/{slug}
//   - GET /api/listings, /api/listings/{kind}/{id}
//
// 管理后台（全部需要管理员）:
//   - /api/users...（user 包）
//   - GET  /api/admin/stats
//   - POST /api/admin/media, GET /media/{key...}
//   - POST /api/admin/ai/{kind}
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", h.metrics.Handler())
	mux.HandleFunc("GET /api/openapi.json", h.OpenAPI)

	auth.NewHandler(h.authSvc, h.cfg.CookieSecure()).RegisterRoutes(mux)

	course.NewHandler(h.store).RegisterRoutes(mux)
	internship.NewHandler(h.store).RegisterRoutes(mux)
	blog.NewHandler(h.store).RegisterRoutes(mux)
	listing.NewHandler(h.store).RegisterRoutes(mux)

	user.NewHandler(h.store, h.authSvc).RegisterRoutes(mux)
	dashboard.NewHandler(h.store).RegisterRoutes(mux)
	media.NewHandler(h.media).RegisterRoutes(mux)
	relay.NewHandler(h.relay).RegisterRoutes(mux)

	if h.static != nil {
		mux.Handle("/", h.static)
	}

	var handler http.Handler = h.guard.Middleware(mux)
	handler = corsMiddleware(h.cfg.APIServer.CORSOrigins)(handler)
	handler = h.metrics.MetricsMiddleware(handler)
	handler = accessLogMiddleware(h.logger)(handler)
	handler = realIPMiddleware(h.proxies)(handler)
	handler = requestIDMiddleware(handler)
	return recoverMiddleware(handler)
}
