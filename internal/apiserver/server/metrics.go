package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"interntech/internal/apiserver/auth"
	"interntech/internal/apiserver/relay"
)

// Metrics 包含所有 API Server 指标
//
// 每个实例使用独立的 Registry，同一进程内可以创建多个 Server（测试）。
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求指标
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// 会话守卫
	GuardDecisionsTotal *prometheus.CounterVec

	// 内容生成
	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
}

// NewMetrics 创建指标实例
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		GuardDecisionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "guard_decisions_total",
				Help:      "Session guard decisions by action and reason",
			},
			[]string{"action", "reason"},
		),
		GenerationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Content generation calls by kind and result",
			},
			[]string{"kind", "result"},
		),
		GenerationDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_duration_seconds",
				Help:      "Content generation latency in seconds",
				Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"kind"},
		),
	}
}

// MetricsMiddleware 创建 HTTP 指标中间件
func (m *Metrics) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		wrapped := wrapResponseWriter(w)
		next.ServeHTTP(wrapped, r)

		path := normalizePath(r.URL.Path)
		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// RecordVerdict 记录守卫判定（auth.Guard.OnVerdict）
func (m *Metrics) RecordVerdict(v auth.Verdict) {
	reason := string(v.Reason)
	if reason == "" {
		reason = "none"
	}
	m.GuardDecisionsTotal.WithLabelValues(v.Action.String(), reason).Inc()
}

// RecordGeneration 记录一次内容生成（relay.Relay.OnGenerate）
func (m *Metrics) RecordGeneration(kind relay.Kind, d time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.GenerationsTotal.WithLabelValues(string(kind), result).Inc()
	m.GenerationDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
}

// Handler 返回 Prometheus HTTP Handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// 带 ID 的资源集合
var idCollections = map[string]bool{
	"courses":     true,
	"internships": true,
	"blogs":       true,
	"users":       true,
}

// normalizePath 规范化路径，将 ID 替换为占位符，避免高基数
//
//	/api/courses/abc123      -> /api/courses/{id}
//	/api/blogs/slug/my-post  -> /api/blogs/slug/{slug}
//	/api/listings/course/x   -> /api/listings/{kind}/{id}
//	/media/media/x.png       -> /media/{key}
//	/admin/courses           -> static
func normalizePath(path string) string {
	switch {
	case path == "/health", path == "/metrics":
		return path
	case strings.HasPrefix(path, "/media/"):
		return "/media/{key}"
	case !strings.HasPrefix(path, "/api/"):
		return "static"
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(parts) == 2:
		return path
	case len(parts) == 3 && parts[1] == "admin":
		return path
	case len(parts) == 4 && parts[1] == "admin" && parts[2] == "ai":
		return "/api/admin/ai/{kind}"
	case len(parts) == 4 && parts[1] == "blogs" && parts[2] == "slug":
		return "/api/blogs/slug/{slug}"
	case len(parts) == 4 && parts[1] == "listings":
		return "/api/listings/{kind}/{id}"
	case len(parts) == 3 && idCollections[parts[1]]:
		return "/api/" + parts[1] + "/{id}"
	case len(parts) == 4 && parts[1] == "users" && parts[3] == "status":
		return "/api/users/{id}/status"
	}
	return "/api/other"
}
