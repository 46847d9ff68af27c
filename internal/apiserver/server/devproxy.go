package server

import (
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"interntech/internal/apiserver/apiutil"
)

// newDevProxy 开发模式：页面与前端资源反向代理到前端 dev server
//
//	Browser → :8080 (Go)
//	          ├── /api/*   → Go handlers
//	          ├── /media/* → Go
//	          └── /*       → reverse proxy → WEB_DEV_SERVER_URL
func newDevProxy(target string) (http.Handler, error) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid dev server url %q", target)
	}

	proxy := httputil.NewSingleHostReverseProxy(u)
	director := proxy.Director
	proxy.Director = func(req *http.Request) {
		director(req)
		req.Host = u.Host
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("[server.devproxy] %s %s: %v", r.Method, r.URL.Path, err)
		apiutil.WriteError(w, http.StatusBadGateway, "dev server unavailable")
	}

	log.Printf("[server.devproxy] non-API routes -> %s", u)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
			apiutil.WriteError(w, http.StatusNotFound, "not found")
			return
		}
		proxy.ServeHTTP(w, r)
	}), nil
}
