package server

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"interntech/internal/apiserver/apiutil"
)

// newSPAHandler 创建前端静态站点 handler，挂在路由兜底 "/" 上
//
// 优先级：
//  1. /api/ 下未匹配的路由 → JSON 404
//  2. 静态文件匹配 → 直接提供
//  3. .html 后缀匹配（静态导出的页面路由，如 /admin/courses → /admin/courses.html）
//  4. 兜底 → 返回 index.html 内容（客户端路由接管）
//
// 步骤 4 不使用 http.FileServer：FileServer 对 /index.html 会 301 到 ./，
// 非根路径会产生重定向循环。
func newSPAHandler(staticFS fs.FS) (http.Handler, error) {
	indexHTML, err := fs.ReadFile(staticFS, "index.html")
	if err != nil {
		return nil, fmt.Errorf("read index.html: %w", err)
	}
	fileServer := http.FileServer(http.FS(staticFS))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		urlPath := r.URL.Path
		if urlPath == "/api" || strings.HasPrefix(urlPath, "/api/") {
			apiutil.WriteError(w, http.StatusNotFound, "not found")
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			apiutil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		cleanPath := path.Clean(urlPath)
		if cleanPath == "/" {
			serveIndexHTML(w, indexHTML)
			return
		}

		if fileExists(staticFS, cleanPath) {
			fileServer.ServeHTTP(w, r)
			return
		}

		if !strings.Contains(path.Base(cleanPath), ".") {
			htmlPath := cleanPath + ".html"
			if fileExists(staticFS, htmlPath) {
				serveHTMLFile(w, staticFS, htmlPath)
				return
			}
		}

		serveIndexHTML(w, indexHTML)
	}), nil
}

func serveIndexHTML(w http.ResponseWriter, content []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

func serveHTMLFile(w http.ResponseWriter, fsys fs.FS, filePath string) {
	f, err := fsys.Open(strings.TrimPrefix(filePath, "/"))
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, f)
}

// fileExists 文件存在且不是目录
func fileExists(fsys fs.FS, filePath string) bool {
	name := strings.TrimPrefix(filePath, "/")
	if name == "" {
		name = "."
	}
	stat, err := fs.Stat(fsys, name)
	if err != nil {
		return false
	}
	return !stat.IsDir()
}
