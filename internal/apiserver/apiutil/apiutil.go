// Package apiutil HTTP 处理器共用的请求解析与响应写入
package apiutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"

	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"
)

// MaxBodyBytes JSON 请求体上限
const MaxBodyBytes = 1 << 20

// WriteJSON 写入 JSON 响应
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteError 写入 {"error": message}
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteMessage 写入 {"message": message}
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"message": message})
}

// WriteValidationError 400，附带字段明细
func WriteValidationError(w http.ResponseWriter, ve *model.ValidationError) {
	WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":   ve.Error(),
		"details": ve.Fields,
	})
}

// WriteStoreError 将存储层/校验错误映射为 HTTP 状态码
//
// op 用于日志前缀，如 "course.update"；entity 用于 404/409 文案，如 "course"。
func WriteStoreError(w http.ResponseWriter, op, entity string, err error) {
	if ve, ok := model.AsValidationError(err); ok {
		WriteValidationError(w, ve)
		return
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		WriteError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, storage.ErrDuplicate):
		WriteError(w, http.StatusConflict, entity+" already exists")
	default:
		log.Printf("[%s] store error: %v", op, err)
		WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

// DecodeJSON 解析 JSON 请求体，失败时返回 *model.ValidationError
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &typeErr):
			return model.NewValidationError(typeErr.Field, fmt.Sprintf("%s has the wrong type", typeErr.Field))
		case errors.As(err, &maxErr):
			return model.NewValidationError("body", "request body too large")
		case errors.Is(err, io.EOF):
			return model.NewValidationError("body", "request body is required")
		default:
			return model.NewValidationError("body", "invalid request body")
		}
	}
	return nil
}

// ParseListOptions 解析 ?category=&q=&limit=&offset=
func ParseListOptions(r *http.Request) (storage.ListOptions, error) {
	q := r.URL.Query()
	opts := storage.ListOptions{Category: q.Get("category"), Search: q.Get("q")}
	var err error
	if opts.Limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		return opts, err
	}
	if opts.Offset, err = intParam(q.Get("offset"), "offset"); err != nil {
		return opts, err
	}
	return opts, nil
}

func intParam(s, name string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, model.NewValidationError(name, name+" must be a non-negative integer")
	}
	return n, nil
}

// ClientIP 直连方地址（RemoteAddr）
//
// 转发头由客户端任意填写，这里不读取；部署在反向代理后时由
// TrustedProxies.RealIP 在入口处改写 RemoteAddr。
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// TrustedProxies 可信反向代理地址段
type TrustedProxies []netip.Prefix

// ParseTrustedProxies 解析代理列表，元素为单个 IP 或 CIDR
func ParseTrustedProxies(list []string) (TrustedProxies, error) {
	var proxies TrustedProxies
	for _, item := range list {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.Contains(item, "/") {
			prefix, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", item, err)
			}
			proxies = append(proxies, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", item, err)
		}
		addr = addr.Unmap()
		proxies = append(proxies, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return proxies, nil
}

// Contains 地址是否属于可信代理
func (p TrustedProxies) Contains(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// RealIP 解析真实客户端地址
//
// 只有直连方是可信代理时才读取 X-Forwarded-For：自右向左跳过可信代理，
// 取第一个不可信地址；链中出现无法解析的值时退回直连地址。
func (p TrustedProxies) RealIP(r *http.Request) string {
	remote := ClientIP(r)
	addr, err := netip.ParseAddr(remote)
	if err != nil || !p.Contains(addr) {
		return remote
	}

	var hops []string
	for _, v := range r.Header.Values("X-Forwarded-For") {
		hops = append(hops, strings.Split(v, ",")...)
	}
	if len(hops) == 0 {
		if xr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
			return xr.Unmap().String()
		}
		return remote
	}

	client := remote
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			return remote
		}
		client = hop.Unmap().String()
		if !p.Contains(hop) {
			return client
		}
	}
	return client
}
