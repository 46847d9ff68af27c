package media

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"interntech/internal/apiserver/apiutil"
	"interntech/internal/shared/objstore"
)

// maxBodyBytes 请求体上限：文件本身加 multipart 头部余量
const maxBodyBytes = MaxUploadBytes + 64<<10

// Handler 媒体 HTTP 处理器
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/admin/media", h.Upload)
	mux.HandleFunc("GET /media/{key...}", h.Serve)
}

// Upload multipart 字段 file
// POST /api/admin/media
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > maxBodyBytes {
		apiutil.WriteError(w, http.StatusRequestEntityTooLarge, "image must be at most 5 MiB")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apiutil.WriteError(w, http.StatusRequestEntityTooLarge, "image must be at most 5 MiB")
			return
		}
		apiutil.WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := readLimited(file, MaxUploadBytes)
	if err != nil {
		apiutil.WriteError(w, http.StatusRequestEntityTooLarge, "image must be at most 5 MiB")
		return
	}
	url, err := h.svc.SaveImage(r.Context(), data)
	if errors.Is(err, ErrUnsupportedType) {
		apiutil.WriteError(w, http.StatusUnsupportedMediaType, err.Error())
		return
	}
	if err != nil {
		log.Printf("[media.upload] save image: %v", err)
		apiutil.WriteError(w, http.StatusInternalServerError, "failed to store image")
		return
	}
	apiutil.WriteJSON(w, http.StatusCreated, map[string]string{"imageUrl": url})
}

// Serve 回源读取
// GET /media/{key...}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	obj, err := h.svc.Open(r.Context(), KeyPrefix+r.PathValue("key"))
	if errors.Is(err, objstore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Printf("[media.serve] %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, obj.Body); err != nil {
		log.Printf("[media.serve] write body: %v", err)
	}
}
