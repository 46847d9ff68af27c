package media

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interntech/internal/shared/objstore"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upload(t *testing.T, h http.Handler, name string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/media", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestUploadAndServe(t *testing.T) {
	mux := http.NewServeMux()
	NewHandler(NewService(objstore.NewMemory(), "")).RegisterRoutes(mux)

	img := pngBytes(t)
	w := upload(t, mux, "banner.png", img)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ImageURL string `json:"imageUrl"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, strings.HasPrefix(resp.ImageURL, "/media/"), resp.ImageURL)
	assert.True(t, strings.HasSuffix(resp.ImageURL, ".png"))

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, resp.ImageURL, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, img, w.Body.Bytes())

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadRejects(t *testing.T) {
	mux := http.NewServeMux()
	NewHandler(NewService(objstore.NewMemory(), "")).RegisterRoutes(mux)

	w := upload(t, mux, "notes.txt", []byte("just some text"))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	big := append(pngBytes(t), bytes.Repeat([]byte{0}, MaxUploadBytes)...)
	w = upload(t, mux, "huge.png", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/media", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadRejects_BodyOverLimit(t *testing.T) {
	mux := http.NewServeMux()
	NewHandler(NewService(objstore.NewMemory(), "")).RegisterRoutes(mux)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "huge.png")
	require.NoError(t, err)
	_, err = fw.Write(append(pngBytes(t), bytes.Repeat([]byte{0}, maxBodyBytes)...))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	payload := body.Bytes()

	tests := []struct {
		name string
		body io.Reader
	}{
		// 已知长度在读取前拒绝
		{"declared length", bytes.NewReader(payload)},
		// 分块上传在读取中途触发 MaxBytesReader
		{"streamed", io.MultiReader(bytes.NewReader(payload))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/media", tt.body)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
		})
	}
}

func TestService_PublicBaseURL(t *testing.T) {
	svc := NewService(objstore.NewMemory(), "https://cdn.example.com/bucket/")
	url, err := svc.SaveImage(t.Context(), pngBytes(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/bucket/media/"), url)
}
