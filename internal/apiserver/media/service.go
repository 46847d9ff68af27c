// Package media 图片上传与读取（MinIO / 进程内对象存储）
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"interntech/internal/shared/objstore"
)

// MaxUploadBytes 单张图片上限
const MaxUploadBytes = 5 << 20

// KeyPrefix 对象键前缀
const KeyPrefix = "media/"

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ErrUnsupportedType 非图片内容
var ErrUnsupportedType = fmt.Errorf("only png, jpeg, gif and webp images are allowed")

// Service 媒体存储服务
type Service struct {
	store      objstore.Store
	publicBase string
}

// NewService publicBase 为空时通过 /media/{key} 由本服务回源
func NewService(store objstore.Store, publicBase string) *Service {
	return &Service{store: store, publicBase: strings.TrimSuffix(publicBase, "/")}
}

// URL 对象的外部访问地址
func (s *Service) URL(key string) string {
	if s.publicBase != "" {
		return s.publicBase + "/" + key
	}
	return "/" + key
}

// SaveImage 保存图片，内容类型按文件头嗅探，返回访问地址
func (s *Service) SaveImage(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image")
	}
	if len(data) > MaxUploadBytes {
		return "", fmt.Errorf("image exceeds %d bytes", MaxUploadBytes)
	}
	contentType := http.DetectContentType(data)
	ext, ok := extensions[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}

	key := KeyPrefix + uuid.NewString() + ext
	if err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return s.URL(key), nil
}

// Open 读取对象，调用方负责关闭 Body
func (s *Service) Open(ctx context.Context, key string) (*objstore.Object, error) {
	return s.store.Get(ctx, key)
}

// readLimited 读取至多 limit 字节，超出时报错
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("image exceeds %d bytes", limit)
	}
	return data, nil
}
