// Package objstore 对象存储（课程/博客横幅图片）
//
// 生产环境使用 MinIO（S3 兼容），未配置 MinIO 时退回进程内实现。
package objstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound 对象不存在
var ErrNotFound = errors.New("object not found")

// Object 读取到的对象，调用方负责关闭 Body
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Store 对象存储接口
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
}
