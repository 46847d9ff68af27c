// Package infra 基础设施聚合层
//
// 按配置初始化并聚合各基础设施组件：
//   - Storage：文档存储（MongoDB，或开发/CLI 使用的 SQLite）
//   - Cache：令牌拒绝列表与登录失败计数（Redis，未配置时进程内）
//   - Objects：图片对象存储（MinIO，未配置时进程内）
package infra

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"interntech/internal/config"
	"interntech/internal/shared/cache"
	cacheredis "interntech/internal/shared/cache/redis"
	"interntech/internal/shared/objstore"
	"interntech/internal/shared/storage"
	"interntech/internal/shared/storage/mongostore"
	"interntech/internal/shared/storage/sqlitestore"
)

// Infrastructure 基础设施聚合结构
type Infrastructure struct {
	Storage storage.PersistentStore
	Cache   cache.Cache
	Objects objstore.Store
}

// Close 关闭所有基础设施连接
func (i *Infrastructure) Close() error {
	var errs []error
	if i.Storage != nil {
		errs = append(errs, i.Storage.Close())
	}
	if i.Cache != nil {
		errs = append(errs, i.Cache.Close())
	}
	return errors.Join(errs...)
}

// Open 按配置初始化全部基础设施，任一失败时关闭已打开的连接
func Open(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	store, err := OpenStore(cfg.Database)
	if err != nil {
		return nil, err
	}
	i := &Infrastructure{Storage: store}

	if i.Cache, err = OpenCache(cfg.Redis); err != nil {
		i.Close()
		return nil, err
	}
	if i.Objects, err = OpenObjects(ctx, cfg.MinIO); err != nil {
		i.Close()
		return nil, err
	}
	return i, nil
}

// OpenStore 按驱动打开文档存储
func OpenStore(cfg config.DatabaseConfig) (storage.PersistentStore, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if cfg.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		s, err := sqlitestore.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		log.Printf("[infra] using SQLite store at %s", cfg.Path)
		return s, nil
	case config.DriverMongoDB, "":
		s, err := mongostore.NewStore(cfg.URI, cfg.Name)
		if err != nil {
			return nil, err
		}
		log.Printf("[infra] connected to MongoDB database %s", cfg.Name)
		return s, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// OpenCache URL 为空时使用进程内缓存（单实例部署）
func OpenCache(cfg config.RedisConfig) (cache.Cache, error) {
	if cfg.URL == "" {
		log.Printf("[infra] REDIS_URL not set, using in-process cache")
		return cache.NewMemoryCache(), nil
	}
	s, err := cacheredis.NewStoreFromURL(cfg.URL, cfg.Password)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// OpenObjects Endpoint 为空时使用进程内对象存储（重启后丢失）
func OpenObjects(ctx context.Context, cfg config.MinIOConfig) (objstore.Store, error) {
	if cfg.Endpoint == "" {
		log.Printf("[infra] MINIO_ENDPOINT not set, using in-process object store")
		return objstore.NewMemory(), nil
	}
	m, err := objstore.NewMinIO(cfg)
	if err != nil {
		return nil, err
	}
	if err := m.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure media bucket: %w", err)
	}
	return m, nil
}
