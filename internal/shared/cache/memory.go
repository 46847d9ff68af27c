package cache

import (
	"context"
	"sync"
	"time"
)

// ============================================================================
// MemoryCache - 进程内实现
// ============================================================================

type entry struct {
	count     int64
	expiresAt time.Time
}

// minSweep 条目数达到该值后写入时才触发全量清理
const minSweep = 1024

// MemoryCache 进程内 Cache 实现
//
// 过期条目在访问时清理；写入使条目数超过 sweepAt 时全量清理一次，
// 阈值随存活条目数翻倍，清理成本按写入摊销。
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	sweepAt int
	now     func() time.Time
}

// NewMemoryCache 创建 MemoryCache 实例
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]entry), sweepAt: minSweep, now: time.Now}
}

// get 调用方持有锁
func (c *MemoryCache) get(key string) (entry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return entry{}, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return entry{}, false
	}
	return e, true
}

// put 调用方持有锁
func (c *MemoryCache) put(key string, e entry) {
	c.entries[key] = e
	if len(c.entries) < c.sweepAt {
		return
	}
	now := c.now()
	for k, v := range c.entries {
		if !now.Before(v.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.sweepAt = max(2*len(c.entries), minSweep)
}

func (c *MemoryCache) Revoke(ctx context.Context, jti string, until time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !until.After(c.now()) {
		return nil
	}
	c.put(KeyRevokedToken+jti, entry{count: 1, expiresAt: until})
	return nil
}

func (c *MemoryCache) IsRevoked(ctx context.Context, jti string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.get(KeyRevokedToken + jti)
	return ok, nil
}

func (c *MemoryCache) RecordFailure(ctx context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := KeyLoginFailures + key
	e, ok := c.get(k)
	if !ok {
		// 窗口从第一次失败开始计算
		e = entry{expiresAt: c.now().Add(window)}
	}
	e.count++
	c.put(k, e)
	return e.count, nil
}

func (c *MemoryCache) Failures(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, _ := c.get(KeyLoginFailures + key)
	return e.count, nil
}

func (c *MemoryCache) Reset(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, KeyLoginFailures+key)
	return nil
}

func (c *MemoryCache) Close() error {
	return nil
}

var _ Cache = (*MemoryCache)(nil)
