// Package cache 缓存层抽象接口
//
// 保存有过期时间的临时状态：已注销令牌的拒绝列表和登录失败计数。
// 生产环境由 Redis 实现（多实例共享），单机与测试使用内存实现。
package cache

import (
	"context"
	"time"
)

// ============================================================================
// 缓存接口定义
// ============================================================================

// TokenDenylist 已注销令牌（按 jti）
type TokenDenylist interface {
	// Revoke 记录 jti 已注销，直到 until（令牌自身过期时间）为止
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AttemptLimiter 固定窗口失败计数
type AttemptLimiter interface {
	// RecordFailure 记录一次失败，返回当前窗口内的失败次数
	RecordFailure(ctx context.Context, key string, window time.Duration) (int64, error)
	Failures(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

// ============================================================================
// 组合接口
// ============================================================================

// Cache 缓存组合接口
type Cache interface {
	TokenDenylist
	AttemptLimiter
	Close() error
}
