package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"interntech/internal/shared/cache"
)

// Revoke 写入 jti，TTL 与令牌剩余有效期相同
func (s *Store) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, cache.KeyRevokedToken+jti, 1, ttl).Err()
}

func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, cache.KeyRevokedToken+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RecordFailure 在同一事务中 INCR 计数并设置窗口过期时间
//
// EXPIRE 带 NX：只在键还没有过期时间时设置，窗口从第一次失败开始计算，
// 且计数键不会因单独的 EXPIRE 失败而永久存在。
func (s *Store) RecordFailure(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := cache.KeyLoginFailures + key
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (s *Store) Failures(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Get(ctx, cache.KeyLoginFailures+key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

func (s *Store) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, cache.KeyLoginFailures+key).Err()
}
