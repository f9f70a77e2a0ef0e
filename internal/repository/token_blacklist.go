package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenBlacklist 定义了已吊销 token 的存取接口。
// 登出后的 token 在其剩余有效期内被拒绝。
type TokenBlacklist interface {
	Add(ctx context.Context, tokenString string, ttl time.Duration) error
	Contains(ctx context.Context, tokenString string) (bool, error)
}

type redisTokenBlacklist struct {
	redisClient *redis.Client
}

// NewTokenBlacklist 创建一个基于 Redis 的 TokenBlacklist 实例。
func NewTokenBlacklist(redisClient *redis.Client) TokenBlacklist {
	return &redisTokenBlacklist{redisClient: redisClient}
}

// Add 将 token 加入黑名单，过期时间为其剩余有效期。
// token 自身过期后键自动清除，黑名单不会无限增长。
func (r *redisTokenBlacklist) Add(ctx context.Context, tokenString string, ttl time.Duration) error {
	if ttl <= 0 {
		// 已过期的 token 无需入黑名单，验证阶段本来就会拒绝
		return nil
	}
	return r.redisClient.Set(ctx, "blacklist:"+tokenString, "true", ttl).Err()
}

// Contains 检查 token 是否在黑名单中。
func (r *redisTokenBlacklist) Contains(ctx context.Context, tokenString string) (bool, error) {
	_, err := r.redisClient.Get(ctx, "blacklist:"+tokenString).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
