package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"ethos/pkg/platform/sentinel"
)

// RedisCache stores one string value per account. No TTL: the cache entry
// survives sign-out for faster resume and is removed only by explicit data
// deletion.
type RedisCache struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed local cache.
func NewRedis(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, email string) ([]byte, error) {
	val, err := c.client.Get(ctx, Key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	return val, nil
}

func (c *RedisCache) Set(ctx context.Context, email string, data []byte) error {
	if err := c.client.Set(ctx, Key(email), data, 0).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, email string) error {
	if err := c.client.Del(ctx, Key(email)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}
