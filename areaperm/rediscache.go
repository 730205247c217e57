package areaperm

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisCachePrefix = "areaperm:"

// RedisCache shares resolved permissions across instances. A backend
// failure is treated as a miss; the resolver falls through to the policy
// store rather than failing the caller.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

// Get implements [Cache].
func (c *RedisCache) Get(ctx context.Context, key string) (map[Area]Permissions, bool) {
	raw, err := c.client.Get(ctx, redisCachePrefix+key).Bytes()
	if err != nil {
		// redis.Nil is a plain miss; an unreachable cache degrades to one.
		return nil, false
	}

	var value map[Area]Permissions
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false
	}
	return value, true
}

// Set implements [Cache].
func (c *RedisCache) Set(ctx context.Context, key string, value map[Area]Permissions, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, redisCachePrefix+key, raw, ttl).Err()
}
