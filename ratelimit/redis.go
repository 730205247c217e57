package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "rl:"

// RedisStore is the shared-counter backend for multi-instance deployments.
// Window state is INCR plus an EXPIRE set on the first hit, so every
// instance sees one consistent fixed window per identifier.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Count implements [Store]. Redis expiry doubles as the sweep; a missing
// key is a lapsed or never-opened window.
func (s *RedisStore) Count(ctx context.Context, id string) (int, time.Time, error) {
	key := redisKeyPrefix + id

	count, err := s.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, time.Time{}, nil
		}
		return 0, time.Time{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if ttl <= 0 {
		return 0, time.Time{}, nil
	}

	return int(count), time.Now().Add(ttl), nil
}

// Incr implements [Store].
func (s *RedisStore) Incr(ctx context.Context, id string, window time.Duration) (int, time.Time, error) {
	key := redisKeyPrefix + id

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// First hit in the window sets the TTL; later hits inherit it.
	if count == 1 {
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return int(count), time.Now().Add(window), nil
	}

	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if ttl <= 0 {
		ttl = window
	}

	return int(count), time.Now().Add(ttl), nil
}

// Clear implements [Store].
func (s *RedisStore) Clear(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
