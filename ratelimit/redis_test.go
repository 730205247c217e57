package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := New(NewRedisStore(client), Config{MaxAttempts: 5, Window: 15 * time.Minute})
	return limiter, mr
}

func TestRedisStoreBoundary(t *testing.T) {
	limiter, _ := newRedisLimiter(t)
	ctx := context.Background()
	const id = "share-9:203.0.113.7"

	for i := 1; i <= 5; i++ {
		status, err := limiter.Record(ctx, id)
		if err != nil {
			t.Fatalf("Record attempt %d failed: %v", i, err)
		}
		if i < 5 && !status.Allowed {
			t.Fatalf("attempt %d must still be allowed", i)
		}
		if i == 5 && status.Allowed {
			t.Fatal("recording the 5th attempt must exhaust the budget")
		}
	}

	status, err := limiter.Check(ctx, id)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if status.Allowed || status.Remaining != 0 {
		t.Fatalf("exhausted budget got allowed=%v remaining=%d", status.Allowed, status.Remaining)
	}
}

func TestRedisStoreWindowExpiry(t *testing.T) {
	limiter, mr := newRedisLimiter(t)
	ctx := context.Background()
	const id = "share-9:203.0.113.7"

	for i := 0; i < 5; i++ {
		if _, err := limiter.Record(ctx, id); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	mr.FastForward(15*time.Minute + time.Second)

	count, err := limiter.AttemptCount(ctx, id)
	if err != nil {
		t.Fatalf("AttemptCount failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expired key AttemptCount = %d, want 0", count)
	}

	status, err := limiter.Check(ctx, id)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !status.Allowed {
		t.Fatal("expired window must allow again")
	}
}

func TestRedisStoreClear(t *testing.T) {
	limiter, _ := newRedisLimiter(t)
	ctx := context.Background()
	const id = "share-9:203.0.113.7"

	for i := 0; i < 5; i++ {
		if _, err := limiter.Record(ctx, id); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	if err := limiter.Clear(ctx, id); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	status, err := limiter.Check(ctx, id)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !status.Allowed || status.Remaining != 4 {
		t.Fatalf("after Clear got allowed=%v remaining=%d, want allowed=true remaining=4",
			status.Allowed, status.Remaining)
	}
}
