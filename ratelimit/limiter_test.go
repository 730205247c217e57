package ratelimit

import (
	"context"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T) (*Limiter, *MemoryStore, *time.Time) {
	t.Helper()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &now

	store := NewMemoryStore(time.Hour)
	store.now = func() time.Time { return *clock }
	t.Cleanup(store.Close)

	limiter := New(store, Config{MaxAttempts: 5, Window: 15 * time.Minute})
	limiter.now = store.now

	return limiter, store, clock
}

func TestFreshIdentifierAllowed(t *testing.T) {
	limiter, _, _ := newTestLimiter(t)
	ctx := context.Background()

	status, err := limiter.Check(ctx, "share-1:203.0.113.7")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !status.Allowed {
		t.Fatal("fresh identifier must be allowed")
	}
	if status.Remaining != 4 {
		t.Fatalf("fresh identifier remaining = %d, want 4", status.Remaining)
	}
}

func TestBoundaryAtMaxAttempts(t *testing.T) {
	limiter, _, _ := newTestLimiter(t)
	ctx := context.Background()
	const id = "share-1:203.0.113.7"

	// Attempts 1..5 are allowed going in.
	for i := 1; i <= 5; i++ {
		status, err := limiter.Check(ctx, id)
		if err != nil {
			t.Fatalf("Check before attempt %d failed: %v", i, err)
		}
		if !status.Allowed {
			t.Fatalf("attempt %d must be allowed", i)
		}
		if _, err := limiter.Record(ctx, id); err != nil {
			t.Fatalf("Record attempt %d failed: %v", i, err)
		}
	}

	// The 6th is denied with a zero remaining budget.
	status, err := limiter.Check(ctx, id)
	if err != nil {
		t.Fatalf("Check after budget spent failed: %v", err)
	}
	if status.Allowed {
		t.Fatal("attempt max+1 must be denied")
	}
	if status.Remaining != 0 {
		t.Fatalf("denied status remaining = %d, want 0", status.Remaining)
	}
	if status.ResetAt.IsZero() {
		t.Fatal("denied status must carry the window reset time")
	}
}

func TestClearRestoresBudget(t *testing.T) {
	limiter, _, _ := newTestLimiter(t)
	ctx := context.Background()
	const id = "share-1:203.0.113.7"

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
		t.Fatalf("Check after Clear failed: %v", err)
	}
	if !status.Allowed || status.Remaining != 4 {
		t.Fatalf("after Clear got allowed=%v remaining=%d, want allowed=true remaining=4",
			status.Allowed, status.Remaining)
	}
}

func TestWindowLapseResetsCount(t *testing.T) {
	limiter, _, clock := newTestLimiter(t)
	ctx := context.Background()
	const id = "share-1:203.0.113.7"

	for i := 0; i < 5; i++ {
		if _, err := limiter.Record(ctx, id); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	// Not yet swept, but lapsed: reads must behave as zero attempts.
	*clock = clock.Add(15*time.Minute + time.Second)

	count, err := limiter.AttemptCount(ctx, id)
	if err != nil {
		t.Fatalf("AttemptCount failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("lapsed window AttemptCount = %d, want 0", count)
	}

	status, err := limiter.Check(ctx, id)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !status.Allowed {
		t.Fatal("lapsed window must allow a fresh attempt")
	}

	// A new attempt opens a fresh window rather than extending the old one.
	status, err = limiter.Record(ctx, id)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if want := clock.Add(15 * time.Minute); !status.ResetAt.Equal(want) {
		t.Fatalf("fresh window resetAt = %v, want %v", status.ResetAt, want)
	}
}

func TestIdentifiersAreIndependent(t *testing.T) {
	limiter, _, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := limiter.Record(ctx, "share-1:203.0.113.7"); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	status, err := limiter.Check(ctx, "share-1:198.51.100.2")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !status.Allowed {
		t.Fatal("a different client IP must have its own budget")
	}
}

func TestSweepEvictsLapsedEntries(t *testing.T) {
	limiter, store, clock := newTestLimiter(t)
	ctx := context.Background()

	if _, err := limiter.Record(ctx, "a"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := limiter.Record(ctx, "b"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	*clock = clock.Add(16 * time.Minute)
	if _, err := limiter.Record(ctx, "c"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	store.evictExpired()

	store.mu.Lock()
	defer store.mu.Unlock()
	if _, ok := store.entries["a"]; ok {
		t.Fatal("lapsed entry a must be evicted")
	}
	if _, ok := store.entries["b"]; ok {
		t.Fatal("lapsed entry b must be evicted")
	}
	if _, ok := store.entries["c"]; !ok {
		t.Fatal("live entry c must survive the sweep")
	}
}
