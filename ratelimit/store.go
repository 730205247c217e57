package ratelimit

import (
	"context"
	"errors"
	"time"
)

// ErrStoreUnavailable wraps backend failures (redis down, etc).
var ErrStoreUnavailable = errors.New("rate limit store unavailable")

// Store is the counter backend. Implementations must treat a lapsed window
// exactly like an absent entry: Count returns zero and the next Incr opens
// a fresh window rather than continuing the old one.
type Store interface {
	// Count returns the attempts recorded in the current window and the
	// window's reset time. An absent or lapsed window is (0, zero time).
	Count(ctx context.Context, id string) (int, time.Time, error)

	// Incr records one attempt, opening a fresh window of the given length
	// when none is active. Returns the new count and the window reset time.
	Incr(ctx context.Context, id string, window time.Duration) (int, time.Time, error)

	// Clear removes all state for id. Clearing an unknown id is a no-op.
	Clear(ctx context.Context, id string) error
}
