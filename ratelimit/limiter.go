package ratelimit

import (
	"context"
	"time"
)

const (
	// DefaultMaxAttempts is the attempt budget per window.
	DefaultMaxAttempts = 5
	// DefaultWindow is the fixed window length.
	DefaultWindow = 15 * time.Minute
)

// Config tunes a [Limiter]. Zero values fall back to defaults.
type Config struct {
	MaxAttempts int
	Window      time.Duration
}

// Status is the outcome of a limit check.
type Status struct {
	// Allowed reports whether another attempt may proceed.
	Allowed bool
	// Remaining is how many attempts stay available after the one the
	// caller is about to make. Never negative.
	Remaining int
	// ResetAt is when the current window lapses. For an idle identifier it
	// is the reset time a window opened now would get.
	ResetAt time.Time
}

// Limiter applies a fixed-window attempt budget on top of a [Store].
type Limiter struct {
	store  Store
	config Config
	now    func() time.Time
}

// New creates a Limiter over the given store.
func New(store Store, cfg Config) *Limiter {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	return &Limiter{store: store, config: cfg, now: time.Now}
}

// Check reports whether id may attempt again. It never records anything;
// pair it with [Limiter.Record] around the actual verification.
func (l *Limiter) Check(ctx context.Context, id string) (Status, error) {
	count, resetAt, err := l.store.Count(ctx, id)
	if err != nil {
		return Status{}, err
	}
	return l.status(count, resetAt), nil
}

// Record registers one attempt for id, opening a fresh window when none is
// active, and returns the post-attempt status.
func (l *Limiter) Record(ctx context.Context, id string) (Status, error) {
	count, resetAt, err := l.store.Incr(ctx, id, l.config.Window)
	if err != nil {
		return Status{}, err
	}
	return l.status(count, resetAt), nil
}

// Clear drops all state for id. Called on successful verification so a
// legitimate user never inherits a half-spent window.
func (l *Limiter) Clear(ctx context.Context, id string) error {
	return l.store.Clear(ctx, id)
}

// AttemptCount returns the attempts recorded in the current window; a
// lapsed window counts as zero even if the backend has not swept it yet.
func (l *Limiter) AttemptCount(ctx context.Context, id string) (int, error) {
	count, _, err := l.store.Count(ctx, id)
	return count, err
}

func (l *Limiter) status(count int, resetAt time.Time) Status {
	if resetAt.IsZero() {
		resetAt = l.now().Add(l.config.Window)
	}

	remaining := l.config.MaxAttempts - count - 1
	if remaining < 0 {
		remaining = 0
	}

	return Status{
		Allowed:   count < l.config.MaxAttempts,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}
