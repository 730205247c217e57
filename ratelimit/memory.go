package ratelimit

import (
	"context"
	"sync"
	"time"
)

// DefaultSweepInterval is how often the in-memory store evicts lapsed
// windows. Eviction is a memory concern only; reads already treat lapsed
// windows as absent.
const DefaultSweepInterval = time.Minute

type memoryEntry struct {
	attempts int
	resetAt  time.Time
}

// MemoryStore is the single-instance in-process backend: a mutex-guarded
// map plus a background sweeper. Correct for one process only; scale out
// with [RedisStore].
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// NewMemoryStore creates the store and starts its sweeper.
func NewMemoryStore(sweepInterval time.Duration) *MemoryStore {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		done:    make(chan struct{}),
	}

	go s.sweep(sweepInterval)
	return s
}

// Count implements [Store].
func (s *MemoryStore) Count(ctx context.Context, id string) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok || !s.now().Before(entry.resetAt) {
		return 0, time.Time{}, nil
	}
	return entry.attempts, entry.resetAt, nil
}

// Incr implements [Store]. A lapsed window is replaced, never continued.
func (s *MemoryStore) Incr(ctx context.Context, id string, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[id]
	if !ok || !now.Before(entry.resetAt) {
		entry = memoryEntry{attempts: 1, resetAt: now.Add(window)}
	} else {
		entry.attempts++
	}
	s.entries[id] = entry

	return entry.attempts, entry.resetAt, nil
}

// Clear implements [Store].
func (s *MemoryStore) Clear(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// Close stops the sweeper. Safe to call more than once.
func (s *MemoryStore) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

func (s *MemoryStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-s.done:
			return
		}
	}
}

func (s *MemoryStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, entry := range s.entries {
		if !now.Before(entry.resetAt) {
			delete(s.entries, id)
		}
	}
}
