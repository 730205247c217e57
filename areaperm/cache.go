package areaperm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultTTL is how long resolved permissions stay cached. Invalidation is
// TTL-only; grant changes can be stale for up to one TTL.
const DefaultTTL = 5 * time.Minute

// Cache stores resolved permission maps keyed by (projectID, userID,
// area|"all"). Implementations must tolerate racing writes of the same
// key; entries for a given key are idempotent within a TTL.
type Cache interface {
	Get(ctx context.Context, key string) (map[Area]Permissions, bool)
	Set(ctx context.Context, key string, value map[Area]Permissions, ttl time.Duration)
}

// CacheKey builds the canonical cache key. An empty area means the full
// per-area map.
func CacheKey(projectID, userID int64, area Area) string {
	scope := "all"
	if area != "" {
		scope = string(area)
	}
	return fmt.Sprintf("%d:%d:%s", projectID, userID, scope)
}

type memoryCacheEntry struct {
	value     map[Area]Permissions
	expiresAt time.Time
}

// MemoryCache is the in-process expiring map backend. Lapsed entries are
// invisible to readers immediately and evicted lazily on write.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryCacheEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryCacheEntry),
		now:     time.Now,
	}
}

// Get implements [Cache].
func (c *MemoryCache) Get(ctx context.Context, key string) (map[Area]Permissions, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

// Set implements [Cache]. Writing an existing key overwrites it; racing
// writers store equivalent values, so last-write-wins is safe.
func (c *MemoryCache) Set(ctx context.Context, key string, value map[Area]Permissions, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = memoryCacheEntry{value: value, expiresAt: now.Add(ttl)}
}
