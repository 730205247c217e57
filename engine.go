package authgate

import (
	"context"
	"time"

	"github.com/testware-io/authgate/areaperm"
	"github.com/testware-io/authgate/auditlog"
	"github.com/testware-io/authgate/metrics"
	"github.com/testware-io/authgate/ratelimit"
	"github.com/testware-io/authgate/securetoken"
)

// Engine is the composed authorization and audit layer. Construct it with
// [New]; all fields are immutable after Build and every method is safe for
// unbounded concurrent use.
type Engine struct {
	config Config

	grants    GrantSource
	areaPerms *areaperm.Resolver
	tokens    *securetoken.Service
	limiter   *ratelimit.Limiter

	classifier *auditlog.Classifier
	dispatcher *auditDispatcher
	metrics    *metrics.Metrics

	// ownedStore is set only when Build created the in-memory limiter
	// store itself and therefore owns its sweeper.
	ownedStore *ratelimit.MemoryStore
}

// Tokens exposes the security token service.
func (e *Engine) Tokens() *securetoken.Service {
	return e.tokens
}

// AuditDropped reports audit events lost to a full dispatch buffer.
func (e *Engine) AuditDropped() uint64 {
	return e.dispatcher.Dropped()
}

// Close drains the audit dispatcher and stops any owned background work.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.dispatcher.Close()
	if e.ownedStore != nil {
		e.ownedStore.Close()
	}
}

// countingCache feeds hit/miss counters without the resolver knowing
// about metrics.
type countingCache struct {
	inner   areaperm.Cache
	metrics *metrics.Metrics
}

func (c *countingCache) Get(ctx context.Context, key string) (map[areaperm.Area]areaperm.Permissions, bool) {
	value, ok := c.inner.Get(ctx, key)
	if ok {
		c.metrics.PermCacheHit()
	} else {
		c.metrics.PermCacheMiss()
	}
	return value, ok
}

func (c *countingCache) Set(ctx context.Context, key string, value map[areaperm.Area]areaperm.Permissions, ttl time.Duration) {
	c.inner.Set(ctx, key, value, ttl)
}
