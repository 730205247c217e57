package areaperm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/testware-io/authgate/access"
)

// ErrPolicyUnavailable wraps a policy store lookup that failed after the
// single retry.
var ErrPolicyUnavailable = errors.New("permission lookup failed")

// PolicySource is the external store holding the per-area policy. An empty
// area requests the full map; a named area may return just that entry.
type PolicySource interface {
	Fetch(ctx context.Context, userID, projectID int64, area Area) (map[Area]Permissions, error)
}

// Status distinguishes the three caller-visible resolution states.
type Status int

const (
	// StatusResolved means Permissions is authoritative, possibly all-false.
	StatusResolved Status = iota
	// StatusLoading means an async lookup has not completed yet.
	StatusLoading
	// StatusError means the policy store failed; Permissions is unusable.
	StatusError
)

// Result is one resolution outcome.
type Result struct {
	Status      Status
	Permissions map[Area]Permissions
	Err         error
}

// For returns the triple for one area. Unknown or unresolved areas are
// all-false.
func (r Result) For(area Area) Permissions {
	if r.Status != StatusResolved {
		return Permissions{}
	}
	return r.Permissions[area]
}

// Config tunes a [Resolver].
type Config struct {
	// TTL overrides the 5-minute cache window.
	TTL time.Duration
}

// Resolver answers capability questions, caching policy store responses.
type Resolver struct {
	source PolicySource
	cache  Cache
	ttl    time.Duration
}

// NewResolver builds a resolver over the given policy source and cache.
func NewResolver(source PolicySource, cache Cache, cfg Config) (*Resolver, error) {
	if source == nil {
		return nil, errors.New("policy source required")
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Resolver{source: source, cache: cache, ttl: cfg.TTL}, nil
}

// Resolve answers synchronously. An empty area resolves the full 19-entry
// map. Subjects without identity or a usable project id resolve all-false
// without touching cache or store.
func (r *Resolver) Resolve(ctx context.Context, subject access.Subject, projectID int64, area Area) Result {
	if denied, ok := r.fastPath(subject, projectID, area); ok {
		return denied
	}

	key := CacheKey(projectID, subject.ID, area)
	if cached, ok := r.cache.Get(ctx, key); ok {
		return Result{Status: StatusResolved, Permissions: cached}
	}

	perms, err := r.fetchOnceRetried(ctx, subject.ID, projectID, area)
	if err != nil {
		return Result{Status: StatusError, Err: fmt.Errorf("%w: %v", ErrPolicyUnavailable, err)}
	}

	r.cache.Set(ctx, key, perms, r.ttl)
	return Result{Status: StatusResolved, Permissions: perms}
}

// Begin starts an async resolution. The returned lookup reports
// StatusLoading until the store answers; the default-deny fast path
// resolves before Begin returns.
func (r *Resolver) Begin(ctx context.Context, subject access.Subject, projectID int64, area Area) *Lookup {
	lookup := &Lookup{done: make(chan struct{})}

	if denied, ok := r.fastPath(subject, projectID, area); ok {
		lookup.result = denied
		close(lookup.done)
		return lookup
	}

	go func() {
		lookup.result = r.Resolve(ctx, subject, projectID, area)
		close(lookup.done)
	}()
	return lookup
}

func (r *Resolver) fastPath(subject access.Subject, projectID int64, area Area) (Result, bool) {
	if subject.ID > 0 && projectID > 0 {
		return Result{}, false
	}
	if area != "" {
		return Result{
			Status:      StatusResolved,
			Permissions: map[Area]Permissions{area: {}},
		}, true
	}
	return Result{Status: StatusResolved, Permissions: DenyAll()}, true
}

func (r *Resolver) fetchOnceRetried(ctx context.Context, userID, projectID int64, area Area) (map[Area]Permissions, error) {
	perms, err := r.source.Fetch(ctx, userID, projectID, area)
	if err == nil {
		return perms, nil
	}
	// One retry, then surface the distinct error state.
	perms, retryErr := r.source.Fetch(ctx, userID, projectID, area)
	if retryErr != nil {
		return nil, retryErr
	}
	return perms, nil
}

// Lookup is an in-flight async resolution.
type Lookup struct {
	done   chan struct{}
	result Result
}

// Result returns the current state without blocking.
func (l *Lookup) Result() Result {
	select {
	case <-l.done:
		return l.result
	default:
		return Result{Status: StatusLoading}
	}
}

// Wait blocks until resolution finishes or ctx is done.
func (l *Lookup) Wait(ctx context.Context) Result {
	select {
	case <-l.done:
		return l.result
	case <-ctx.Done():
		return Result{Status: StatusError, Err: ctx.Err()}
	}
}
