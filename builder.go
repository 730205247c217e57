package authgate

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/testware-io/authgate/areaperm"
	"github.com/testware-io/authgate/auditlog"
	"github.com/testware-io/authgate/metrics"
	"github.com/testware-io/authgate/ratelimit"
	"github.com/testware-io/authgate/securetoken"
)

// Builder assembles an [Engine]. Chain the With* setters and call Build.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	grants GrantSource
	policy areaperm.PolicySource

	auditSink  AuditSink
	promReg    prometheus.Registerer
	limitStore ratelimit.Store
	permCache  areaperm.Cache

	built bool
}

// New starts a builder with defaults.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis backs the rate limiter and the permission cache with Redis,
// unless more specific stores are supplied.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithGrantSource wires the application's grant rows. Required.
func (b *Builder) WithGrantSource(source GrantSource) *Builder {
	b.grants = source
	return b
}

// WithPolicySource wires the area permission policy store. Required.
func (b *Builder) WithPolicySource(source areaperm.PolicySource) *Builder {
	b.policy = source
	return b
}

// WithAuditSink sets the audit event destination. Defaults to [NoOpSink].
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsRegistry enables Prometheus counters on the given registry.
func (b *Builder) WithMetricsRegistry(reg prometheus.Registerer) *Builder {
	b.promReg = reg
	return b
}

// WithRateLimitStore overrides the limiter backend, taking precedence
// over WithRedis.
func (b *Builder) WithRateLimitStore(store ratelimit.Store) *Builder {
	b.limitStore = store
	return b
}

// WithPermissionCache overrides the permission cache backend, taking
// precedence over WithRedis.
func (b *Builder) WithPermissionCache(cache areaperm.Cache) *Builder {
	b.permCache = cache
	return b
}

// Build validates the configuration, wires all components, and starts the
// audit dispatcher. A Builder builds at most once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if err := b.config.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineNotReady, err)
	}
	if b.grants == nil {
		return nil, fmt.Errorf("%w: grant source required", ErrEngineNotReady)
	}
	if b.policy == nil {
		return nil, fmt.Errorf("%w: policy source required", ErrEngineNotReady)
	}

	tokens, err := securetoken.NewService(securetoken.Config{
		Secret:       b.config.Token.Secret,
		AssertionTTL: b.config.Token.AssertionTTL,
		Issuer:       b.config.Token.Issuer,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineNotReady, err)
	}

	var m *metrics.Metrics
	if b.promReg != nil {
		m = metrics.New(b.promReg)
	}

	var ownedStore *ratelimit.MemoryStore
	limitStore := b.limitStore
	if limitStore == nil {
		if b.redis != nil {
			limitStore = ratelimit.NewRedisStore(b.redis)
		} else {
			ownedStore = ratelimit.NewMemoryStore(b.config.RateLimit.SweepInterval)
			limitStore = ownedStore
		}
	}

	permCache := b.permCache
	if permCache == nil {
		if b.redis != nil {
			permCache = areaperm.NewRedisCache(b.redis)
		} else {
			permCache = areaperm.NewMemoryCache()
		}
	}

	areaPerms, err := areaperm.NewResolver(
		b.policy,
		&countingCache{inner: permCache, metrics: m},
		areaperm.Config{TTL: b.config.AreaPerm.CacheTTL},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineNotReady, err)
	}

	classifier, err := auditlog.NewClassifier()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineNotReady, err)
	}

	dispatcher := newAuditDispatcher(b.config.Audit, b.auditSink)
	if dispatcher != nil {
		dispatcher.onDrop = m.AuditDropped
	}

	limiter := ratelimit.New(limitStore, ratelimit.Config{
		MaxAttempts: b.config.RateLimit.MaxAttempts,
		Window:      b.config.RateLimit.Window,
	})

	b.built = true
	return &Engine{
		config:     b.config,
		grants:     b.grants,
		areaPerms:  areaPerms,
		tokens:     tokens,
		limiter:    limiter,
		classifier: classifier,
		dispatcher: dispatcher,
		metrics:    m,
		ownedStore: ownedStore,
	}, nil
}
