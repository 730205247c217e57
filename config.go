package authgate

import (
	"errors"
	"time"

	"github.com/testware-io/authgate/ratelimit"
	"github.com/testware-io/authgate/securetoken"
)

// Config bundles the per-concern configuration. Zero values fall back to
// the documented defaults; Build validates the rest.
type Config struct {
	Token     TokenConfig
	RateLimit RateLimitConfig
	AreaPerm  AreaPermConfig
	Audit     AuditConfig
}

// TokenConfig configures the security token service.
type TokenConfig struct {
	// Secret signs temp assertions. Required.
	Secret []byte
	// Issuer is stamped into assertions when set.
	Issuer string
	// Origin is the application origin redirect targets are checked
	// against, e.g. "https://app.example.com".
	Origin string
	// AssertionTTL overrides the 5-minute assertion window.
	AssertionTTL time.Duration
}

// RateLimitConfig configures the fixed-window limiter.
type RateLimitConfig struct {
	// MaxAttempts per window. Default 5.
	MaxAttempts int
	// Window length. Default 15 minutes.
	Window time.Duration
	// SweepInterval for the in-memory store's eviction pass. Default 1
	// minute. Ignored when a Redis store is used.
	SweepInterval time.Duration
}

// AreaPermConfig configures area permission resolution.
type AreaPermConfig struct {
	// CacheTTL overrides the 5-minute permission cache window.
	CacheTTL time.Duration
}

// AuditConfig configures the audit dispatcher.
type AuditConfig struct {
	// Enabled turns interception on. Default true.
	Enabled bool
	// BufferSize of the dispatch channel. Default 256.
	BufferSize int
	// DropIfFull makes Emit drop events instead of blocking when the
	// buffer is full. Dropped events are counted, never retried.
	DropIfFull bool
}

func defaultConfig() Config {
	return Config{
		RateLimit: RateLimitConfig{
			MaxAttempts:   ratelimit.DefaultMaxAttempts,
			Window:        ratelimit.DefaultWindow,
			SweepInterval: ratelimit.DefaultSweepInterval,
		},
		Token: TokenConfig{
			AssertionTTL: securetoken.DefaultAssertionTTL,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

func (c Config) validate() error {
	if len(c.Token.Secret) == 0 {
		return errors.New("token secret required")
	}
	if c.RateLimit.MaxAttempts < 0 {
		return errors.New("invalid rate limit attempt budget")
	}
	if c.RateLimit.Window < 0 {
		return errors.New("invalid rate limit window")
	}
	if c.AreaPerm.CacheTTL < 0 {
		return errors.New("invalid permission cache ttl")
	}
	return nil
}
