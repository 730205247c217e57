// Package metrics exposes Prometheus counters for the authorization and
// audit layer. Nothing registers globally; callers pass the registry the
// service mounts at /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the layer's counters. A nil *Metrics is a valid no-op
// receiver so library code never needs nil checks at call sites.
type Metrics struct {
	auditEmitted  prometheus.Counter
	auditSkipped  prometheus.Counter
	auditDropped  prometheus.Counter
	accessDenials prometheus.Counter
	rateDenials   prometheus.Counter
	permCacheHits prometheus.Counter
	permCacheMiss prometheus.Counter
	permErrors    prometheus.Counter
}

// New creates and registers the counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		auditEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authgate_audit_events_emitted_total",
			Help: "Audit events produced by the mutation classifier.",
		}),
		auditSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authgate_audit_events_skipped_total",
			Help: "Gateway exchanges inspected but not auditable.",
		}),
		auditDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authgate_audit_events_dropped_total",
			Help: "Audit events dropped by a full dispatcher buffer.",
		}),
		accessDenials: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authgate_access_denials_total",
			Help: "Project access checks that resolved to no grant path.",
		}),
		rateDenials: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authgate_rate_limit_denials_total",
			Help: "Attempts rejected by the fixed-window limiter.",
		}),
		permCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authgate_permission_cache_hits_total",
			Help: "Area permission resolutions served from cache.",
		}),
		permCacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authgate_permission_cache_misses_total",
			Help: "Area permission resolutions that reached the policy store.",
		}),
		permErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authgate_permission_lookup_errors_total",
			Help: "Area permission lookups that failed after retry.",
		}),
	}

	reg.MustRegister(
		m.auditEmitted,
		m.auditSkipped,
		m.auditDropped,
		m.accessDenials,
		m.rateDenials,
		m.permCacheHits,
		m.permCacheMiss,
		m.permErrors,
	)
	return m
}

// AuditEmitted counts one produced audit event.
func (m *Metrics) AuditEmitted() {
	if m != nil {
		m.auditEmitted.Inc()
	}
}

// AuditSkipped counts one non-qualifying gateway exchange.
func (m *Metrics) AuditSkipped() {
	if m != nil {
		m.auditSkipped.Inc()
	}
}

// AuditDropped counts one event lost to a full buffer.
func (m *Metrics) AuditDropped() {
	if m != nil {
		m.auditDropped.Inc()
	}
}

// AccessDenied counts one denied project access check.
func (m *Metrics) AccessDenied() {
	if m != nil {
		m.accessDenials.Inc()
	}
}

// RateLimited counts one denied attempt.
func (m *Metrics) RateLimited() {
	if m != nil {
		m.rateDenials.Inc()
	}
}

// PermCacheHit counts one cache-served resolution.
func (m *Metrics) PermCacheHit() {
	if m != nil {
		m.permCacheHits.Inc()
	}
}

// PermCacheMiss counts one store-served resolution.
func (m *Metrics) PermCacheMiss() {
	if m != nil {
		m.permCacheMiss.Inc()
	}
}

// PermLookupError counts one failed resolution.
func (m *Metrics) PermLookupError() {
	if m != nil {
		m.permErrors.Inc()
	}
}
