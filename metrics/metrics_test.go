package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersRegisterAndIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.AuditEmitted()
	m.AuditEmitted()
	m.AuditSkipped()
	m.RateLimited()
	m.AccessDenied()
	m.PermCacheHit()
	m.PermCacheMiss()
	m.PermLookupError()
	m.AuditDropped()

	if got := testutil.ToFloat64(m.auditEmitted); got != 2 {
		t.Fatalf("emitted = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.auditSkipped); got != 1 {
		t.Fatalf("skipped = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.rateDenials); got != 1 {
		t.Fatalf("rate denials = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(families) != 8 {
		t.Fatalf("metric families = %d, want 8", len(families))
	}
}

func TestNilMetricsIsNoOp(t *testing.T) {
	var m *Metrics

	// Must not panic anywhere.
	m.AuditEmitted()
	m.AuditSkipped()
	m.AuditDropped()
	m.AccessDenied()
	m.RateLimited()
	m.PermCacheHit()
	m.PermCacheMiss()
	m.PermLookupError()
}
