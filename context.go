package authgate

import (
	"context"

	"github.com/testware-io/authgate/access"
	"github.com/testware-io/authgate/auditlog"
)

type subjectContextKey struct{}
type actorContextKey struct{}
type clientIPContextKey struct{}

// WithSubject attaches the authenticated subject to the context. The
// session layer sets this once per request; everything downstream reads it.
func WithSubject(ctx context.Context, subject access.Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey{}, subject)
}

// SubjectFromContext returns the authenticated subject, if any.
func SubjectFromContext(ctx context.Context) (access.Subject, bool) {
	subject, ok := ctx.Value(subjectContextKey{}).(access.Subject)
	return subject, ok
}

// WithActor attaches audit actor details (id, email, display name).
func WithActor(ctx context.Context, actor auditlog.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext returns the audit actor, if any.
func ActorFromContext(ctx context.Context) (auditlog.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(auditlog.Actor)
	return actor, ok
}

// WithClientIP attaches the caller's IP for rate-limit identifiers.
func WithClientIP(ctx context.Context, ip string) context.Context {
	if ip == "" {
		return ctx
	}
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

// ClientIPFromContext returns the caller's IP, if attached.
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}
