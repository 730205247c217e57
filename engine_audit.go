package authgate

import (
	"context"

	"github.com/testware-io/authgate/auditlog"
)

// ObserveMutation inspects one gateway exchange and, when it qualifies,
// dispatches an audit event in the background. The caller gets its answer
// immediately; delivery failures never reach it. Returns whether an event
// was produced.
func (e *Engine) ObserveMutation(ctx context.Context, req auditlog.Request) bool {
	actor, _ := ActorFromContext(ctx)

	event, ok := e.classifier.Classify(req, actor)
	if !ok {
		e.metrics.AuditSkipped()
		return false
	}

	e.metrics.AuditEmitted()
	e.dispatcher.Emit(ctx, event)
	return true
}

// EmitShareLinkCreated records a share link creation. Dedicated flows
// audit directly because share links never pass through the CRUD gateway.
func (e *Engine) EmitShareLinkCreated(ctx context.Context, shareID, name string, projectID *int64) {
	e.emitShareLink(ctx, auditlog.ActionShareLinkCreated, shareID, name, projectID)
}

// EmitShareLinkRevoked records a share link revocation.
func (e *Engine) EmitShareLinkRevoked(ctx context.Context, shareID, name string, projectID *int64) {
	e.emitShareLink(ctx, auditlog.ActionShareLinkRevoked, shareID, name, projectID)
}

func (e *Engine) emitShareLink(ctx context.Context, action auditlog.Action, shareID, name string, projectID *int64) {
	actor, _ := ActorFromContext(ctx)

	event := auditlog.NewEvent(actor, action, "ShareLink", shareID)
	event.EntityName = name
	event.ProjectID = projectID

	e.metrics.AuditEmitted()
	e.dispatcher.Emit(ctx, event)
}
