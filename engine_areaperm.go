package authgate

import (
	"context"

	"github.com/testware-io/authgate/access"
	"github.com/testware-io/authgate/areaperm"
)

// AreaPermissions resolves the capability triple for one area, or the
// full per-area map when area is empty. Subjects without identity or a
// usable project id come back all-false without any lookup.
func (e *Engine) AreaPermissions(ctx context.Context, subject access.Subject, projectID int64, area areaperm.Area) areaperm.Result {
	result := e.areaPerms.Resolve(ctx, subject, projectID, area)
	if result.Status == areaperm.StatusError {
		e.metrics.PermLookupError()
	}
	return result
}

// BeginAreaPermissions starts an async resolution; the returned lookup
// reports loading until the policy store answers.
func (e *Engine) BeginAreaPermissions(ctx context.Context, subject access.Subject, projectID int64, area areaperm.Area) *areaperm.Lookup {
	return e.areaPerms.Begin(ctx, subject, projectID, area)
}
