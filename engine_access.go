package authgate

import (
	"context"
	"fmt"

	"github.com/testware-io/authgate/access"
)

// ResolveProjectAccess evaluates every grant path for subject on the
// project. A missing or deleted project is [ErrProjectNotFound]; a denial
// is a valid decision, not an error.
//
// ADMIN subjects skip all loading: their decision is unconditionally
// allowed with zero paths.
func (e *Engine) ResolveProjectAccess(ctx context.Context, subject access.Subject, projectID int64) (access.Decision, error) {
	if projectID <= 0 {
		return access.Decision{}, ErrValidation
	}
	if subject.Role == access.RoleAdmin {
		return access.Resolve(subject, access.Project{ID: projectID}, access.GrantSet{}), nil
	}

	project, found, err := e.grants.Project(ctx, projectID)
	if err != nil {
		return access.Decision{}, fmt.Errorf("load project %d: %w", projectID, err)
	}
	if !found || project.Deleted {
		return access.Decision{}, ErrProjectNotFound
	}

	grants, err := e.grants.ProjectGrants(ctx, subject.ID, projectID)
	if err != nil {
		return access.Decision{}, fmt.Errorf("load grants for user %d on project %d: %w", subject.ID, projectID, err)
	}

	decision := access.Resolve(subject, project, grants)
	if !decision.Allowed {
		e.metrics.AccessDenied()
	}
	return decision, nil
}

// RequireProjectAccess is the guard form: a denial surfaces as
// [ErrProjectNotFound], indistinguishable from a project that does not
// exist, so probing cannot map the project space.
func (e *Engine) RequireProjectAccess(ctx context.Context, subject access.Subject, projectID int64) error {
	decision, err := e.ResolveProjectAccess(ctx, subject, projectID)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return ErrProjectNotFound
	}
	return nil
}
