package authgate

import (
	"context"
	"strconv"
	"strings"

	"github.com/testware-io/authgate/access"
)

// GrantSource loads the rows project access resolution needs. The
// application's data layer implements it; the resolver itself stays pure.
type GrantSource interface {
	// Project returns the project row and whether it exists.
	Project(ctx context.Context, projectID int64) (access.Project, bool, error)

	// ProjectGrants returns the subject's direct grant (if any) and the
	// grants of every group the subject belongs to, scoped to projectID.
	ProjectGrants(ctx context.Context, userID, projectID int64) (access.GrantSet, error)
}

// ParseProjectID validates a raw project identifier before any resolver
// sees it. Non-numeric or non-positive input is [ErrValidation].
func ParseProjectID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrValidation
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrValidation
	}
	return id, nil
}
