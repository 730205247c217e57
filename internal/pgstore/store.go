// Package pgstore loads grant rows and area policy from Postgres, backing
// the engine's GrantSource and PolicySource in daemon deployments.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/testware-io/authgate/access"
	"github.com/testware-io/authgate/areaperm"
)

const (
	selectProjectSQL = `
SELECT id, default_access, deleted_at IS NOT NULL
FROM projects
WHERE id = $1`

	selectDirectGrantSQL = `
SELECT user_id, project_id, access
FROM user_project_permissions
WHERE user_id = $1 AND project_id = $2`

	selectGroupGrantsSQL = `
SELECT gp.group_id, gp.project_id, gp.access
FROM group_project_permissions gp
JOIN user_groups ug ON ug.group_id = gp.group_id
WHERE ug.user_id = $1 AND gp.project_id = $2`

	selectAreaPolicySQL = `
SELECT area, can_add_edit, can_delete, can_close
FROM member_area_permissions
WHERE user_id = $1 AND project_id = $2`

	selectOneAreaPolicySQL = selectAreaPolicySQL + ` AND area = $3`
)

// Store reads authorization rows through a database/sql handle. It is
// read-only; the application owns the schema and all writes.
type Store struct {
	db *sql.DB
}

// New wraps an existing database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to Postgres via the pgx stdlib driver.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// Project loads one project row. A missing row is (zero, false, nil), not
// an error; resolution decides what absence means.
func (s *Store) Project(ctx context.Context, projectID int64) (access.Project, bool, error) {
	var project access.Project
	err := s.db.QueryRowContext(ctx, selectProjectSQL, projectID).
		Scan(&project.ID, &project.DefaultAccess, &project.Deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return access.Project{}, false, nil
	}
	if err != nil {
		return access.Project{}, false, fmt.Errorf("load project %d: %w", projectID, err)
	}
	return project, true, nil
}

// ProjectGrants loads the direct grant and every group grant for the
// subject on the project.
func (s *Store) ProjectGrants(ctx context.Context, userID, projectID int64) (access.GrantSet, error) {
	var grants access.GrantSet

	var direct access.DirectGrant
	err := s.db.QueryRowContext(ctx, selectDirectGrantSQL, userID, projectID).
		Scan(&direct.UserID, &direct.ProjectID, &direct.Access)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// No direct grant row is a normal state.
	case err != nil:
		return access.GrantSet{}, fmt.Errorf("load direct grant: %w", err)
	default:
		grants.Direct = &direct
	}

	rows, err := s.db.QueryContext(ctx, selectGroupGrantsSQL, userID, projectID)
	if err != nil {
		return access.GrantSet{}, fmt.Errorf("load group grants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var grant access.GroupGrant
		if err := rows.Scan(&grant.GroupID, &grant.ProjectID, &grant.Access); err != nil {
			return access.GrantSet{}, fmt.Errorf("scan group grant: %w", err)
		}
		grants.Groups = append(grants.Groups, grant)
	}
	if err := rows.Err(); err != nil {
		return access.GrantSet{}, fmt.Errorf("iterate group grants: %w", err)
	}
	return grants, nil
}

// Fetch implements areaperm.PolicySource. Areas with no row come back
// all-false so the resolver always sees a complete map.
func (s *Store) Fetch(ctx context.Context, userID, projectID int64, area areaperm.Area) (map[areaperm.Area]areaperm.Permissions, error) {
	query := selectAreaPolicySQL
	args := []any{userID, projectID}
	if area != "" {
		query = selectOneAreaPolicySQL
		args = append(args, string(area))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load area policy: %w", err)
	}
	defer rows.Close()

	perms := make(map[areaperm.Area]areaperm.Permissions)
	if area == "" {
		perms = areaperm.DenyAll()
	} else {
		perms[area] = areaperm.Permissions{}
	}

	for rows.Next() {
		var name string
		var p areaperm.Permissions
		if err := rows.Scan(&name, &p.CanAddEdit, &p.CanDelete, &p.CanClose); err != nil {
			return nil, fmt.Errorf("scan area policy: %w", err)
		}
		perms[areaperm.Area(name)] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate area policy: %w", err)
	}
	return perms, nil
}

// Ping verifies connectivity, for startup checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
