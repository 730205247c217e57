package access

// GlobalRole is the application-wide role attached to a subject.
type GlobalRole string

const (
	// RoleNone is a subject with no global role.
	RoleNone GlobalRole = "NONE"
	// RoleUser is a regular authenticated user.
	RoleUser GlobalRole = "USER"
	// RoleProjectAdmin may administer projects it is assigned to.
	RoleProjectAdmin GlobalRole = "PROJECTADMIN"
	// RoleAdmin bypasses all project access evaluation.
	RoleAdmin GlobalRole = "ADMIN"
)

// AccessType is the strength of a grant on a direct grant, group grant,
// or project default.
type AccessType string

const (
	// AccessNone never grants.
	AccessNone AccessType = "NO_ACCESS"
	// AccessGlobalRole grants to every subject when used as a project default.
	AccessGlobalRole AccessType = "GLOBAL_ROLE"
	// AccessSpecificRole grants through explicit per-subject assignments.
	AccessSpecificRole AccessType = "SPECIFIC_ROLE"
)

// Subject is the acting user as seen by the resolver.
type Subject struct {
	ID   int64
	Role GlobalRole
}

// Project carries the fields access resolution depends on.
type Project struct {
	ID            int64
	DefaultAccess AccessType
	Deleted       bool
}

// DirectGrant is a UserProjectPermission row.
type DirectGrant struct {
	UserID    int64
	ProjectID int64
	Access    AccessType
}

// GroupGrant is a GroupProjectPermission row for a group the subject
// belongs to. Callers pre-join memberships; the resolver never sees
// groups the subject is not a member of.
type GroupGrant struct {
	GroupID   int64
	ProjectID int64
	Access    AccessType
}

// GrantSet is everything the caller loaded about (subject, project).
type GrantSet struct {
	Direct *DirectGrant
	Groups []GroupGrant
}

// Path names one of the independent grant paths.
type Path string

const (
	// PathDirect is a direct user grant with access != NO_ACCESS.
	PathDirect Path = "direct"
	// PathGroup is a group grant with access != NO_ACCESS.
	PathGroup Path = "group"
	// PathProjectDefault is the project-wide GLOBAL_ROLE default.
	PathProjectDefault Path = "projectDefault"
	// PathProjectAdmin is the PROJECTADMIN-with-assignment clause.
	PathProjectAdmin Path = "projectAdmin"
)

// PathResult records one evaluated clause of the OR.
type PathResult struct {
	Path    Path
	Granted bool
}

// Decision is the resolver's output. Allowed is the OR of Paths, except
// for admins where Allowed is true and Paths is empty.
type Decision struct {
	Allowed bool
	Admin   bool
	Paths   []PathResult
}

// Resolve evaluates every applicable grant path for subject on project.
// It never collapses to a single clause: all applicable paths appear in
// Decision.Paths with their individual outcomes.
func Resolve(subject Subject, project Project, grants GrantSet) Decision {
	if subject.Role == RoleAdmin {
		return Decision{Allowed: true, Admin: true}
	}

	paths := make([]PathResult, 0, 4)

	direct := grants.Direct != nil && grants.Direct.Access != AccessNone
	paths = append(paths, PathResult{Path: PathDirect, Granted: direct})

	group := false
	for _, g := range grants.Groups {
		if g.Access != AccessNone {
			group = true
			break
		}
	}
	paths = append(paths, PathResult{Path: PathGroup, Granted: group})

	paths = append(paths, PathResult{
		Path:    PathProjectDefault,
		Granted: project.DefaultAccess == AccessGlobalRole,
	})

	if subject.Role == RoleProjectAdmin {
		paths = append(paths, PathResult{
			Path:    PathProjectAdmin,
			Granted: grants.Direct != nil,
		})
	}

	d := Decision{Paths: paths}
	for _, p := range paths {
		if p.Granted {
			d.Allowed = true
			break
		}
	}
	return d
}

// HasAccess is the predicate form of [Resolve].
func HasAccess(subject Subject, project Project, grants GrantSet) bool {
	return Resolve(subject, project, grants).Allowed
}
