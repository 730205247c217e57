package areaperm

// Area names one functional region of the application. Each area carries
// independently resolved capabilities.
type Area string

const (
	// AreaDashboard is the project dashboard.
	AreaDashboard Area = "dashboard"
	// AreaRepository is the test case repository.
	AreaRepository Area = "repository"
	// AreaTestRuns is test run planning and execution.
	AreaTestRuns Area = "testRuns"
	// AreaSessions is exploratory session management.
	AreaSessions Area = "sessions"
	// AreaMilestones is milestone management.
	AreaMilestones Area = "milestones"
	// AreaIssues is issue tracking.
	AreaIssues Area = "issues"
	// AreaReports is report building.
	AreaReports Area = "reports"
	// AreaSharedSteps is shared step group management.
	AreaSharedSteps Area = "sharedSteps"
	// AreaMembers is project membership administration.
	AreaMembers Area = "members"
	// AreaGroups is group administration.
	AreaGroups Area = "groups"
	// AreaSettings is project settings.
	AreaSettings Area = "settings"
	// AreaIntegrations is third-party integration configuration.
	AreaIntegrations Area = "integrations"
	// AreaAPITokens is API token management.
	AreaAPITokens Area = "apiTokens"
	// AreaAuditTrail is the audit trail viewer.
	AreaAuditTrail Area = "auditTrail"
	// AreaAttachments is attachment management.
	AreaAttachments Area = "attachments"
	// AreaComments is commenting.
	AreaComments Area = "comments"
	// AreaCustomFields is custom field configuration.
	AreaCustomFields Area = "customFields"
	// AreaSSO is single sign-on configuration.
	AreaSSO Area = "sso"
	// AreaShareLinks is public share link management.
	AreaShareLinks Area = "shareLinks"
)

var allAreas = []Area{
	AreaDashboard,
	AreaRepository,
	AreaTestRuns,
	AreaSessions,
	AreaMilestones,
	AreaIssues,
	AreaReports,
	AreaSharedSteps,
	AreaMembers,
	AreaGroups,
	AreaSettings,
	AreaIntegrations,
	AreaAPITokens,
	AreaAuditTrail,
	AreaAttachments,
	AreaComments,
	AreaCustomFields,
	AreaSSO,
	AreaShareLinks,
}

// Areas returns the full area list in stable order.
func Areas() []Area {
	out := make([]Area, len(allAreas))
	copy(out, allAreas)
	return out
}

// Valid reports whether a is a known area.
func (a Area) Valid() bool {
	for _, known := range allAreas {
		if a == known {
			return true
		}
	}
	return false
}

// Permissions is the capability triple for one (subject, project, area).
type Permissions struct {
	CanAddEdit bool `json:"canAddEdit"`
	CanDelete  bool `json:"canDelete"`
	CanClose   bool `json:"canClose"`
}

// DenyAll returns an all-false map covering every area.
func DenyAll() map[Area]Permissions {
	out := make(map[Area]Permissions, len(allAreas))
	for _, area := range allAreas {
		out[area] = Permissions{}
	}
	return out
}
