package auditlog

import (
	"time"

	"github.com/google/uuid"
)

// Action is the audit trail verb vocabulary.
type Action string

const (
	// ActionCreate is a single-entity create.
	ActionCreate Action = "CREATE"
	// ActionBulkCreate is a createMany.
	ActionBulkCreate Action = "BULK_CREATE"
	// ActionUpdate covers update and upsert.
	ActionUpdate Action = "UPDATE"
	// ActionBulkUpdate is an updateMany.
	ActionBulkUpdate Action = "BULK_UPDATE"
	// ActionDelete is a single-entity delete.
	ActionDelete Action = "DELETE"
	// ActionBulkDelete is a deleteMany.
	ActionBulkDelete Action = "BULK_DELETE"
	// ActionAPIKeyCreated replaces CREATE for the apiToken model.
	ActionAPIKeyCreated Action = "API_KEY_CREATED"
	// ActionAPIKeyDeleted replaces DELETE for the apiToken model.
	ActionAPIKeyDeleted Action = "API_KEY_DELETED"
	// ActionShareLinkCreated is emitted by the share-link flow, never the classifier.
	ActionShareLinkCreated Action = "SHARE_LINK_CREATED"
	// ActionShareLinkRevoked is emitted by the share-link flow, never the classifier.
	ActionShareLinkRevoked Action = "SHARE_LINK_REVOKED"
)

// NewEvent builds an event for flows that audit outside the classifier,
// such as share link creation and revocation.
func NewEvent(actor Actor, action Action, entityType, entityID string) Event {
	return Event{
		ID:         uuid.NewString(),
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  time.Now(),
	}
}

// Actor identifies who performed the mutation.
type Actor struct {
	ID    int64  `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Event is one append-only audit trail entry. Immutable once produced.
type Event struct {
	ID         string         `json:"id"`
	Actor      Actor          `json:"actor"`
	Action     Action         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	EntityName string         `json:"entity_name,omitempty"`
	ProjectID  *int64         `json:"project_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
