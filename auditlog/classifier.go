package auditlog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// auditedModels is the fixed allow-list of gateway models mirrored into
// the audit trail. Everything else is silently skipped.
var auditedModels = []string{
	"repositoryCases",
	"testRuns",
	"sessions",
	"sharedStepGroups",
	"issues",
	"milestones",
	"projects",
	"user",
	"userProjectPermission",
	"groupProjectPermission",
	"ssoProvider",
	"allowedEmailDomain",
	"appConfig",
	"userIntegrationAuth",
	"testRunResult",
	"comment",
	"attachment",
	"apiToken",
}

// nameFields projects the human-readable entity name per model. Models
// absent here yield events without a name. Validated against
// auditedModels at construction so a typo fails fast, not silently.
var nameFields = map[string]string{
	"repositoryCases":    "name",
	"testRuns":           "name",
	"projects":           "name",
	"milestones":         "name",
	"sharedStepGroups":   "name",
	"sessions":           "title",
	"issues":             "title",
	"user":               "email",
	"ssoProvider":        "type",
	"allowedEmailDomain": "domain",
	"appConfig":          "key",
	"apiToken":           "name",
}

var operationActions = map[string]Action{
	"create":     ActionCreate,
	"createMany": ActionBulkCreate,
	"update":     ActionUpdate,
	"upsert":     ActionUpdate,
	"updateMany": ActionBulkUpdate,
	"delete":     ActionDelete,
	"deleteMany": ActionBulkDelete,
}

var bulkActions = map[Action]bool{
	ActionBulkCreate: true,
	ActionBulkUpdate: true,
	ActionBulkDelete: true,
}

var mutationMethods = map[string]bool{
	"POST":   true,
	"PUT":    true,
	"PATCH":  true,
	"DELETE": true,
}

// Request is the observed gateway traffic tuple.
type Request struct {
	Method string
	Path   string
	Status int
	Body   []byte
}

// Classifier maps gateway mutations to audit events. Stateless after
// construction; safe under unbounded parallel use.
type Classifier struct {
	allowed map[string]bool
	names   map[string]string
	now     func() time.Time
	newID   func() string
}

// NewClassifier builds the classifier and validates the projection table:
// every projected model must be on the allow-list.
func NewClassifier() (*Classifier, error) {
	allowed := make(map[string]bool, len(auditedModels))
	for _, model := range auditedModels {
		allowed[model] = true
	}
	for model := range nameFields {
		if !allowed[model] {
			return nil, fmt.Errorf("name projection for unaudited model %q", model)
		}
	}

	return &Classifier{
		allowed: allowed,
		names:   nameFields,
		now:     time.Now,
		newID:   uuid.NewString,
	}, nil
}

// Classify inspects one gateway exchange. The second return is false when
// the request does not qualify for auditing; that is the normal outcome
// for reads, failures, and unaudited models, never an error.
func (c *Classifier) Classify(req Request, actor Actor) (Event, bool) {
	model, operation, ok := splitGatewayPath(req.Path)
	if !ok {
		return Event{}, false
	}

	// The gateway overloads POST for reads, so the method filter alone is
	// necessary but not sufficient.
	if !mutationMethods[req.Method] {
		return Event{}, false
	}
	if req.Status < 200 || req.Status >= 300 {
		return Event{}, false
	}
	if !c.allowed[model] {
		return Event{}, false
	}

	action, ok := operationActions[operation]
	if !ok {
		return Event{}, false
	}
	if model == "apiToken" {
		switch operation {
		case "create":
			action = ActionAPIKeyCreated
		case "delete":
			action = ActionAPIKeyDeleted
		}
	}

	data, ok := responseData(req.Body)
	if !ok {
		return Event{}, false
	}

	event := Event{
		ID:         c.newID(),
		Actor:      actor,
		Action:     action,
		EntityType: entityType(model),
		EntityID:   entityID(data, operation),
		Metadata:   map[string]any{"operation": operation},
		CreatedAt:  c.now(),
	}

	if field, ok := c.names[model]; ok {
		if name, ok := data[field].(string); ok {
			event.EntityName = name
		}
	}
	if id, ok := numericValue(data["projectId"]); ok {
		event.ProjectID = &id
	}
	if bulkActions[action] {
		if count, ok := numericValue(data["count"]); ok {
			event.Metadata["count"] = count
		}
	}

	return event, true
}

func splitGatewayPath(path string) (model, operation string, ok bool) {
	segments := make([]string, 0, 3)
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < 2 {
		return "", "", false
	}
	return segments[0], segments[1], true
}

func responseData(body []byte) (map[string]any, bool) {
	if len(body) == 0 {
		return nil, false
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Data) == 0 {
		return nil, false
	}
	var data map[string]any
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		// Non-object payloads (arrays, scalars) still qualify; there is
		// just nothing to project from them.
		return map[string]any{}, true
	}
	return data, true
}

func entityType(model string) string {
	return strings.ToUpper(model[:1]) + model[1:]
}

func entityID(data map[string]any, operation string) string {
	if id, ok := scalarString(data["id"]); ok {
		return id
	}
	if key, ok := scalarString(data["key"]); ok {
		return key
	}
	return operation + "-fallback"
}

func scalarString(v any) (string, bool) {
	switch value := v.(type) {
	case string:
		if value == "" {
			return "", false
		}
		return value, true
	case float64:
		if value == float64(int64(value)) {
			return fmt.Sprintf("%d", int64(value)), true
		}
		return fmt.Sprintf("%v", value), true
	default:
		return "", false
	}
}

func numericValue(v any) (int64, bool) {
	f, ok := v.(float64)
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

// AuditedModels returns a copy of the model allow-list, for startup
// validation by callers that maintain parallel tables.
func AuditedModels() []string {
	out := make([]string, len(auditedModels))
	copy(out, auditedModels)
	return out
}
