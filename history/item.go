package history

import (
	"time"

	"github.com/marcelsud/webhook-notifier/event"
	"github.com/marcelsud/webhook-notifier/webhook"
)

/* Item is the audit record of one delivery attempt
 * Uses value semantics as it represents data; items are never updated once appended
 */
type Item struct {
	ID                string                 `json:"id"`
	ConfigID          string                 `json:"config_id"`
	ProjectID         string                 `json:"project_id"`
	ProjectExternalID string                 `json:"project_external_id"`
	EventProjectID    string                 `json:"event_project_id"`
	URL               string                 `json:"url"`
	Format            string                 `json:"format"`
	EventKind         event.Kind             `json:"event_kind"`
	Entity            Entity                 `json:"entity"`
	Stats             webhook.ExecutionStats `json:"stats"`
	Error             *ErrorStatus           `json:"error,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
}

// Entity references the entity that triggered the event
type Entity struct {
	Type        event.EntityType `json:"type"`
	ID          string           `json:"id"`
	Name        string           `json:"name,omitempty"`
	BuildTypeID string           `json:"build_type_id,omitempty"`
}

// ErrorStatus describes why an attempt failed
type ErrorStatus struct {
	Class   string `json:"class"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// NewErrorStatus converts a delivery error, nil for a nil error
func NewErrorStatus(err error) *ErrorStatus {
	if err == nil {
		return nil
	}
	return &ErrorStatus{
		Class:   webhook.ErrorClass(err),
		Message: err.Error(),
		Code:    webhook.ErrorCode(err),
	}
}

// Succeeded reports whether the attempt reached the endpoint with a 2xx answer
func (i Item) Succeeded() bool {
	return i.Stats.Outcome == webhook.Success
}
