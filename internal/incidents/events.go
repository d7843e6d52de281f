package incidents

import (
	"context"
	"time"

	"github.com/bissquit/incident-tracker/internal/domain"
)

// EventType identifies an incident lifecycle change.
type EventType string

// Lifecycle event types.
const (
	EventIncidentCreated EventType = "incident.created"
	EventIncidentUpdated EventType = "incident.updated"
	EventIncidentClosed  EventType = "incident.closed"
	EventIncidentDeleted EventType = "incident.deleted"
)

// Event describes a committed change to an incident.
type Event struct {
	Type       EventType       `json:"type"`
	Incident   domain.Incident `json:"incident"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// EventPublisher delivers lifecycle events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards all events.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(context.Context, Event) error {
	return nil
}
