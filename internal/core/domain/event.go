package domain

import "time"

// EventType names a domain event published to the message broker.
type EventType string

const (
	EventUserCreated EventType = "user.created"
	EventRoleChanged EventType = "role.changed"
)

// Event is a notification about a state change, fanned out asynchronously.
// Key identifies the aggregate; events with the same key keep their order.
type Event struct {
	Type       EventType         `json:"type"`
	Key        string            `json:"key"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewEvent stamps an event with the current UTC time.
func NewEvent(t EventType, key string, attrs map[string]string) Event {
	return Event{Type: t, Key: key, Attributes: attrs, OccurredAt: time.Now().UTC()}
}
