package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventResourceCreated EventType = "resource_created"
	EventResourceUpdated EventType = "resource_updated"
	EventResourceDeleted EventType = "resource_deleted"
	EventMediaOrphaned   EventType = "media_orphaned"
)

// Resource names the content collection an event refers to.
type Resource string

const (
	ResourceNews   Resource = "news"
	ResourceMatch  Resource = "match"
	ResourcePlayer Resource = "player"
	ResourceTable  Resource = "table"
	ResourceAdmin  Resource = "admin"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Resource   Resource  `json:"resource"`
	ResourceID string    `json:"resource_id,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Payload    any       `json:"payload,omitempty"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, resource Resource, resourceID, actorID string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Resource:   resource,
		ResourceID: resourceID,
		ActorID:    actorID,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}

// MediaOrphanedPayload lists uploaded URLs no stored record points at any more.
type MediaOrphanedPayload struct {
	URLs   []string `json:"urls"`
	Reason string   `json:"reason"`
}
