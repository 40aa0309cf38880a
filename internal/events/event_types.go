package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/lead-distribution/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventContactCreated       EventType = "contact_created"
	EventContactReassigned    EventType = "contact_reassigned"
	EventContactStatusChanged EventType = "contact_status_changed"
)

// AllEventTypes lists every event the services emit.
var AllEventTypes = []EventType{EventContactCreated, EventContactReassigned, EventContactStatusChanged}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	ContactID string       `json:"contact_id"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   ContactEvent `json:"payload"`
}

// ContactEvent is the snapshot of a contact carried by every event.
type ContactEvent struct {
	LeadID     string               `json:"lead_id"`
	SourceID   string               `json:"source_id"`
	OperatorID *string              `json:"operator_id"`
	Status     domain.ContactStatus `json:"status"`
	OldStatus  domain.ContactStatus `json:"old_status,omitempty"`
	Rationale  string               `json:"rationale,omitempty"`
}

// NewContactEvent builds an event from the current state of a contact.
func NewContactEvent(eventType EventType, contact *domain.Contact, rationale string, at time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ContactID: contact.ID,
		Timestamp: at,
		Payload: ContactEvent{
			LeadID:     contact.LeadID,
			SourceID:   contact.SourceID,
			OperatorID: contact.OperatorID,
			Status:     contact.Status,
			Rationale:  rationale,
		},
	}
}
