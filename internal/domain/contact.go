package domain

import "time"

// ContactStatus enumerates lifecycle states for contacts.
type ContactStatus string

const (
	ContactStatusNew        ContactStatus = "new"
	ContactStatusInProgress ContactStatus = "in_progress"
	ContactStatusClosed     ContactStatus = "closed"
)

// ActiveContactStatuses count toward operator workload.
var ActiveContactStatuses = []ContactStatus{ContactStatusNew, ContactStatusInProgress}

// Valid reports whether s is a known status.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusNew, ContactStatusInProgress, ContactStatusClosed:
		return true
	}
	return false
}

// Active reports whether a contact in this status counts toward workload.
func (s ContactStatus) Active() bool {
	return s == ContactStatusNew || s == ContactStatusInProgress
}

// Contact is one instance of a lead reaching out through a source.
type Contact struct {
	ID         string
	LeadID     string
	SourceID   string
	OperatorID *string
	Status     ContactStatus
	Message    *string
	CreatedAt  time.Time
	AssignedAt *time.Time
	ClosedAt   *time.Time
}

// ContactView is a contact enriched with display fields for listings.
type ContactView struct {
	Contact
	SourceCode   string
	OperatorName *string
}
