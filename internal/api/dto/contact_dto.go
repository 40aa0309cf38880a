package dto

import (
	"time"

	"github.com/spec-kit/lead-distribution/internal/domain"
)

// CreateContactRequest payload.
type CreateContactRequest struct {
	LeadExternalID string  `json:"lead_external_id"`
	SourceCode     string  `json:"source_code"`
	Message        *string `json:"message"`
	LeadName       *string `json:"lead_name"`
	LeadPhone      *string `json:"lead_phone"`
	LeadEmail      *string `json:"lead_email"`
}

// UpdateContactStatusRequest payload.
type UpdateContactStatusRequest struct {
	Status domain.ContactStatus `json:"status"`
}

// ContactResponse describes a contact.
type ContactResponse struct {
	ID           string               `json:"id"`
	LeadID       string               `json:"lead_id"`
	SourceID     string               `json:"source_id"`
	SourceCode   string               `json:"source_code"`
	OperatorID   *string              `json:"operator_id"`
	OperatorName *string              `json:"operator_name"`
	Status       domain.ContactStatus `json:"status"`
	Message      *string              `json:"message"`
	CreatedAt    time.Time            `json:"created_at"`
	AssignedAt   *time.Time           `json:"assigned_at"`
	ClosedAt     *time.Time           `json:"closed_at"`
}

// CreateContactResponse adds the resolved lead and the distribution rationale.
type CreateContactResponse struct {
	ContactResponse
	Lead             LeadResponse `json:"lead"`
	DistributionInfo string       `json:"distribution_info"`
}

// ReassignContactResponse reports the outcome of a reassignment.
type ReassignContactResponse struct {
	Contact          ContactResponse `json:"contact"`
	NewOperatorID    *string         `json:"new_operator_id"`
	NewOperatorName  *string         `json:"new_operator_name"`
	DistributionInfo string          `json:"distribution_info"`
}
