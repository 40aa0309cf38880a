package dto

import "time"

// LeadResponse describes a lead.
type LeadResponse struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	Name       *string   `json:"name"`
	Phone      *string   `json:"phone"`
	Email      *string   `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}

// LeadDetailResponse adds every contact of the lead.
type LeadDetailResponse struct {
	LeadResponse
	Contacts []ContactResponse `json:"contacts"`
}
