package dto

import "time"

// CreateOperatorRequest payload.
type CreateOperatorRequest struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active"`
	Capacity *int   `json:"max_active_contacts"`
}

// UpdateOperatorRequest payload. Omitted fields are left unchanged.
type UpdateOperatorRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
	Capacity *int    `json:"max_active_contacts"`
}

// OperatorResponse describes an operator.
type OperatorResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	IsActive    bool      `json:"is_active"`
	Capacity    int       `json:"max_active_contacts"`
	CurrentLoad *int      `json:"current_load,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// OperatorSourceResponse is one source an operator serves.
type OperatorSourceResponse struct {
	SourceID   string `json:"source_id"`
	SourceCode string `json:"source_code"`
	SourceName string `json:"source_name"`
	Weight     int    `json:"weight"`
}

// OperatorDetailResponse adds workload and sources.
type OperatorDetailResponse struct {
	OperatorResponse
	Sources []OperatorSourceResponse `json:"sources"`
}

// OperatorLoadResponse reports the live workload of one operator.
type OperatorLoadResponse struct {
	OperatorID  string `json:"operator_id"`
	CurrentLoad int    `json:"current_load"`
}
