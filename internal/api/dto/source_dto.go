package dto

import "time"

// CreateSourceRequest payload.
type CreateSourceRequest struct {
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateSourceRequest payload. The code is immutable.
type UpdateSourceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// SourceResponse describes a source.
type SourceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// SourceOperatorResponse is one operator serving a source.
type SourceOperatorResponse struct {
	OperatorID   string `json:"operator_id"`
	OperatorName string `json:"operator_name"`
	Weight       int    `json:"weight"`
	IsActive     bool   `json:"is_active"`
	CurrentLoad  int    `json:"current_load"`
	Capacity     int    `json:"max_active_contacts"`
}

// SourceDetailResponse adds the assigned operators.
type SourceDetailResponse struct {
	SourceResponse
	Operators []SourceOperatorResponse `json:"operators"`
}
