package dto

// AssignmentRequest payload for create-or-update.
type AssignmentRequest struct {
	OperatorID string `json:"operator_id"`
	SourceID   string `json:"source_id"`
	Weight     *int   `json:"weight"`
}

// AssignmentResponse describes an operator/source pairing.
type AssignmentResponse struct {
	OperatorID string `json:"operator_id"`
	SourceID   string `json:"source_id"`
	Weight     int    `json:"weight"`
}
