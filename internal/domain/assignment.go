package domain

// Assignment links an operator to a source with a selection weight.
type Assignment struct {
	OperatorID string
	SourceID   string
	Weight     int
}

// SourceOperator is an assignment joined with the operator it points at.
type SourceOperator struct {
	Operator Operator
	Weight   int
}

// OperatorSource is an assignment joined with the source it points at.
type OperatorSource struct {
	SourceID   string
	SourceCode string
	SourceName string
	Weight     int
}
