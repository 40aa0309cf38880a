package domain

import "time"

// Capacity and weight bounds accepted at the API boundary.
const (
	DefaultOperatorCapacity = 10
	MinCapacity             = 1
	MaxCapacity             = 1000
	MinWeight               = 1
	MaxWeight               = 1000
	DefaultWeight           = 1
)

// Operator is a human agent who handles contacts.
type Operator struct {
	ID        string
	Name      string
	Active    bool
	Capacity  int
	CreatedAt time.Time
}
