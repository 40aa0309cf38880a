// Package distribution decides which operator receives an incoming contact.
//
// Selection is a three step pipeline: the Filter drops operators that are
// inactive or already at capacity, the WeightedSelector draws one of the
// survivors with probability proportional to its weight, and the Engine
// stitches both together and explains the outcome.
package distribution

import "context"

// ActiveCounter counts contacts in an active status for one operator.
type ActiveCounter interface {
	CountActiveByOperator(ctx context.Context, operatorID string) (int, error)
}

// Tracker reports operator workload. Every call reads the store; nothing is cached.
type Tracker struct {
	counter ActiveCounter
}

// NewTracker creates a workload tracker.
func NewTracker(counter ActiveCounter) *Tracker {
	return &Tracker{counter: counter}
}

// ActiveCount returns the number of new or in_progress contacts assigned to the operator.
func (t *Tracker) ActiveCount(ctx context.Context, operatorID string) (int, error) {
	return t.counter.CountActiveByOperator(ctx, operatorID)
}
