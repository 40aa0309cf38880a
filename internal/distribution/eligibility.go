package distribution

import (
	"context"
	"fmt"

	"github.com/spec-kit/lead-distribution/internal/domain"
)

// ReasonNoAssignments is reported when a source has no operators at all.
const ReasonNoAssignments = "no operators assigned to source"

// AssignmentLister lists the operators assigned to a source.
type AssignmentLister interface {
	ListBySource(ctx context.Context, sourceID string) ([]domain.SourceOperator, error)
}

// Candidate is an operator that may receive the next contact.
type Candidate struct {
	Operator domain.Operator
	Weight   int
	Load     int
}

// Eligibility is the outcome of filtering a source's operators.
type Eligibility struct {
	// Assigned is the number of operators assigned to the source, eligible or not.
	Assigned   int
	Candidates []Candidate
	// Exclusions holds one human-readable reason per excluded operator.
	Exclusions []string
}

// Filter narrows a source's operators down to those able to take a contact.
type Filter struct {
	assignments AssignmentLister
	tracker     *Tracker
}

// NewFilter creates an eligibility filter.
func NewFilter(assignments AssignmentLister, tracker *Tracker) *Filter {
	return &Filter{assignments: assignments, tracker: tracker}
}

// Eligible returns the active operators of the source whose workload is below capacity.
func (f *Filter) Eligible(ctx context.Context, sourceID string) (Eligibility, error) {
	assigned, err := f.assignments.ListBySource(ctx, sourceID)
	if err != nil {
		return Eligibility{}, fmt.Errorf("list assignments: %w", err)
	}

	result := Eligibility{Assigned: len(assigned)}
	if len(assigned) == 0 {
		result.Exclusions = []string{ReasonNoAssignments}
		return result, nil
	}

	for _, item := range assigned {
		op := item.Operator
		if !op.Active {
			result.Exclusions = append(result.Exclusions, fmt.Sprintf("%s: inactive", op.Name))
			continue
		}
		load, err := f.tracker.ActiveCount(ctx, op.ID)
		if err != nil {
			return Eligibility{}, fmt.Errorf("count workload of %s: %w", op.ID, err)
		}
		if load >= op.Capacity {
			result.Exclusions = append(result.Exclusions,
				fmt.Sprintf("%s: at capacity (%d/%d)", op.Name, load, op.Capacity))
			continue
		}
		result.Candidates = append(result.Candidates, Candidate{Operator: op, Weight: item.Weight, Load: load})
	}
	return result, nil
}
