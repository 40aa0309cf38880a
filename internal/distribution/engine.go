package distribution

import (
	"context"
	"fmt"
	"strings"

	"github.com/spec-kit/lead-distribution/internal/domain"
)

// Outcome classifies a distribution decision.
type Outcome string

const (
	OutcomeAssigned      Outcome = "assigned"
	OutcomeNoAssignments Outcome = "no_assignments"
	OutcomeNoneAvailable Outcome = "none_available"
)

// Decision is the engine's answer for one contact.
type Decision struct {
	// Operator is nil when nobody could take the contact.
	Operator   *domain.Operator
	Outcome    Outcome
	Rationale  string
	Candidates []Candidate
}

// Engine selects an operator for a source. It keeps no memory of earlier
// decisions, so creation and reassignment behave identically.
type Engine struct {
	filter   *Filter
	selector *WeightedSelector
}

// NewEngine wires the filter and selector together.
func NewEngine(filter *Filter, selector *WeightedSelector) *Engine {
	return &Engine{filter: filter, selector: selector}
}

// NewEngineFromStore builds the full pipeline on top of the two store queries it needs.
func NewEngineFromStore(assignments AssignmentLister, counter ActiveCounter, rnd RandomSource) *Engine {
	return NewEngine(NewFilter(assignments, NewTracker(counter)), NewWeightedSelector(rnd))
}

// Filter exposes the engine's eligibility filter.
func (e *Engine) Filter() *Filter { return e.filter }

// Selector exposes the engine's weighted selector.
func (e *Engine) Selector() *WeightedSelector { return e.selector }

// SelectOperator picks an operator for a new or reassigned contact on the source.
func (e *Engine) SelectOperator(ctx context.Context, sourceID string) (Decision, error) {
	eligibility, err := e.filter.Eligible(ctx, sourceID)
	if err != nil {
		return Decision{}, err
	}

	if eligibility.Assigned == 0 {
		return Decision{
			Outcome:   OutcomeNoAssignments,
			Rationale: "no operators assigned to this source",
		}, nil
	}

	if len(eligibility.Candidates) == 0 {
		return Decision{
			Outcome:   OutcomeNoneAvailable,
			Rationale: "no available operators: " + strings.Join(eligibility.Exclusions, "; "),
		}, nil
	}

	chosen, err := e.selector.Select(eligibility.Candidates)
	if err != nil {
		return Decision{}, err
	}
	op := chosen.Operator
	return Decision{
		Operator:   &op,
		Outcome:    OutcomeAssigned,
		Rationale:  describeSelection(op.Name, eligibility.Candidates),
		Candidates: eligibility.Candidates,
	}, nil
}

// Share returns the candidate's floored percentage of the total weight.
func Share(weight, total int) int {
	if total <= 0 {
		return 0
	}
	return weight * 100 / total
}

func describeSelection(chosen string, candidates []Candidate) string {
	total := TotalWeight(candidates)
	parts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		parts = append(parts, fmt.Sprintf("%s: weight %d (%d%%)", c.Operator.Name, c.Weight, Share(c.Weight, total)))
	}
	return fmt.Sprintf("selected %s from [%s]", chosen, strings.Join(parts, ", "))
}
