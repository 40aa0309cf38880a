package distribution

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lead-distribution/internal/domain"
)

type fakeAssignments map[string][]domain.SourceOperator

func (f fakeAssignments) ListBySource(_ context.Context, sourceID string) ([]domain.SourceOperator, error) {
	return f[sourceID], nil
}

type fakeCounter map[string]int

func (f fakeCounter) CountActiveByOperator(_ context.Context, operatorID string) (int, error) {
	return f[operatorID], nil
}

type failingCounter struct{}

func (failingCounter) CountActiveByOperator(context.Context, string) (int, error) {
	return 0, errors.New("db down")
}

// sequenceSource replays fixed draws.
type sequenceSource struct {
	values []int
	calls  []int
}

func (s *sequenceSource) IntN(n int) int {
	s.calls = append(s.calls, n)
	v := s.values[0]
	s.values = s.values[1:]
	return v
}

func operator(id, name string, active bool, capacity int) domain.Operator {
	return domain.Operator{ID: id, Name: name, Active: active, Capacity: capacity}
}

func candidate(id, name string, weight int) Candidate {
	return Candidate{Operator: operator(id, name, true, 10), Weight: weight}
}

func TestWeightedSelector_CumulativeRanges(t *testing.T) {
	candidates := []Candidate{candidate("a", "Alice", 10), candidate("b", "Bob", 30)}

	tests := []struct {
		draw int
		want string
	}{
		{draw: 0, want: "Alice"},
		{draw: 9, want: "Alice"},
		{draw: 10, want: "Bob"},
		{draw: 39, want: "Bob"},
	}
	for _, tt := range tests {
		src := &sequenceSource{values: []int{tt.draw}}
		got, err := NewWeightedSelector(src).Select(candidates)
		require.NoError(t, err)
		require.Equal(t, tt.want, got.Operator.Name, "draw %d", tt.draw)
		require.Equal(t, []int{40}, src.calls)
	}
}

func TestWeightedSelector_Empty(t *testing.T) {
	_, err := NewWeightedSelector(nil).Select(nil)
	require.ErrorIs(t, err, ErrNoCandidates)
}

func TestWeightedSelector_ProportionalToWeight(t *testing.T) {
	selector := NewWeightedSelector(rand.New(rand.NewPCG(1, 2)))
	candidates := []Candidate{candidate("a", "Alice", 10), candidate("b", "Bob", 30), candidate("c", "Carol", 60)}

	const draws = 20000
	counts := map[string]int{}
	for range draws {
		got, err := selector.Select(candidates)
		require.NoError(t, err)
		counts[got.Operator.Name]++
	}

	require.InDelta(t, 0.10, float64(counts["Alice"])/draws, 0.02)
	require.InDelta(t, 0.30, float64(counts["Bob"])/draws, 0.02)
	require.InDelta(t, 0.60, float64(counts["Carol"])/draws, 0.02)
}

func TestNewRandomSource_SeededIsReproducible(t *testing.T) {
	a := NewRandomSource(42)
	b := NewRandomSource(42)
	for range 50 {
		require.Equal(t, a.IntN(1000), b.IntN(1000))
	}
	require.Less(t, NewRandomSource(0).IntN(5), 5)
}

func TestFilter_Eligible(t *testing.T) {
	assignments := fakeAssignments{
		"src": {
			{Operator: operator("a", "Alice", false, 5), Weight: 1},
			{Operator: operator("b", "Bob", true, 2), Weight: 2},
			{Operator: operator("c", "Carol", true, 3), Weight: 3},
		},
	}
	counter := fakeCounter{"a": 0, "b": 2, "c": 1}
	filter := NewFilter(assignments, NewTracker(counter))

	t.Run("excludes inactive and full operators", func(t *testing.T) {
		got, err := filter.Eligible(context.Background(), "src")
		require.NoError(t, err)
		require.Equal(t, 3, got.Assigned)
		require.Len(t, got.Candidates, 1)
		require.Equal(t, "Carol", got.Candidates[0].Operator.Name)
		require.Equal(t, 1, got.Candidates[0].Load)
		require.Equal(t, []string{"Alice: inactive", "Bob: at capacity (2/2)"}, got.Exclusions)
	})

	t.Run("empty source", func(t *testing.T) {
		got, err := filter.Eligible(context.Background(), "other")
		require.NoError(t, err)
		require.Zero(t, got.Assigned)
		require.Empty(t, got.Candidates)
		require.Equal(t, []string{ReasonNoAssignments}, got.Exclusions)
	})

	t.Run("counter failure", func(t *testing.T) {
		_, err := NewFilter(assignments, NewTracker(failingCounter{})).Eligible(context.Background(), "src")
		require.Error(t, err)
	})
}

func TestEngine_SelectOperator(t *testing.T) {
	assignments := fakeAssignments{
		"telegram": {
			{Operator: operator("a", "Alice", true, 2), Weight: 10},
			{Operator: operator("b", "Bob", true, 2), Weight: 30},
		},
	}

	t.Run("no assignments", func(t *testing.T) {
		engine := NewEngineFromStore(assignments, fakeCounter{}, nil)
		got, err := engine.SelectOperator(context.Background(), "whatsapp")
		require.NoError(t, err)
		require.Nil(t, got.Operator)
		require.Equal(t, OutcomeNoAssignments, got.Outcome)
		require.Equal(t, "no operators assigned to this source", got.Rationale)
	})

	t.Run("everyone at capacity", func(t *testing.T) {
		engine := NewEngineFromStore(assignments, fakeCounter{"a": 2, "b": 2}, nil)
		got, err := engine.SelectOperator(context.Background(), "telegram")
		require.NoError(t, err)
		require.Nil(t, got.Operator)
		require.Equal(t, OutcomeNoneAvailable, got.Outcome)
		require.Equal(t, "no available operators: Alice: at capacity (2/2); Bob: at capacity (2/2)", got.Rationale)
	})

	t.Run("selects with rationale", func(t *testing.T) {
		engine := NewEngineFromStore(assignments, fakeCounter{}, &sequenceSource{values: []int{25}})
		got, err := engine.SelectOperator(context.Background(), "telegram")
		require.NoError(t, err)
		require.NotNil(t, got.Operator)
		require.Equal(t, "b", got.Operator.ID)
		require.Equal(t, OutcomeAssigned, got.Outcome)
		require.Equal(t, "selected Bob from [Alice: weight 10 (25%), Bob: weight 30 (75%)]", got.Rationale)
		require.Len(t, got.Candidates, 2)
	})

	t.Run("remaining operator takes everything", func(t *testing.T) {
		engine := NewEngineFromStore(assignments, fakeCounter{"b": 2}, &sequenceSource{values: []int{0}})
		got, err := engine.SelectOperator(context.Background(), "telegram")
		require.NoError(t, err)
		require.Equal(t, "a", got.Operator.ID)
		require.Equal(t, "selected Alice from [Alice: weight 10 (100%)]", got.Rationale)
	})
}

func TestShare_Floors(t *testing.T) {
	require.Equal(t, 33, Share(1, 3))
	require.Equal(t, 66, Share(2, 3))
	require.Equal(t, 0, Share(1, 0))
}
