package distribution

import (
	"errors"
	"math/rand/v2"
	"sync"
)

// ErrNoCandidates is returned when Select is called without candidates.
var ErrNoCandidates = errors.New("no candidates to select from")

// RandomSource yields uniformly distributed integers in [0, n).
type RandomSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// lockedSource serializes access to a seeded generator, which is not safe for concurrent use.
type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}

// NewRandomSource returns a process-wide random source. A zero seed uses the
// runtime's automatically seeded generator; any other value yields a
// reproducible sequence.
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		return globalSource{}
	}
	return &lockedSource{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// WeightedSelector picks a candidate with probability weight / total weight.
type WeightedSelector struct {
	rnd RandomSource
}

// NewWeightedSelector creates a selector. A nil source falls back to the global generator.
func NewWeightedSelector(rnd RandomSource) *WeightedSelector {
	if rnd == nil {
		rnd = globalSource{}
	}
	return &WeightedSelector{rnd: rnd}
}

// Select draws a point in [0, total) and returns the candidate whose
// cumulative weight range contains it.
func (s *WeightedSelector) Select(candidates []Candidate) (Candidate, error) {
	total := TotalWeight(candidates)
	if len(candidates) == 0 || total <= 0 {
		return Candidate{}, ErrNoCandidates
	}

	point := s.rnd.IntN(total)
	cumulative := 0
	for _, c := range candidates {
		cumulative += c.Weight
		if point < cumulative {
			return c, nil
		}
	}
	return candidates[len(candidates)-1], nil
}

// TotalWeight sums the weights of the candidates.
func TotalWeight(candidates []Candidate) int {
	total := 0
	for _, c := range candidates {
		total += c.Weight
	}
	return total
}
