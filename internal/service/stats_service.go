package service

import (
	"context"
	"math"

	"github.com/spec-kit/lead-distribution/internal/domain"
	"github.com/spec-kit/lead-distribution/internal/repository"
)

// StatsService computes system-wide and per-source counters.
type StatsService struct {
	store *repository.Store
}

// NewStatsService constructs the service.
func NewStatsService(store *repository.Store) *StatsService {
	return &StatsService{store: store}
}

// System returns global totals.
func (s *StatsService) System(ctx context.Context) (*domain.SystemStats, error) {
	var stats domain.SystemStats
	var err error

	if stats.TotalOperators, stats.ActiveOperators, err = s.store.Operators.Count(ctx); err != nil {
		return nil, mapRepoError(err, "operator", nil)
	}
	if stats.TotalSources, err = s.store.Sources.Count(ctx); err != nil {
		return nil, mapRepoError(err, "source", nil)
	}
	if stats.TotalLeads, err = s.store.Leads.Count(ctx); err != nil {
		return nil, mapRepoError(err, "lead", nil)
	}
	if stats.TotalContacts, stats.ActiveContacts, err = s.store.Contacts.Count(ctx); err != nil {
		return nil, mapRepoError(err, "contact", nil)
	}
	return &stats, nil
}

// SourceDistribution breaks a source's contacts down by assigned operator.
// LoadPercentage is the operator's share of the source's contacts, rounded to 0.1.
func (s *StatsService) SourceDistribution(ctx context.Context, sourceID string) (*domain.SourceDistributionStats, error) {
	src, err := s.store.Sources.GetByID(ctx, sourceID)
	if err != nil {
		return nil, mapRepoError(err, "source", map[string]any{"source_id": sourceID})
	}
	operators, total, err := s.store.Contacts.SourceBreakdown(ctx, sourceID)
	if err != nil {
		return nil, mapRepoError(err, "contact", nil)
	}
	for i := range operators {
		if total > 0 {
			operators[i].LoadPercentage = math.Round(float64(operators[i].TotalContacts)*1000/float64(total)) / 10
		}
	}
	if operators == nil {
		operators = []domain.OperatorLoadStats{}
	}
	return &domain.SourceDistributionStats{
		SourceID:      src.ID,
		SourceCode:    src.Code,
		SourceName:    src.Name,
		TotalContacts: total,
		Operators:     operators,
	}, nil
}
