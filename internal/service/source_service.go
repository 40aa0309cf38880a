package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-distribution/internal/distribution"
	"github.com/spec-kit/lead-distribution/internal/domain"
	"github.com/spec-kit/lead-distribution/internal/repository"
	apperrors "github.com/spec-kit/lead-distribution/pkg/util/errorutil"
)

// SourceService manages inbound channels.
type SourceService struct {
	sources     repository.SourceRepository
	assignments repository.AssignmentRepository
	tracker     *distribution.Tracker
	logger      *zap.Logger
	now         func() time.Time
}

// SourceDependencies bundles repositories for the source service.
type SourceDependencies struct {
	SourceRepo     repository.SourceRepository
	AssignmentRepo repository.AssignmentRepository
	ContactRepo    repository.ContactRepository
	Logger         *zap.Logger
	Now            func() time.Time
}

// SourceCreateInput describes a new source.
type SourceCreateInput struct {
	Name        string
	Code        string
	Description *string
	Active      *bool
}

// SourceUpdateInput carries the fields to change. The code cannot be changed.
type SourceUpdateInput struct {
	Name        *string
	Description *string
	Active      *bool
}

// SourceOperator describes one operator serving a source.
type SourceOperator struct {
	OperatorID   string
	OperatorName string
	Weight       int
	Active       bool
	CurrentLoad  int
	Capacity     int
}

// SourceDetail is a source with its assigned operators.
type SourceDetail struct {
	domain.Source
	Operators []SourceOperator
}

// NewSourceService constructs the service.
func NewSourceService(deps SourceDependencies) *SourceService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SourceService{
		sources:     deps.SourceRepo,
		assignments: deps.AssignmentRepo,
		tracker:     distribution.NewTracker(deps.ContactRepo),
		logger:      logger,
		now:         clockOrDefault(deps.Now),
	}
}

// Create registers a source. Codes are unique.
func (s *SourceService) Create(ctx context.Context, input SourceCreateInput) (*domain.Source, error) {
	src := &domain.Source{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Code:        strings.TrimSpace(input.Code),
		Description: trimmedPtr(input.Description),
		Active:      true,
		CreatedAt:   s.now(),
	}
	if input.Active != nil {
		src.Active = *input.Active
	}

	errs := fieldErrors{}
	errs.requireLength("name", src.Name, 1, 100)
	errs.sourceCode(src.Code)
	if err := errs.err(); err != nil {
		return nil, err
	}

	if err := s.sources.Create(ctx, src); err != nil {
		return nil, mapRepoError(err, "source", map[string]any{"code": src.Code})
	}
	s.logger.Info("source created", zap.String("source_id", src.ID), zap.String("code", src.Code))
	return src, nil
}

// List returns every source.
func (s *SourceService) List(ctx context.Context) ([]domain.Source, error) {
	sources, err := s.sources.List(ctx)
	if err != nil {
		return nil, mapRepoError(err, "source", nil)
	}
	return sources, nil
}

// Get returns a source with its operators, their weights and live load.
func (s *SourceService) Get(ctx context.Context, id string) (*SourceDetail, error) {
	src, err := s.getSource(ctx, id)
	if err != nil {
		return nil, err
	}
	assigned, err := s.assignments.ListBySource(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "source", nil)
	}

	detail := &SourceDetail{Source: *src, Operators: make([]SourceOperator, 0, len(assigned))}
	for _, a := range assigned {
		load, err := s.tracker.ActiveCount(ctx, a.Operator.ID)
		if err != nil {
			return nil, mapRepoError(err, "source", nil)
		}
		detail.Operators = append(detail.Operators, SourceOperator{
			OperatorID:   a.Operator.ID,
			OperatorName: a.Operator.Name,
			Weight:       a.Weight,
			Active:       a.Operator.Active,
			CurrentLoad:  load,
			Capacity:     a.Operator.Capacity,
		})
	}
	return detail, nil
}

// GetByCode resolves a source by its code.
func (s *SourceService) GetByCode(ctx context.Context, code string) (*domain.Source, error) {
	src, err := s.sources.GetByCode(ctx, code)
	if err != nil {
		return nil, mapRepoError(err, "source", map[string]any{"code": code})
	}
	return src, nil
}

// Update applies a partial update.
func (s *SourceService) Update(ctx context.Context, id string, input SourceUpdateInput) (*domain.Source, error) {
	src, err := s.getSource(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		src.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		src.Description = trimmedPtr(input.Description)
	}
	if input.Active != nil {
		src.Active = *input.Active
	}

	errs := fieldErrors{}
	errs.requireLength("name", src.Name, 1, 100)
	if err := errs.err(); err != nil {
		return nil, err
	}
	if err := s.sources.Update(ctx, src); err != nil {
		return nil, mapRepoError(err, "source", map[string]any{"source_id": id})
	}
	return src, nil
}

// Delete removes a source. It fails with a conflict while contacts reference it.
func (s *SourceService) Delete(ctx context.Context, id string) error {
	err := s.sources.Delete(ctx, id)
	if errors.Is(err, repository.ErrReferenced) {
		return apperrors.NewConflict("source has contacts and cannot be deleted", map[string]any{"source_id": id})
	}
	if err != nil {
		return mapRepoError(err, "source", map[string]any{"source_id": id})
	}
	s.logger.Info("source deleted", zap.String("source_id", id))
	return nil
}

func (s *SourceService) getSource(ctx context.Context, id string) (*domain.Source, error) {
	src, err := s.sources.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "source", map[string]any{"source_id": id})
	}
	return src, nil
}
