package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-distribution/internal/domain"
	"github.com/spec-kit/lead-distribution/internal/repository"
)

// AssignmentService configures which operators serve which sources.
type AssignmentService struct {
	assignments repository.AssignmentRepository
	operators   repository.OperatorRepository
	sources     repository.SourceRepository
	logger      *zap.Logger
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	AssignmentRepo repository.AssignmentRepository
	OperatorRepo   repository.OperatorRepository
	SourceRepo     repository.SourceRepository
	Logger         *zap.Logger
}

// AssignmentInput describes an operator/source pairing. Weight defaults to 1.
type AssignmentInput struct {
	OperatorID string
	SourceID   string
	Weight     *int
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		assignments: deps.AssignmentRepo,
		operators:   deps.OperatorRepo,
		sources:     deps.SourceRepo,
		logger:      logger,
	}
}

// Assign creates the pairing or updates the weight of an existing one.
func (s *AssignmentService) Assign(ctx context.Context, input AssignmentInput) (*domain.Assignment, error) {
	assignment := &domain.Assignment{
		OperatorID: input.OperatorID,
		SourceID:   input.SourceID,
		Weight:     domain.DefaultWeight,
	}
	if input.Weight != nil {
		assignment.Weight = *input.Weight
	}

	errs := fieldErrors{}
	errs.requireRange("weight", assignment.Weight, domain.MinWeight, domain.MaxWeight)
	if err := errs.err(); err != nil {
		return nil, err
	}

	if _, err := s.operators.GetByID(ctx, input.OperatorID); err != nil {
		return nil, mapRepoError(err, "operator", map[string]any{"operator_id": input.OperatorID})
	}
	if _, err := s.sources.GetByID(ctx, input.SourceID); err != nil {
		return nil, mapRepoError(err, "source", map[string]any{"source_id": input.SourceID})
	}

	if err := s.assignments.Upsert(ctx, assignment); err != nil {
		return nil, mapRepoError(err, "assignment", nil)
	}
	s.logger.Info("assignment saved",
		zap.String("operator_id", assignment.OperatorID),
		zap.String("source_id", assignment.SourceID),
		zap.Int("weight", assignment.Weight))
	return assignment, nil
}

// Unassign removes the pairing.
func (s *AssignmentService) Unassign(ctx context.Context, operatorID, sourceID string) error {
	if err := s.assignments.Delete(ctx, operatorID, sourceID); err != nil {
		return mapRepoError(err, "assignment", map[string]any{"operator_id": operatorID, "source_id": sourceID})
	}
	return nil
}

// ListBySource returns the operators assigned to a source.
func (s *AssignmentService) ListBySource(ctx context.Context, sourceID string) ([]domain.SourceOperator, error) {
	if _, err := s.sources.GetByID(ctx, sourceID); err != nil {
		return nil, mapRepoError(err, "source", map[string]any{"source_id": sourceID})
	}
	items, err := s.assignments.ListBySource(ctx, sourceID)
	if err != nil {
		return nil, mapRepoError(err, "assignment", nil)
	}
	return items, nil
}

// ListByOperator returns the sources an operator is assigned to.
func (s *AssignmentService) ListByOperator(ctx context.Context, operatorID string) ([]domain.OperatorSource, error) {
	if _, err := s.operators.GetByID(ctx, operatorID); err != nil {
		return nil, mapRepoError(err, "operator", map[string]any{"operator_id": operatorID})
	}
	items, err := s.assignments.ListByOperator(ctx, operatorID)
	if err != nil {
		return nil, mapRepoError(err, "assignment", nil)
	}
	return items, nil
}
