package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-distribution/internal/distribution"
	"github.com/spec-kit/lead-distribution/internal/domain"
	"github.com/spec-kit/lead-distribution/internal/repository"
)

// OperatorService manages operators and reports their workload.
type OperatorService struct {
	operators   repository.OperatorRepository
	assignments repository.AssignmentRepository
	tracker     *distribution.Tracker
	logger      *zap.Logger
	now         func() time.Time
}

// OperatorDependencies bundles repositories for the operator service.
type OperatorDependencies struct {
	OperatorRepo   repository.OperatorRepository
	AssignmentRepo repository.AssignmentRepository
	ContactRepo    repository.ContactRepository
	Logger         *zap.Logger
	Now            func() time.Time
}

// OperatorCreateInput describes a new operator.
type OperatorCreateInput struct {
	Name     string
	Active   *bool
	Capacity *int
}

// OperatorUpdateInput carries the fields to change; nil fields are left untouched.
type OperatorUpdateInput struct {
	Name     *string
	Active   *bool
	Capacity *int
}

// OperatorWithLoad pairs an operator with its live workload.
type OperatorWithLoad struct {
	domain.Operator
	CurrentLoad int
}

// OperatorDetail adds the sources the operator serves.
type OperatorDetail struct {
	OperatorWithLoad
	Sources []domain.OperatorSource
}

// NewOperatorService constructs the service.
func NewOperatorService(deps OperatorDependencies) *OperatorService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OperatorService{
		operators:   deps.OperatorRepo,
		assignments: deps.AssignmentRepo,
		tracker:     distribution.NewTracker(deps.ContactRepo),
		logger:      logger,
		now:         clockOrDefault(deps.Now),
	}
}

// Create registers an operator. Operators start active with capacity 10 unless told otherwise.
func (s *OperatorService) Create(ctx context.Context, input OperatorCreateInput) (*domain.Operator, error) {
	op := &domain.Operator{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(input.Name),
		Active:    true,
		Capacity:  domain.DefaultOperatorCapacity,
		CreatedAt: s.now(),
	}
	if input.Active != nil {
		op.Active = *input.Active
	}
	if input.Capacity != nil {
		op.Capacity = *input.Capacity
	}
	if err := validateOperator(op); err != nil {
		return nil, err
	}

	if err := s.operators.Create(ctx, op); err != nil {
		return nil, mapRepoError(err, "operator", nil)
	}
	s.logger.Info("operator created", zap.String("operator_id", op.ID), zap.String("name", op.Name))
	return op, nil
}

// List returns every operator with its current load.
func (s *OperatorService) List(ctx context.Context) ([]OperatorWithLoad, error) {
	ops, err := s.operators.List(ctx)
	if err != nil {
		return nil, mapRepoError(err, "operator", nil)
	}
	result := make([]OperatorWithLoad, 0, len(ops))
	for _, op := range ops {
		load, err := s.tracker.ActiveCount(ctx, op.ID)
		if err != nil {
			return nil, mapRepoError(err, "operator", nil)
		}
		result = append(result, OperatorWithLoad{Operator: op, CurrentLoad: load})
	}
	return result, nil
}

// Get returns an operator with its load and assigned sources.
func (s *OperatorService) Get(ctx context.Context, id string) (*OperatorDetail, error) {
	op, err := s.getOperator(ctx, id)
	if err != nil {
		return nil, err
	}
	load, err := s.tracker.ActiveCount(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "operator", nil)
	}
	sources, err := s.assignments.ListByOperator(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "operator", nil)
	}
	return &OperatorDetail{
		OperatorWithLoad: OperatorWithLoad{Operator: *op, CurrentLoad: load},
		Sources:          sources,
	}, nil
}

// Update applies a partial update.
func (s *OperatorService) Update(ctx context.Context, id string, input OperatorUpdateInput) (*domain.Operator, error) {
	op, err := s.getOperator(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		op.Name = strings.TrimSpace(*input.Name)
	}
	if input.Active != nil {
		op.Active = *input.Active
	}
	if input.Capacity != nil {
		op.Capacity = *input.Capacity
	}
	if err := validateOperator(op); err != nil {
		return nil, err
	}
	if err := s.operators.Update(ctx, op); err != nil {
		return nil, mapRepoError(err, "operator", map[string]any{"operator_id": id})
	}
	return op, nil
}

// Delete removes an operator. Its assignments go with it; its contacts become unassigned.
func (s *OperatorService) Delete(ctx context.Context, id string) error {
	if err := s.operators.Delete(ctx, id); err != nil {
		return mapRepoError(err, "operator", map[string]any{"operator_id": id})
	}
	s.logger.Info("operator deleted", zap.String("operator_id", id))
	return nil
}

// GetOperatorLoad returns the number of active contacts the operator holds.
func (s *OperatorService) GetOperatorLoad(ctx context.Context, id string) (int, error) {
	if _, err := s.getOperator(ctx, id); err != nil {
		return 0, err
	}
	load, err := s.tracker.ActiveCount(ctx, id)
	if err != nil {
		return 0, mapRepoError(err, "operator", nil)
	}
	return load, nil
}

// GetByName returns the oldest operator with the given name.
func (s *OperatorService) GetByName(ctx context.Context, name string) (*domain.Operator, error) {
	op, err := s.operators.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, mapRepoError(err, "operator", map[string]any{"name": name})
	}
	return op, nil
}

func (s *OperatorService) getOperator(ctx context.Context, id string) (*domain.Operator, error) {
	op, err := s.operators.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "operator", map[string]any{"operator_id": id})
	}
	return op, nil
}

func validateOperator(op *domain.Operator) error {
	errs := fieldErrors{}
	errs.requireLength("name", op.Name, 1, 100)
	errs.requireRange("capacity", op.Capacity, domain.MinCapacity, domain.MaxCapacity)
	return errs.err()
}
