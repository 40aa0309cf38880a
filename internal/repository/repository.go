package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-distribution/internal/domain"
)

// Sentinel errors shared by every storage backend.
var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate record")
	ErrReferenced = errors.New("record is still referenced")
)

// OperatorRepository handles persistence for operators.
type OperatorRepository interface {
	Create(ctx context.Context, operator *domain.Operator) error
	Update(ctx context.Context, operator *domain.Operator) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Operator, error)
	GetByName(ctx context.Context, name string) (*domain.Operator, error)
	List(ctx context.Context) ([]domain.Operator, error)
	Count(ctx context.Context) (total int, active int, err error)
}

// SourceRepository handles persistence for sources.
type SourceRepository interface {
	Create(ctx context.Context, source *domain.Source) error
	Update(ctx context.Context, source *domain.Source) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Source, error)
	GetByCode(ctx context.Context, code string) (*domain.Source, error)
	List(ctx context.Context) ([]domain.Source, error)
	Count(ctx context.Context) (int, error)
}

// AssignmentRepository manages operator/source weights.
type AssignmentRepository interface {
	// Upsert inserts the assignment or updates the weight of an existing pair.
	Upsert(ctx context.Context, assignment *domain.Assignment) error
	Delete(ctx context.Context, operatorID, sourceID string) error
	ListBySource(ctx context.Context, sourceID string) ([]domain.SourceOperator, error)
	ListByOperator(ctx context.Context, operatorID string) ([]domain.OperatorSource, error)
}

// LeadRepository handles persistence for leads.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) error
	Update(ctx context.Context, lead *domain.Lead) error
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Lead, error)
	// DeleteUnused removes the lead only while no contact references it.
	DeleteUnused(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]domain.Lead, error)
	Count(ctx context.Context) (int, error)
}

// ContactFilter captures listing parameters.
type ContactFilter struct {
	Status     *domain.ContactStatus
	LeadID     *string
	SourceID   *string
	OperatorID *string
	Limit      int
	Offset     int
}

// ContactRepository handles persistence for contacts and the live workload queries.
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	Update(ctx context.Context, contact *domain.Contact) error
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	GetView(ctx context.Context, id string) (*domain.ContactView, error)
	List(ctx context.Context, filter ContactFilter) ([]domain.ContactView, error)
	// CountActiveByOperator counts contacts in an active status for the operator.
	CountActiveByOperator(ctx context.Context, operatorID string) (int, error)
	Count(ctx context.Context) (total int, active int, err error)
	// SourceBreakdown returns per-operator totals for every operator assigned to the source.
	SourceBreakdown(ctx context.Context, sourceID string) ([]domain.OperatorLoadStats, int, error)
}

// Store bundles every repository of one backend.
type Store struct {
	Operators   OperatorRepository
	Sources     SourceRepository
	Assignments AssignmentRepository
	Leads       LeadRepository
	Contacts    ContactRepository
}

// NewPostgresStore wires pgx repositories around a pool.
func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Operators:   NewOperatorRepository(pool),
		Sources:     NewSourceRepository(pool),
		Assignments: NewAssignmentRepository(pool),
		Leads:       NewLeadRepository(pool),
		Contacts:    NewContactRepository(pool),
	}
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapPgError translates driver errors into the package sentinels.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return errors.Join(ErrDuplicate, err)
		case pgForeignKeyViolation:
			return errors.Join(ErrReferenced, err)
		}
	}
	return err
}
