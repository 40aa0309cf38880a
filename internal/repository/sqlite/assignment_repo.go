package sqlite

import (
	"context"
	"database/sql"

	"github.com/spec-kit/lead-distribution/internal/domain"
	"github.com/spec-kit/lead-distribution/internal/repository"
)

// AssignmentRepository implements repository.AssignmentRepository with SQLite.
type AssignmentRepository struct {
	db *sql.DB
}

var _ repository.AssignmentRepository = (*AssignmentRepository)(nil)

// NewAssignmentRepository creates a new SQLite assignment repository.
func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Upsert inserts the pair or updates its weight.
func (r *AssignmentRepository) Upsert(ctx context.Context, a *domain.Assignment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO operator_source_assignments (operator_id, source_id, weight) VALUES (?, ?, ?)
		 ON CONFLICT (operator_id, source_id) DO UPDATE SET weight = excluded.weight`,
		a.OperatorID, a.SourceID, a.Weight,
	)
	return mapError(err)
}

// Delete removes the assignment for the pair.
func (r *AssignmentRepository) Delete(ctx context.Context, operatorID, sourceID string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`DELETE FROM operator_source_assignments WHERE operator_id = ? AND source_id = ?`,
		operatorID, sourceID,
	))
}

// ListBySource returns the operators assigned to a source with their weights.
func (r *AssignmentRepository) ListBySource(ctx context.Context, sourceID string) ([]domain.SourceOperator, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT o.id, o.name, o.is_active, o.capacity, o.created_at, a.weight
		 FROM operator_source_assignments a
		 JOIN operators o ON o.id = a.operator_id
		 WHERE a.source_id = ?
		 ORDER BY o.created_at, o.id`,
		sourceID,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []domain.SourceOperator
	for rows.Next() {
		var item domain.SourceOperator
		if err := rows.Scan(
			&item.Operator.ID,
			&item.Operator.Name,
			&item.Operator.Active,
			&item.Operator.Capacity,
			&item.Operator.CreatedAt,
			&item.Weight,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// ListByOperator returns the sources an operator serves.
func (r *AssignmentRepository) ListByOperator(ctx context.Context, operatorID string) ([]domain.OperatorSource, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.code, s.name, a.weight
		 FROM operator_source_assignments a
		 JOIN sources s ON s.id = a.source_id
		 WHERE a.operator_id = ?
		 ORDER BY s.code`,
		operatorID,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []domain.OperatorSource
	for rows.Next() {
		var item domain.OperatorSource
		if err := rows.Scan(&item.SourceID, &item.SourceCode, &item.SourceName, &item.Weight); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
