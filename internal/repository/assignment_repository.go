package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-distribution/internal/domain"
)

type assignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

func (r *assignmentRepository) Upsert(ctx context.Context, assignment *domain.Assignment) error {
	const query = `
        INSERT INTO operator_source_assignments (operator_id, source_id, weight)
        VALUES ($1,$2,$3)
        ON CONFLICT (operator_id, source_id) DO UPDATE SET weight = EXCLUDED.weight`
	_, err := r.pool.Exec(ctx, query, assignment.OperatorID, assignment.SourceID, assignment.Weight)
	return mapPgError(err)
}

func (r *assignmentRepository) Delete(ctx context.Context, operatorID, sourceID string) error {
	cmd, err := r.pool.Exec(ctx,
		`DELETE FROM operator_source_assignments WHERE operator_id=$1 AND source_id=$2`,
		operatorID, sourceID)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *assignmentRepository) ListBySource(ctx context.Context, sourceID string) ([]domain.SourceOperator, error) {
	const query = `
        SELECT o.id, o.name, o.is_active, o.capacity, o.created_at, a.weight
        FROM operator_source_assignments a
        JOIN operators o ON o.id = a.operator_id
        WHERE a.source_id=$1
        ORDER BY o.created_at, o.id`
	rows, err := r.pool.Query(ctx, query, sourceID)
	if err != nil {
		return nil, mapPgError(err)
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

func (r *assignmentRepository) ListByOperator(ctx context.Context, operatorID string) ([]domain.OperatorSource, error) {
	const query = `
        SELECT s.id, s.code, s.name, a.weight
        FROM operator_source_assignments a
        JOIN sources s ON s.id = a.source_id
        WHERE a.operator_id=$1
        ORDER BY s.code`
	rows, err := r.pool.Query(ctx, query, operatorID)
	if err != nil {
		return nil, mapPgError(err)
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
