package sqlite

import (
	"context"
	"database/sql"

	"github.com/spec-kit/lead-distribution/internal/domain"
	"github.com/spec-kit/lead-distribution/internal/repository"
)

// OperatorRepository implements repository.OperatorRepository with SQLite.
type OperatorRepository struct {
	db *sql.DB
}

var _ repository.OperatorRepository = (*OperatorRepository)(nil)

// NewOperatorRepository creates a new SQLite operator repository.
func NewOperatorRepository(db *sql.DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

const operatorColumns = `id, name, is_active, capacity, created_at`

// Create persists a new operator.
func (r *OperatorRepository) Create(ctx context.Context, op *domain.Operator) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO operators (id, name, is_active, capacity, created_at) VALUES (?, ?, ?, ?, ?)`,
		op.ID, op.Name, op.Active, op.Capacity, op.CreatedAt,
	)
	return mapError(err)
}

// Update overwrites mutable operator fields.
func (r *OperatorRepository) Update(ctx context.Context, op *domain.Operator) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE operators SET name = ?, is_active = ?, capacity = ? WHERE id = ?`,
		op.Name, op.Active, op.Capacity, op.ID,
	))
}

// Delete removes an operator; assignments cascade.
func (r *OperatorRepository) Delete(ctx context.Context, id string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, `DELETE FROM operators WHERE id = ?`, id))
}

// GetByID retrieves an operator by its ID.
func (r *OperatorRepository) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	return r.fetchSingle(ctx, `SELECT `+operatorColumns+` FROM operators WHERE id = ?`, id)
}

// GetByName retrieves the oldest operator with the given name.
func (r *OperatorRepository) GetByName(ctx context.Context, name string) (*domain.Operator, error) {
	return r.fetchSingle(ctx, `SELECT `+operatorColumns+` FROM operators WHERE name = ? ORDER BY created_at LIMIT 1`, name)
}

func (r *OperatorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Operator, error) {
	var op domain.Operator
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&op.ID, &op.Name, &op.Active, &op.Capacity, &op.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &op, nil
}

// List returns every operator in creation order.
func (r *OperatorRepository) List(ctx context.Context) ([]domain.Operator, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+operatorColumns+` FROM operators ORDER BY created_at, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []domain.Operator
	for rows.Next() {
		var op domain.Operator
		if err := rows.Scan(&op.ID, &op.Name, &op.Active, &op.Capacity, &op.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, op)
	}
	return result, rows.Err()
}

// Count returns total and active operator counts.
func (r *OperatorRepository) Count(ctx context.Context) (int, int, error) {
	var total, active int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0) FROM operators`,
	).Scan(&total, &active)
	return total, active, mapError(err)
}
