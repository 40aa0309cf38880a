package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-distribution/internal/domain"
)

type operatorRepository struct {
	pool *pgxpool.Pool
}

// NewOperatorRepository instantiates the repository.
func NewOperatorRepository(pool *pgxpool.Pool) OperatorRepository {
	return &operatorRepository{pool: pool}
}

const operatorColumns = `id, name, is_active, capacity, created_at`

func (r *operatorRepository) Create(ctx context.Context, operator *domain.Operator) error {
	const query = `
        INSERT INTO operators (id, name, is_active, capacity, created_at)
        VALUES ($1,$2,$3,$4,$5)`
	_, err := r.pool.Exec(ctx, query,
		operator.ID,
		operator.Name,
		operator.Active,
		operator.Capacity,
		operator.CreatedAt,
	)
	return mapPgError(err)
}

func (r *operatorRepository) Update(ctx context.Context, operator *domain.Operator) error {
	const query = `UPDATE operators SET name=$1, is_active=$2, capacity=$3 WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		operator.Name,
		operator.Active,
		operator.Capacity,
		operator.ID,
	)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *operatorRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM operators WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *operatorRepository) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	return r.fetchSingle(ctx, `SELECT `+operatorColumns+` FROM operators WHERE id=$1`, id)
}

func (r *operatorRepository) GetByName(ctx context.Context, name string) (*domain.Operator, error) {
	return r.fetchSingle(ctx, `SELECT `+operatorColumns+` FROM operators WHERE name=$1 ORDER BY created_at LIMIT 1`, name)
}

func (r *operatorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Operator, error) {
	var op domain.Operator
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&op.ID,
		&op.Name,
		&op.Active,
		&op.Capacity,
		&op.CreatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &op, nil
}

func (r *operatorRepository) List(ctx context.Context) ([]domain.Operator, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+operatorColumns+` FROM operators ORDER BY created_at, id`)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	return scanOperators(rows)
}

func (r *operatorRepository) Count(ctx context.Context) (int, int, error) {
	var total, active int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM operators`,
	).Scan(&total, &active)
	return total, active, mapPgError(err)
}

func scanOperators(rows pgx.Rows) ([]domain.Operator, error) {
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
