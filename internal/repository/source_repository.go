package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-distribution/internal/domain"
)

type sourceRepository struct {
	pool *pgxpool.Pool
}

// NewSourceRepository instantiates the repository.
func NewSourceRepository(pool *pgxpool.Pool) SourceRepository {
	return &sourceRepository{pool: pool}
}

const sourceColumns = `id, name, code, description, is_active, created_at`

func (r *sourceRepository) Create(ctx context.Context, source *domain.Source) error {
	const query = `
        INSERT INTO sources (id, name, code, description, is_active, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.pool.Exec(ctx, query,
		source.ID,
		source.Name,
		source.Code,
		source.Description,
		source.Active,
		source.CreatedAt,
	)
	return mapPgError(err)
}

func (r *sourceRepository) Update(ctx context.Context, source *domain.Source) error {
	const query = `UPDATE sources SET name=$1, description=$2, is_active=$3 WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, source.Name, source.Description, source.Active, source.ID)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sourceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sources WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sourceRepository) GetByID(ctx context.Context, id string) (*domain.Source, error) {
	return r.fetchSingle(ctx, `SELECT `+sourceColumns+` FROM sources WHERE id=$1`, id)
}

func (r *sourceRepository) GetByCode(ctx context.Context, code string) (*domain.Source, error) {
	return r.fetchSingle(ctx, `SELECT `+sourceColumns+` FROM sources WHERE code=$1`, code)
}

func (r *sourceRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Source, error) {
	var src domain.Source
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&src.ID,
		&src.Name,
		&src.Code,
		&src.Description,
		&src.Active,
		&src.CreatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &src, nil
}

func (r *sourceRepository) List(ctx context.Context) ([]domain.Source, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+sourceColumns+` FROM sources ORDER BY created_at, id`)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Source
	for rows.Next() {
		var src domain.Source
		if err := rows.Scan(&src.ID, &src.Name, &src.Code, &src.Description, &src.Active, &src.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, src)
	}
	return result, rows.Err()
}

func (r *sourceRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sources`).Scan(&total)
	return total, mapPgError(err)
}
