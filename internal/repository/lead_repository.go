package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-distribution/internal/domain"
)

type leadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository instantiates the repository.
func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &leadRepository{pool: pool}
}

const leadColumns = `id, external_id, name, phone, email, created_at`

func (r *leadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	const query = `
        INSERT INTO leads (id, external_id, name, phone, email, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.pool.Exec(ctx, query,
		lead.ID,
		lead.ExternalID,
		lead.Name,
		lead.Phone,
		lead.Email,
		lead.CreatedAt,
	)
	return mapPgError(err)
}

func (r *leadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	const query = `UPDATE leads SET name=$1, phone=$2, email=$3 WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, lead.Name, lead.Phone, lead.Email, lead.ID)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	return r.fetchSingle(ctx, `SELECT `+leadColumns+` FROM leads WHERE id=$1`, id)
}

func (r *leadRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Lead, error) {
	return r.fetchSingle(ctx, `SELECT `+leadColumns+` FROM leads WHERE external_id=$1`, externalID)
}

func (r *leadRepository) DeleteUnused(ctx context.Context, id string) (bool, error) {
	cmd, err := r.pool.Exec(ctx,
		`DELETE FROM leads WHERE id=$1 AND NOT EXISTS (SELECT 1 FROM contacts WHERE lead_id=$1)`, id)
	if err != nil {
		return false, mapPgError(err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *leadRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Lead, error) {
	var lead domain.Lead
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&lead.ID,
		&lead.ExternalID,
		&lead.Name,
		&lead.Phone,
		&lead.Email,
		&lead.CreatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &lead, nil
}

func (r *leadRepository) List(ctx context.Context, limit, offset int) ([]domain.Lead, error) {
	limit, offset = normalizePage(limit, offset, 100)
	rows, err := r.pool.Query(ctx,
		`SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Lead
	for rows.Next() {
		var lead domain.Lead
		if err := rows.Scan(&lead.ID, &lead.ExternalID, &lead.Name, &lead.Phone, &lead.Email, &lead.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, lead)
	}
	return result, rows.Err()
}

func (r *leadRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads`).Scan(&total)
	return total, mapPgError(err)
}

// normalizePage clamps pagination parameters.
func normalizePage(limit, offset, def int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
