package sqlite

import (
	"context"
	"database/sql"

	"github.com/spec-kit/lead-distribution/internal/domain"
	"github.com/spec-kit/lead-distribution/internal/repository"
)

// LeadRepository implements repository.LeadRepository with SQLite.
type LeadRepository struct {
	db *sql.DB
}

var _ repository.LeadRepository = (*LeadRepository)(nil)

// NewLeadRepository creates a new SQLite lead repository.
func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

const leadColumns = `id, external_id, name, phone, email, created_at`

// Create persists a new lead.
func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO leads (id, external_id, name, phone, email, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.ExternalID, lead.Name, lead.Phone, lead.Email, lead.CreatedAt,
	)
	return mapError(err)
}

// Update overwrites the contact-info fields.
func (r *LeadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE leads SET name = ?, phone = ?, email = ? WHERE id = ?`,
		lead.Name, lead.Phone, lead.Email, lead.ID,
	))
}

// GetByID retrieves a lead by its ID.
func (r *LeadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	return r.fetchSingle(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
}

// GetByExternalID retrieves a lead by the caller-supplied identifier.
func (r *LeadRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Lead, error) {
	return r.fetchSingle(ctx, `SELECT `+leadColumns+` FROM leads WHERE external_id = ?`, externalID)
}

// DeleteUnused removes the lead only while no contact references it.
func (r *LeadRepository) DeleteUnused(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM leads WHERE id = ? AND NOT EXISTS (SELECT 1 FROM contacts WHERE lead_id = ?)`, id, id)
	if err != nil {
		return false, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *LeadRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Lead, error) {
	var lead domain.Lead
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&lead.ID, &lead.ExternalID, &lead.Name, &lead.Phone, &lead.Email, &lead.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &lead, nil
}

// List returns leads, newest first.
func (r *LeadRepository) List(ctx context.Context, limit, offset int) ([]domain.Lead, error) {
	limit, offset = normalizePage(limit, offset, 100)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, mapError(err)
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

// Count returns the number of leads.
func (r *LeadRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&total)
	return total, mapError(err)
}
