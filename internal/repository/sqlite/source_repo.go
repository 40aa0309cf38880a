package sqlite

import (
	"context"
	"database/sql"

	"github.com/spec-kit/lead-distribution/internal/domain"
	"github.com/spec-kit/lead-distribution/internal/repository"
)

// SourceRepository implements repository.SourceRepository with SQLite.
type SourceRepository struct {
	db *sql.DB
}

var _ repository.SourceRepository = (*SourceRepository)(nil)

// NewSourceRepository creates a new SQLite source repository.
func NewSourceRepository(db *sql.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

const sourceColumns = `id, name, code, description, is_active, created_at`

// Create persists a new source.
func (r *SourceRepository) Create(ctx context.Context, src *domain.Source) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sources (id, name, code, description, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		src.ID, src.Name, src.Code, src.Description, src.Active, src.CreatedAt,
	)
	return mapError(err)
}

// Update overwrites mutable source fields. The code is immutable.
func (r *SourceRepository) Update(ctx context.Context, src *domain.Source) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE sources SET name = ?, description = ?, is_active = ? WHERE id = ?`,
		src.Name, src.Description, src.Active, src.ID,
	))
}

// Delete removes a source. Fails with ErrReferenced while contacts point at it.
func (r *SourceRepository) Delete(ctx context.Context, id string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, `DELETE FROM sources WHERE id = ?`, id))
}

// GetByID retrieves a source by its ID.
func (r *SourceRepository) GetByID(ctx context.Context, id string) (*domain.Source, error) {
	return r.fetchSingle(ctx, `SELECT `+sourceColumns+` FROM sources WHERE id = ?`, id)
}

// GetByCode retrieves a source by its unique code.
func (r *SourceRepository) GetByCode(ctx context.Context, code string) (*domain.Source, error) {
	return r.fetchSingle(ctx, `SELECT `+sourceColumns+` FROM sources WHERE code = ?`, code)
}

func (r *SourceRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Source, error) {
	var src domain.Source
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&src.ID, &src.Name, &src.Code, &src.Description, &src.Active, &src.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &src, nil
}

// List returns every source in creation order.
func (r *SourceRepository) List(ctx context.Context) ([]domain.Source, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sourceColumns+` FROM sources ORDER BY created_at, id`)
	if err != nil {
		return nil, mapError(err)
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

// Count returns the number of sources.
func (r *SourceRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sources`).Scan(&total)
	return total, mapError(err)
}
