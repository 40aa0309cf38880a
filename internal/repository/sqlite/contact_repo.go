package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/spec-kit/lead-distribution/internal/domain"
	"github.com/spec-kit/lead-distribution/internal/repository"
)

// ContactRepository implements repository.ContactRepository with SQLite.
type ContactRepository struct {
	db *sql.DB
}

var _ repository.ContactRepository = (*ContactRepository)(nil)

// NewContactRepository creates a new SQLite contact repository.
func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

const contactViewSelect = `
	SELECT c.id, c.lead_id, c.source_id, c.operator_id, c.status, c.message,
	       c.created_at, c.assigned_at, c.closed_at, s.code, o.name
	FROM contacts c
	JOIN sources s ON s.id = c.source_id
	LEFT JOIN operators o ON o.id = c.operator_id`

// Create persists a new contact.
func (r *ContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (id, lead_id, source_id, operator_id, status, message, created_at, assigned_at, closed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.LeadID, c.SourceID, c.OperatorID, string(c.Status), c.Message, c.CreatedAt, c.AssignedAt, c.ClosedAt,
	)
	return mapError(err)
}

// Update overwrites the mutable contact fields.
func (r *ContactRepository) Update(ctx context.Context, c *domain.Contact) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE contacts SET operator_id = ?, status = ?, message = ?, assigned_at = ?, closed_at = ? WHERE id = ?`,
		c.OperatorID, string(c.Status), c.Message, c.AssignedAt, c.ClosedAt, c.ID,
	))
}

// GetByID retrieves a contact by its ID.
func (r *ContactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	view, err := r.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	return &view.Contact, nil
}

// GetView retrieves a contact joined with its source code and operator name.
func (r *ContactRepository) GetView(ctx context.Context, id string) (*domain.ContactView, error) {
	rows, err := r.db.QueryContext(ctx, contactViewSelect+` WHERE c.id = ?`, id)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	views, err := scanContactViews(rows)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, repository.ErrNotFound
	}
	return &views[0], nil
}

// List returns contacts matching the filter, newest first.
func (r *ContactRepository) List(ctx context.Context, filter repository.ContactFilter) ([]domain.ContactView, error) {
	clauses := []string{"1=1"}
	var args []any

	if filter.Status != nil {
		clauses = append(clauses, "c.status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.LeadID != nil {
		clauses = append(clauses, "c.lead_id = ?")
		args = append(args, *filter.LeadID)
	}
	if filter.SourceID != nil {
		clauses = append(clauses, "c.source_id = ?")
		args = append(args, *filter.SourceID)
	}
	if filter.OperatorID != nil {
		clauses = append(clauses, "c.operator_id = ?")
		args = append(args, *filter.OperatorID)
	}

	limit, offset := normalizePage(filter.Limit, filter.Offset, 100)
	args = append(args, limit, offset)

	query := contactViewSelect + ` WHERE ` + strings.Join(clauses, " AND ") +
		` ORDER BY c.created_at DESC, c.id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return scanContactViews(rows)
}

// CountActiveByOperator counts the operator's contacts in an active status.
func (r *ContactRepository) CountActiveByOperator(ctx context.Context, operatorID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contacts WHERE operator_id = ? AND status IN (?, ?)`,
		operatorID, string(domain.ContactStatusNew), string(domain.ContactStatusInProgress),
	).Scan(&count)
	return count, mapError(err)
}

// Count returns total and active contact counts.
func (r *ContactRepository) Count(ctx context.Context) (int, int, error) {
	var total, active int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN status IN (?, ?) THEN 1 ELSE 0 END), 0) FROM contacts`,
		string(domain.ContactStatusNew), string(domain.ContactStatusInProgress),
	).Scan(&total, &active)
	return total, active, mapError(err)
}

// SourceBreakdown returns per-operator counts for the operators assigned to a source
// together with the source's total contact count.
func (r *ContactRepository) SourceBreakdown(ctx context.Context, sourceID string) ([]domain.OperatorLoadStats, int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT o.id, o.name,
		        COUNT(c.id),
		        COALESCE(SUM(CASE WHEN c.status IN (?, ?) THEN 1 ELSE 0 END), 0)
		 FROM operator_source_assignments a
		 JOIN operators o ON o.id = a.operator_id
		 LEFT JOIN contacts c ON c.operator_id = o.id AND c.source_id = a.source_id
		 WHERE a.source_id = ?
		 GROUP BY o.id, o.name
		 ORDER BY o.name`,
		string(domain.ContactStatusNew), string(domain.ContactStatusInProgress), sourceID,
	)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var stats []domain.OperatorLoadStats
	for rows.Next() {
		var item domain.OperatorLoadStats
		if err := rows.Scan(&item.OperatorID, &item.OperatorName, &item.TotalContacts, &item.ActiveContacts); err != nil {
			return nil, 0, err
		}
		item.ClosedContacts = item.TotalContacts - item.ActiveContacts
		stats = append(stats, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts WHERE source_id = ?`, sourceID).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}
	return stats, total, nil
}

func scanContactViews(rows *sql.Rows) ([]domain.ContactView, error) {
	var result []domain.ContactView
	for rows.Next() {
		var (
			view   domain.ContactView
			status string
		)
		if err := rows.Scan(
			&view.ID,
			&view.LeadID,
			&view.SourceID,
			&view.OperatorID,
			&status,
			&view.Message,
			&view.CreatedAt,
			&view.AssignedAt,
			&view.ClosedAt,
			&view.SourceCode,
			&view.OperatorName,
		); err != nil {
			return nil, err
		}
		view.Status = domain.ContactStatus(status)
		result = append(result, view)
	}
	return result, rows.Err()
}
