package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-distribution/internal/domain"
)

type contactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository instantiates the repository.
func NewContactRepository(pool *pgxpool.Pool) ContactRepository {
	return &contactRepository{pool: pool}
}

const contactViewSelect = `
        SELECT c.id, c.lead_id, c.source_id, c.operator_id, c.status, c.message,
               c.created_at, c.assigned_at, c.closed_at, s.code, o.name
        FROM contacts c
        JOIN sources s ON s.id = c.source_id
        LEFT JOIN operators o ON o.id = c.operator_id`

func (r *contactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	const query = `
        INSERT INTO contacts (id, lead_id, source_id, operator_id, status, message, created_at, assigned_at, closed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.pool.Exec(ctx, query,
		contact.ID,
		contact.LeadID,
		contact.SourceID,
		contact.OperatorID,
		contact.Status,
		contact.Message,
		contact.CreatedAt,
		contact.AssignedAt,
		contact.ClosedAt,
	)
	return mapPgError(err)
}

func (r *contactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	const query = `
        UPDATE contacts SET operator_id=$1, status=$2, message=$3, assigned_at=$4, closed_at=$5
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		contact.OperatorID,
		contact.Status,
		contact.Message,
		contact.AssignedAt,
		contact.ClosedAt,
		contact.ID,
	)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *contactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	view, err := r.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	return &view.Contact, nil
}

func (r *contactRepository) GetView(ctx context.Context, id string) (*domain.ContactView, error) {
	rows, err := r.pool.Query(ctx, contactViewSelect+` WHERE c.id=$1`, id)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	views, err := scanContactViews(rows)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

func (r *contactRepository) List(ctx context.Context, filter ContactFilter) ([]domain.ContactView, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("c.status=$%d", len(args)))
	}
	if filter.LeadID != nil {
		args = append(args, *filter.LeadID)
		clauses = append(clauses, fmt.Sprintf("c.lead_id=$%d", len(args)))
	}
	if filter.SourceID != nil {
		args = append(args, *filter.SourceID)
		clauses = append(clauses, fmt.Sprintf("c.source_id=$%d", len(args)))
	}
	if filter.OperatorID != nil {
		args = append(args, *filter.OperatorID)
		clauses = append(clauses, fmt.Sprintf("c.operator_id=$%d", len(args)))
	}

	limit, offset := normalizePage(filter.Limit, filter.Offset, 100)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY c.created_at DESC, c.id LIMIT %d OFFSET %d`,
		contactViewSelect, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	return scanContactViews(rows)
}

func (r *contactRepository) CountActiveByOperator(ctx context.Context, operatorID string) (int, error) {
	const query = `
        SELECT COUNT(*) FROM contacts
        WHERE operator_id=$1 AND status IN ($2,$3)`
	var count int
	err := r.pool.QueryRow(ctx, query,
		operatorID,
		domain.ContactStatusNew,
		domain.ContactStatusInProgress,
	).Scan(&count)
	return count, mapPgError(err)
}

func (r *contactRepository) Count(ctx context.Context) (int, int, error) {
	const query = `
        SELECT COUNT(*), COUNT(*) FILTER (WHERE status IN ($1,$2)) FROM contacts`
	var total, active int
	err := r.pool.QueryRow(ctx, query, domain.ContactStatusNew, domain.ContactStatusInProgress).Scan(&total, &active)
	return total, active, mapPgError(err)
}

func (r *contactRepository) SourceBreakdown(ctx context.Context, sourceID string) ([]domain.OperatorLoadStats, int, error) {
	const query = `
        SELECT o.id, o.name,
               COUNT(c.id),
               COUNT(c.id) FILTER (WHERE c.status IN ($2,$3))
        FROM operator_source_assignments a
        JOIN operators o ON o.id = a.operator_id
        LEFT JOIN contacts c ON c.operator_id = o.id AND c.source_id = a.source_id
        WHERE a.source_id=$1
        GROUP BY o.id, o.name
        ORDER BY o.name`
	rows, err := r.pool.Query(ctx, query, sourceID, domain.ContactStatusNew, domain.ContactStatusInProgress)
	if err != nil {
		return nil, 0, mapPgError(err)
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
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contacts WHERE source_id=$1`, sourceID).Scan(&total); err != nil {
		return nil, 0, mapPgError(err)
	}
	return stats, total, nil
}

func scanContactViews(rows pgx.Rows) ([]domain.ContactView, error) {
	var result []domain.ContactView
	for rows.Next() {
		var view domain.ContactView
		if err := rows.Scan(
			&view.ID,
			&view.LeadID,
			&view.SourceID,
			&view.OperatorID,
			&view.Status,
			&view.Message,
			&view.CreatedAt,
			&view.AssignedAt,
			&view.ClosedAt,
			&view.SourceCode,
			&view.OperatorName,
		); err != nil {
			return nil, err
		}
		result = append(result, view)
	}
	return result, rows.Err()
}
