// Package sqlite contains SQLite implementations of the repository interfaces.
package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/spec-kit/lead-distribution/internal/repository"
)

// NewStore wires SQLite repositories around a database handle.
func NewStore(db *sql.DB) *repository.Store {
	return &repository.Store{
		Operators:   NewOperatorRepository(db),
		Sources:     NewSourceRepository(db),
		Assignments: NewAssignmentRepository(db),
		Leads:       NewLeadRepository(db),
		Contacts:    NewContactRepository(db),
	}
}

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return errors.Join(repository.ErrDuplicate, err)
		case sqlite3.ErrConstraintForeignKey:
			return errors.Join(repository.ErrReferenced, err)
		case sqlite3.ErrConstraintTrigger:
			// ON DELETE RESTRICT is enforced as a trigger constraint.
			return errors.Join(repository.ErrReferenced, err)
		}
		if sqliteErr.Code == sqlite3.ErrConstraint && strings.HasPrefix(err.Error(), "FOREIGN KEY") {
			return errors.Join(repository.ErrReferenced, err)
		}
	}
	return err
}

func affectedOrNotFound(res sql.Result, err error) error {
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func normalizePage(limit, offset, def int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
