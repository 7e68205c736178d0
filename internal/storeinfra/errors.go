package storeinfra

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/goliatone/go-catalog-cache/catalog"
)

// pqUniqueViolation is the postgres SQLSTATE for unique_violation.
const pqUniqueViolation = "23505"

// isUniqueViolation reports whether err is a driver error for a broken UNIQUE
// or primary key constraint.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	// repository wrappers may flatten the driver error into text
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// writeFailed wraps a failed row write, marking uniqueness violations with catalog.ErrDuplicate.
func writeFailed(op, entity string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("storeinfra: %s %s: %w: %w", op, entity, catalog.ErrDuplicate, err)
	}
	return fmt.Errorf("storeinfra: %s %s: %w", op, entity, err)
}
