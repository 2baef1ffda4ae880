package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Error taxonomy surfaced across the data-access boundary. Every error returned by a
// repository wraps exactly one of these, so callers branch with errors.Is.
var (
	ErrNotFound            = errors.New("record not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrMigration           = errors.New("migration failed")
	ErrSchemaTooNew        = errors.New("schema version is newer than this build supports")
	ErrStorage             = errors.New("storage failure")
)

// ErrNotEnrolled rejects a service log whose accommodation owner is not enrolled in the class.
var ErrNotEnrolled = fmt.Errorf("%w: student is not enrolled in class", ErrConstraintViolation)

// classifyError maps a gorm/driver error onto the taxonomy.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConstraintViolation), errors.Is(err, ErrStorage):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case isConstraintError(err):
		return fmt.Errorf("%s: %w: %v", op, ErrConstraintViolation, err)
	default:
		return fmt.Errorf("%s: %w: %v", op, ErrStorage, err)
	}
}

func isConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	// SQLite reports UNIQUE, CHECK, NOT NULL and FOREIGN KEY failures as "... constraint failed".
	return strings.Contains(strings.ToLower(err.Error()), "constraint failed")
}

func notFound(op string, id int64) error {
	return fmt.Errorf("%s id=%d: %w", op, id, ErrNotFound)
}

func classifyErrorIs(err, target error) bool {
	return errors.Is(classifyError("", err), target)
}
