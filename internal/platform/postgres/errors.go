package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/autoscheduler/autoscheduler/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the catalog and saved course schemas can raise.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

var constraintErrors = map[string]struct {
	sentinel error
	label    string
}{
	foreignKeyViolationCode: {store.ErrInvalidEntity, "foreign key violation"},
	checkViolationCode:      {store.ErrInvalidEntity, "check constraint violation"},
	notNullViolationCode:    {store.ErrInvalidEntity, "not null violation"},
}

// MapError translates driver errors into store sentinels. The driver error
// stays in the message for logs; unrecognised errors are returned as is.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("%w: %s: %v", store.ErrDuplicate, pgErr.ConstraintName, err)
	}
	if m, ok := constraintErrors[pgErr.Code]; ok {
		subject := pgErr.ConstraintName
		if pgErr.Code == notNullViolationCode {
			subject = pgErr.ColumnName
		}
		return fmt.Errorf("%w: %s (%s): %v", m.sentinel, m.label, subject, err)
	}
	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
