package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/autoscheduler/autoscheduler/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedErr error
		expectedMsg string
	}{
		{name: "nil error", err: nil},
		{name: "no rows", err: sql.ErrNoRows, expectedErr: store.ErrNotFound},
		{
			name:        "unique violation",
			err:         &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "sections_term_crn_key"},
			expectedErr: store.ErrDuplicate,
			expectedMsg: "sections_term_crn_key",
		},
		{
			name:        "foreign key violation",
			err:         &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "sections_term_fkey"},
			expectedErr: store.ErrInvalidEntity,
			expectedMsg: "foreign key violation",
		},
		{
			name:        "check violation",
			err:         &pgconn.PgError{Code: checkViolationCode, ConstraintName: "meetings_days_check"},
			expectedErr: store.ErrInvalidEntity,
			expectedMsg: "check constraint violation",
		},
		{
			name:        "not null violation",
			err:         &pgconn.PgError{Code: notNullViolationCode, ColumnName: "crn"},
			expectedErr: store.ErrInvalidEntity,
			expectedMsg: "not null violation (crn)",
		},
		{
			name:        "wrapped pg error",
			err:         fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolationCode}),
			expectedErr: store.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.expectedErr)
			if tt.expectedMsg != "" {
				assert.Contains(t, got.Error(), tt.expectedMsg)
			}
		})
	}

	t.Run("unmapped error passes through", func(t *testing.T) {
		orig := errors.New("connection reset")
		assert.Same(t, orig, MapError(orig))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: checkViolationCode}))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
}
