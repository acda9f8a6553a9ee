package store

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by store implementations. Postgres errors are
// translated into these so handlers never see driver types.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrDuplicate     = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrSavedCoursesNotFound means the session saved nothing for the term.
	ErrSavedCoursesNotFound = fmt.Errorf("%w: saved course cards", ErrNotFound)

	// ErrTermNotFound means the catalog has no such term.
	ErrTermNotFound = fmt.Errorf("%w: term", ErrNotFound)
)

// IsNotFoundError reports whether err wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError records which step of a store operation failed.
type StoreError struct {
	Entity    string // "section", "saved_course_cards"
	Operation string // "import", "save"
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("store: %s %s: %s", e.Operation, e.Entity, e.Message)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err with the entity and operation it came from.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}
