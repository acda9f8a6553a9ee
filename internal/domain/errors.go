// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Constructors wrap it in a *ValidationError naming the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrUnknownSortType is returned when a sort type name is not recognised.
	ErrUnknownSortType = errors.New("unknown sort type")
)

// ValidationError reports which field of which entity failed validation.
// It always unwraps to ErrValidation so callers can use errors.Is.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s.%s %s", ErrValidation, e.Entity, e.Field, e.Reason)
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func missingField(entity, field string) error {
	return &ValidationError{Entity: entity, Field: field, Reason: "is required"}
}

func invalidField(entity, field, reason string) error {
	return &ValidationError{Entity: entity, Field: field, Reason: reason}
}
