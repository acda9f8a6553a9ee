package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/autoscheduler/autoscheduler/internal/coursecard"
	"github.com/autoscheduler/autoscheduler/internal/domain"
	"github.com/autoscheduler/autoscheduler/internal/platform/backend"
	"github.com/autoscheduler/autoscheduler/internal/store"
	"github.com/autoscheduler/autoscheduler/internal/term"
	"github.com/go-playground/validator/v10"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, coursecard.ErrCardNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Upstream errors
	case errors.Is(err, backend.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, backend.ErrUnexpectedStatus),
		errors.Is(err, coursecard.ErrFetchFailed):
		return http.StatusBadGateway

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrUnknownSortType),
		errors.Is(err, term.ErrInvalidTerm),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, coursecard.ErrCardNotFound):
		return "Course card not found"
	case errors.Is(err, store.ErrSavedCoursesNotFound):
		return "No saved courses for this term"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"
	case errors.Is(err, backend.ErrUnavailable):
		return "Section data is temporarily unavailable"
	case errors.Is(err, backend.ErrUnexpectedStatus),
		errors.Is(err, coursecard.ErrFetchFailed):
		return "Failed to load sections"
	case errors.Is(err, domain.ErrUnknownSortType):
		return "Unknown sort type"
	case errors.Is(err, term.ErrInvalidTerm):
		return "Invalid term"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into a user-friendly
// message naming the first offending field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := strings.ToLower(verrs[0].Field())
		return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(verrs[0].Tag()))
	}

	var domainErr *domain.ValidationError
	if errors.As(err, &domainErr) {
		return fmt.Sprintf("Invalid %s", domainErr.Field)
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "len", "numeric":
		return "must be a six-digit term code"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "gte":
		return "must not be negative"
	default:
		return "validation failed"
	}
}
