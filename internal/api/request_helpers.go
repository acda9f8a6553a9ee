package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/autoscheduler/autoscheduler/internal/api/shared"
	"github.com/autoscheduler/autoscheduler/internal/domain"
	"github.com/autoscheduler/autoscheduler/internal/term"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// getPathIndex extracts a card slot index from the URL path.
func getPathIndex(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	if raw == "" {
		return 0, &domain.ValidationError{Entity: "CourseCard", Field: "index", Reason: "is required"}
	}
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, &domain.ValidationError{Entity: "CourseCard", Field: "index", Reason: "must be a non-negative integer"}
	}
	return index, nil
}

// termForRequest returns the "term" query parameter, falling back to the
// term stored in the session. An empty result means no term is known.
func termForRequest(r *http.Request) (string, error) {
	code := r.URL.Query().Get("term")
	if code == "" {
		code = shared.SessionString(r.Context(), shared.LastTermValue)
	}
	if code == "" {
		return "", nil
	}
	if _, err := term.Parse(code); err != nil {
		return "", err
	}
	return code, nil
}

// decodeAndValidate decodes the optional JSON body into v and validates it.
// It writes a 400 response and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeOptionalJSON(r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		respondWithValidationError(w, r, err)
		return false
	}
	return true
}

func respondWithValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	var domainErr *domain.ValidationError
	switch {
	case errors.As(err, &verrs), errors.As(err, &domainErr):
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
	default:
		handleAPIError(w, r, err, "")
	}
}

// handleAPIError maps err to a status code and safe message and writes
// the response. fallback replaces the generic message for 5xx errors.
func handleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// saveSession persists changes to the caller's cookie session.
func saveSession(w http.ResponseWriter, r *http.Request) error {
	sess, ok := shared.GetSession(r.Context())
	if !ok {
		return errors.New("no session in request context")
	}
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}
