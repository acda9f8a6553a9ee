package api

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/autoscheduler/autoscheduler/internal/api/shared"
	"github.com/autoscheduler/autoscheduler/internal/coursecard"
	"github.com/autoscheduler/autoscheduler/internal/domain"
	"github.com/autoscheduler/autoscheduler/internal/platform/logger"
	"github.com/autoscheduler/autoscheduler/internal/store"
	"github.com/autoscheduler/autoscheduler/internal/term"
)

// Layout variants for the page test.
const (
	LayoutSingle = "single"
	LayoutMulti  = "multi"
)

// SessionHandler serves per-session state: the last selected term, the
// layout variant and saved course cards.
type SessionHandler struct {
	saved    store.SavedCourseStore
	registry *coursecard.Registry
	logger   *slog.Logger

	// chooseLayout picks a layout for sessions that have none yet.
	chooseLayout func() string
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(
	saved store.SavedCourseStore,
	registry *coursecard.Registry,
	logger *slog.Logger,
) *SessionHandler {
	if saved == nil || registry == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("saved course store and registry cannot be nil for SessionHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}
	return &SessionHandler{
		saved:        saved,
		registry:     registry,
		logger:       logger.With(slog.String("component", "session_handler")),
		chooseLayout: randomLayout,
	}
}

func randomLayout() string {
	if rand.IntN(2) == 0 {
		return LayoutSingle
	}
	return LayoutMulti
}

// SetLastTerm handles PUT /sessions/set_last_term?term=.
func (h *SessionHandler) SetLastTerm(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("term")
	if _, err := term.Parse(code); err != nil {
		handleAPIError(w, r, err, "")
		return
	}

	sess, ok := shared.GetSession(r.Context())
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Session unavailable",
			errors.New("no session in request context"))
		return
	}
	sess.Values[shared.LastTermValue] = code
	if err := saveSession(w, r); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to save session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetLastTerm handles GET /sessions/get_last_term. Term is empty when the
// session never picked one.
func (h *SessionHandler) GetLastTerm(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, LastTermResponse{
		Term: shared.SessionString(r.Context(), shared.LastTermValue),
	})
}

// GetPageTest handles GET /sessions/page_test. A session keeps the layout
// it was first assigned.
func (h *SessionHandler) GetPageTest(w http.ResponseWriter, r *http.Request) {
	layout := shared.SessionString(r.Context(), shared.PageTestValue)
	if layout == "" {
		sess, ok := shared.GetSession(r.Context())
		if !ok {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Session unavailable",
				errors.New("no session in request context"))
			return
		}
		layout = h.chooseLayout()
		sess.Values[shared.PageTestValue] = layout
		if err := saveSession(w, r); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to save session", err)
			return
		}
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("assigned page layout", slog.String("layout", layout))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, PageTestResponse{Layout: layout})
}

// SaveCourses handles PUT /sessions/save_courses. Without cards in the
// body the session's current cards are saved. The term defaults to the
// session's last term.
func (h *SessionHandler) SaveCourses(w http.ResponseWriter, r *http.Request) {
	var req SaveCoursesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	code := req.Term
	if code == "" {
		code = shared.SessionString(r.Context(), shared.LastTermValue)
	}
	if _, err := term.Parse(code); err != nil {
		handleAPIError(w, r, err, "")
		return
	}

	sessionID := shared.GetSessionID(r.Context())
	cards := req.Cards
	if cards == nil {
		cards = coursecard.SerializeCourseCards(h.registry.Get(sessionID).Snapshot())
	}

	if err := h.saved.Save(r.Context(), sessionID, code, cards); err != nil {
		handleAPIError(w, r, err, "Failed to save courses")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("saved courses",
		slog.String("term", code),
		slog.Int("card_count", len(cards)))
	w.WriteHeader(http.StatusNoContent)
}

// GetSavedCourses handles GET /sessions/get_saved_courses?term=. With
// restore=true the saved cards also replace the session's current cards.
func (h *SessionHandler) GetSavedCourses(w http.ResponseWriter, r *http.Request) {
	code, err := termForRequest(r)
	if err != nil {
		handleAPIError(w, r, err, "")
		return
	}
	if code == "" {
		respondWithValidationError(w, r, &domain.ValidationError{Entity: "SavedCourses", Field: "term", Reason: "is required"})
		return
	}

	restore := false
	if raw := r.URL.Query().Get("restore"); raw != "" {
		if restore, err = strconv.ParseBool(raw); err != nil {
			respondWithValidationError(w, r, &domain.ValidationError{Entity: "SavedCourses", Field: "restore", Reason: "must be a boolean"})
			return
		}
	}

	sessionID := shared.GetSessionID(r.Context())
	cards, err := h.saved.Get(r.Context(), sessionID, code)
	switch {
	case errors.Is(err, store.ErrSavedCoursesNotFound):
		cards = []domain.SerializedCourseCardOptions{}
	case err != nil:
		handleAPIError(w, r, err, "Failed to load saved courses")
		return
	}

	if restore {
		h.registry.Get(sessionID).ReplaceCourseCards(r.Context(), cards, code)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SavedCoursesResponse{Term: code, Cards: cards})
}
