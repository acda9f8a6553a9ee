package api

import (
	"log/slog"
	"net/http"

	"github.com/autoscheduler/autoscheduler/internal/api/shared"
	"github.com/autoscheduler/autoscheduler/internal/coursecard"
	"github.com/autoscheduler/autoscheduler/internal/domain"
	"github.com/autoscheduler/autoscheduler/internal/domain/sorting"
	"github.com/autoscheduler/autoscheduler/internal/platform/logger"
)

// CourseCardHandler exposes a session's course card store over HTTP.
type CourseCardHandler struct {
	registry *coursecard.Registry
	logger   *slog.Logger
}

// NewCourseCardHandler creates a new CourseCardHandler
func NewCourseCardHandler(registry *coursecard.Registry, logger *slog.Logger) *CourseCardHandler {
	if registry == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("registry cannot be nil for CourseCardHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CourseCardHandler")
	}
	return &CourseCardHandler{
		registry: registry,
		logger:   logger.With(slog.String("component", "course_card_handler")),
	}
}

func (h *CourseCardHandler) storeFor(r *http.Request) *coursecard.Store {
	return h.registry.Get(shared.GetSessionID(r.Context()))
}

// ListCourseCards handles GET /api/course_cards.
func (h *CourseCardHandler) ListCourseCards(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, newCourseCardsResponse(h.storeFor(r).Snapshot()))
}

// AddCourseCard handles POST /api/course_cards. The optional body holds
// initial card settings; the new card never triggers a fetch.
func (h *CourseCardHandler) AddCourseCard(w http.ResponseWriter, r *http.Request) {
	var req AddCourseCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	index := h.storeFor(r).AddCourseCard(&req.CourseCardUpdate)
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("added course card", slog.Int("index", index))
	shared.RespondWithJSON(w, r, http.StatusCreated, AddCourseCardResponse{Index: index})
}

// ClearCourseCards handles DELETE /api/course_cards.
func (h *CourseCardHandler) ClearCourseCards(w http.ResponseWriter, r *http.Request) {
	store := h.storeFor(r)
	store.ClearCourseCards()
	shared.RespondWithJSON(w, r, http.StatusOK, newCourseCardsResponse(store.Snapshot()))
}

// ReplaceCourseCards handles PUT /api/course_cards. Cards come back
// immediately; those with a course are still loading.
func (h *CourseCardHandler) ReplaceCourseCards(w http.ResponseWriter, r *http.Request) {
	var req ReplaceCourseCardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		respondWithValidationError(w, r, err)
		return
	}

	code := req.Term
	if code == "" {
		var err error
		if code, err = termForRequest(r); err != nil {
			handleAPIError(w, r, err, "")
			return
		}
	}

	store := h.storeFor(r)
	store.ReplaceCourseCards(r.Context(), req.Cards, code)
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("replaced course cards",
		slog.Int("card_count", len(req.Cards)),
		slog.String("term", code))
	shared.RespondWithJSON(w, r, http.StatusAccepted, newCourseCardsResponse(store.Snapshot()))
}

// SerializeCourseCards handles GET /api/course_cards/serialized.
func (h *CourseCardHandler) SerializeCourseCards(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, coursecard.SerializeCourseCards(h.storeFor(r).Snapshot()))
}

// GetCourseCard handles GET /api/course_cards/{index}.
func (h *CourseCardHandler) GetCourseCard(w http.ResponseWriter, r *http.Request) {
	index, err := getPathIndex(r)
	if err != nil {
		respondWithValidationError(w, r, err)
		return
	}

	card, err := h.storeFor(r).Card(index)
	if err != nil {
		handleAPIError(w, r, err, "Failed to get course card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CourseCardResponse{Index: index, CourseCardOptions: &card})
}

// UpdateCourseCard handles PATCH /api/course_cards/{index}. A change to
// the course or a filter re-fetches sections for the request's term.
func (h *CourseCardHandler) UpdateCourseCard(w http.ResponseWriter, r *http.Request) {
	index, err := getPathIndex(r)
	if err != nil {
		respondWithValidationError(w, r, err)
		return
	}

	var req UpdateCourseCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		respondWithValidationError(w, r, err)
		return
	}

	code, err := termForRequest(r)
	if err != nil {
		handleAPIError(w, r, err, "")
		return
	}

	store := h.storeFor(r)
	if err := store.UpdateCourseCard(r.Context(), index, req.CourseCardUpdate, code); err != nil {
		handleAPIError(w, r, err, "Failed to update course card")
		return
	}
	if req.SelectedCRNs != nil {
		if err := store.SelectSections(index, req.SelectedCRNs); err != nil {
			handleAPIError(w, r, err, "Failed to update course card")
			return
		}
	}

	card, err := store.Card(index)
	if err != nil {
		handleAPIError(w, r, err, "Failed to update course card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CourseCardResponse{Index: index, CourseCardOptions: &card})
}

// RemoveCourseCard handles DELETE /api/course_cards/{index}.
func (h *CourseCardHandler) RemoveCourseCard(w http.ResponseWriter, r *http.Request) {
	index, err := getPathIndex(r)
	if err != nil {
		respondWithValidationError(w, r, err)
		return
	}

	if err := h.storeFor(r).RemoveCourseCard(index); err != nil {
		handleAPIError(w, r, err, "Failed to remove course card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSortType handles PUT /api/course_cards/{index}/sort.
func (h *CourseCardHandler) UpdateSortType(w http.ResponseWriter, r *http.Request) {
	index, err := getPathIndex(r)
	if err != nil {
		respondWithValidationError(w, r, err)
		return
	}

	var req SortRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		respondWithValidationError(w, r, err)
		return
	}

	sortType, err := domain.ParseSortType(req.SortType)
	if err != nil {
		handleAPIError(w, r, err, "")
		return
	}
	ascending := domain.DefaultSortDirection(sortType)
	if req.SortDirection != nil {
		ascending = *req.SortDirection
	}

	store := h.storeFor(r)
	if err := store.UpdateSortType(index, sortType, ascending); err != nil {
		handleAPIError(w, r, err, "Failed to sort course card")
		return
	}

	card, err := store.Card(index)
	if err != nil {
		handleAPIError(w, r, err, "Failed to sort course card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CourseCardResponse{Index: index, CourseCardOptions: &card})
}

// GetGroupedSections handles GET /api/course_cards/{index}/grouped.
func (h *CourseCardHandler) GetGroupedSections(w http.ResponseWriter, r *http.Request) {
	index, err := getPathIndex(r)
	if err != nil {
		respondWithValidationError(w, r, err)
		return
	}

	card, err := h.storeFor(r).Card(index)
	if err != nil {
		handleAPIError(w, r, err, "Failed to get course card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, GroupedSectionsResponse{
		Index:  index,
		Groups: sorting.GroupByInstructor(card.Sections),
	})
}
