package api

import (
	"log/slog"
	"net/http"

	"github.com/autoscheduler/autoscheduler/internal/api/shared"
	"github.com/autoscheduler/autoscheduler/internal/platform/logger"
	"github.com/autoscheduler/autoscheduler/internal/term"
)

// TermHandler serves the list of terms the catalog knows about.
type TermHandler struct {
	source term.Source
	logger *slog.Logger
}

// NewTermHandler creates a new TermHandler
func NewTermHandler(source term.Source, logger *slog.Logger) *TermHandler {
	if source == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("term source cannot be nil for TermHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TermHandler")
	}
	return &TermHandler{
		source: source,
		logger: logger.With(slog.String("component", "term_handler")),
	}
}

// ListTerms handles GET /api/terms. The response maps each term's
// description to its code.
func (h *TermHandler) ListTerms(w http.ResponseWriter, r *http.Request) {
	terms, err := h.source.FetchTerms(r.Context())
	if err != nil {
		handleAPIError(w, r, err, "Failed to list terms")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("listed terms", slog.Int("term_count", len(terms)))
	shared.RespondWithJSON(w, r, http.StatusOK, terms)
}
