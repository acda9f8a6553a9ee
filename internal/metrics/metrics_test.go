package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/autoscheduler/autoscheduler/internal/events"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardMetricsHandleEvent(t *testing.T) {
	t.Parallel()
	m := NewCardMetrics(prometheus.NewRegistry())
	ctx := context.Background()

	emit := func(typ events.EventType) {
		e := events.NewCardEvent(typ, 0)
		e.Duration = 20 * time.Millisecond
		require.NoError(t, m.HandleEvent(ctx, e))
	}

	emit(events.CardAdded)
	emit(events.CardAdded)
	emit(events.CardUpdated)
	emit(events.FetchStarted)
	emit(events.FetchStarted)
	emit(events.FetchStarted)
	emit(events.SectionsCommitted)
	emit(events.FetchDiscarded)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Intents.WithLabelValues("card_added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Intents.WithLabelValues("card_updated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchResults.WithLabelValues(FetchResultCommitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchResults.WithLabelValues(FetchResultStale)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FetchResults.WithLabelValues(FetchResultFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchesActive))
	assert.Equal(t, 2, testutil.CollectAndCount(m.FetchDuration))
}

func TestRegistryServesMetrics(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	NewCardMetrics(reg)
	NewBackendMetrics(reg)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
	assert.Contains(t, rec.Body.String(), "autoscheduler_backend_circuit_breaker_state")
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	t.Parallel()
	m := NewHTTPMetrics(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/coursecards/{index}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/coursecards/7", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.RequestsTotal.WithLabelValues(http.MethodGet, "/api/coursecards/{index}", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestsTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlightGauge))
}
