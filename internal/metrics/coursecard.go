package metrics

import (
	"context"

	"github.com/autoscheduler/autoscheduler/internal/events"
	"github.com/prometheus/client_golang/prometheus"
)

// Fetch results recorded by CardMetrics.
const (
	FetchResultCommitted = "committed"
	FetchResultStale     = "stale"
	FetchResultFailed    = "failed"
)

// CardMetrics counts course card intents and section fetch outcomes.
// It consumes store events, so it is registered as an events.EventHandler.
type CardMetrics struct {
	Intents       *prometheus.CounterVec
	FetchResults  *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	FetchesActive prometheus.Gauge
}

var _ events.EventHandler = (*CardMetrics)(nil)

// NewCardMetrics creates and registers course card metrics on the given registry.
func NewCardMetrics(reg prometheus.Registerer) *CardMetrics {
	m := &CardMetrics{
		Intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coursecard",
			Name:      "intents_total",
			Help:      "Total number of course card intents applied, by event type.",
		}, []string{"type"}),
		FetchResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coursecard",
			Name:      "fetch_results_total",
			Help:      "Section fetch outcomes, by result.",
		}, []string{"result"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "coursecard",
			Name:      "fetch_duration_seconds",
			Help:      "Time from fetch start to commit, discard or failure.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"result"}),
		FetchesActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "coursecard",
			Name:      "fetches_in_flight",
			Help:      "Number of section fetches that have not resolved yet.",
		}),
	}

	reg.MustRegister(m.Intents, m.FetchResults, m.FetchDuration, m.FetchesActive)
	return m
}

// HandleEvent implements events.EventHandler.
func (m *CardMetrics) HandleEvent(_ context.Context, event *events.CardEvent) error {
	switch event.Type {
	case events.FetchStarted:
		m.FetchesActive.Inc()
		return nil
	case events.SectionsCommitted:
		m.observeFetch(FetchResultCommitted, event)
		return nil
	case events.FetchDiscarded:
		m.observeFetch(FetchResultStale, event)
		return nil
	case events.FetchFailed:
		m.observeFetch(FetchResultFailed, event)
		return nil
	}
	m.Intents.WithLabelValues(string(event.Type)).Inc()
	return nil
}

func (m *CardMetrics) observeFetch(result string, event *events.CardEvent) {
	m.FetchesActive.Dec()
	m.FetchResults.WithLabelValues(result).Inc()
	m.FetchDuration.WithLabelValues(result).Observe(event.Duration.Seconds())
}
