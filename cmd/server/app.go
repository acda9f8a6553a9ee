package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/autoscheduler/autoscheduler/internal/config"
	"github.com/autoscheduler/autoscheduler/internal/coursecard"
	"github.com/autoscheduler/autoscheduler/internal/events"
	"github.com/autoscheduler/autoscheduler/internal/metrics"
	"github.com/autoscheduler/autoscheduler/internal/platform/backend"
	"github.com/autoscheduler/autoscheduler/internal/platform/postgres"
	"github.com/autoscheduler/autoscheduler/internal/store"
	"github.com/autoscheduler/autoscheduler/internal/term"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
)

// catalogSource is what the card stores and the term endpoint read
// section data from.
type catalogSource interface {
	coursecard.SectionFetcher
	term.Source
}

// application holds the shared application dependencies and owns their
// cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	metricsRegistry *prometheus.Registry
	httpMetrics     *metrics.HTTPMetrics

	catalog      catalogSource
	savedCourses store.SavedCourseStore
	eventEmitter *events.InMemoryEventEmitter
	registry     *coursecard.Registry
}

// newApplication creates the application with all dependencies wired. db
// may be nil, in which case the catalog must come from the HTTP backend
// and saved courses live in memory.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:          cfg,
		logger:          logger,
		db:              db,
		metricsRegistry: metrics.NewRegistry(),
	}
	app.httpMetrics = metrics.NewHTTPMetrics(app.metricsRegistry)

	switch cfg.Backend.Source {
	case config.SourcePostgres:
		if db == nil {
			return nil, fmt.Errorf("backend source %q needs a database", cfg.Backend.Source)
		}
		app.catalog = postgres.NewPostgresCatalogStore(db, logger)
	default:
		client, err := backend.NewClient(cfg.Backend, metrics.NewBackendMetrics(app.metricsRegistry), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create backend client: %w", err)
		}
		app.catalog = client
	}
	logger.Info("Catalog source initialized", "source", cfg.Backend.Source)

	if db != nil {
		app.savedCourses = postgres.NewPostgresSavedCourseStore(db, logger)
	} else {
		app.savedCourses = store.NewMemorySavedCourseStore()
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(metrics.NewCardMetrics(app.metricsRegistry))

	app.registry = coursecard.NewRegistry(
		app.newCourseCardStore,
		cfg.Store.MaxSessions,
		cfg.Store.SessionTTL,
		clockwork.NewRealClock(),
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// newCourseCardStore builds the card store for a new session.
func (app *application) newCourseCardStore(sessionID string) *coursecard.Store {
	return coursecard.NewStore(app.catalog,
		coursecard.WithEmitter(app.eventEmitter),
		coursecard.WithLogger(app.logger.With("session_id", sessionID)),
		coursecard.WithReplaceConcurrency(app.config.Store.ReplaceConcurrency),
	)
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()
	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup waits for in-flight section fetches and closes the database.
func (app *application) cleanup() {
	if app.registry != nil {
		app.registry.Wait()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
}
