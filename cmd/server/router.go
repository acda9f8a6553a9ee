package main

import (
	"net/http"

	"github.com/autoscheduler/autoscheduler/internal/api"
	apiMiddleware "github.com/autoscheduler/autoscheduler/internal/api/middleware"
	"github.com/autoscheduler/autoscheduler/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter creates the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(app.httpMetrics.Middleware)

	sessionStore := apiMiddleware.NewCookieStore(
		[]byte(app.config.Session.Secret),
		app.config.Session.MaxAge,
		app.config.Session.Secure,
	)

	cardHandler := api.NewCourseCardHandler(app.registry, app.logger)
	termHandler := api.NewTermHandler(app.catalog, app.logger)
	sessionHandler := api.NewSessionHandler(app.savedCourses, app.registry, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/terms", termHandler.ListTerms)

		r.Route("/course_cards", func(r chi.Router) {
			r.Use(apiMiddleware.NewSessionMiddleware(sessionStore))

			r.Get("/", cardHandler.ListCourseCards)
			r.Post("/", cardHandler.AddCourseCard)
			r.Put("/", cardHandler.ReplaceCourseCards)
			r.Delete("/", cardHandler.ClearCourseCards)
			r.Get("/serialized", cardHandler.SerializeCourseCards)

			r.Get("/{index}", cardHandler.GetCourseCard)
			r.Patch("/{index}", cardHandler.UpdateCourseCard)
			r.Delete("/{index}", cardHandler.RemoveCourseCard)
			r.Put("/{index}/sort", cardHandler.UpdateSortType)
			r.Get("/{index}/grouped", cardHandler.GetGroupedSections)
		})
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Use(apiMiddleware.NewSessionMiddleware(sessionStore))

		r.Put("/set_last_term", sessionHandler.SetLastTerm)
		r.Get("/get_last_term", sessionHandler.GetLastTerm)
		r.Get("/page_test", sessionHandler.GetPageTest)
		r.Put("/save_courses", sessionHandler.SaveCourses)
		r.Get("/get_saved_courses", sessionHandler.GetSavedCourses)
	})

	r.Handle("/metrics", metrics.Handler(app.metricsRegistry))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if app.db != nil {
			if err := app.db.PingContext(r.Context()); err != nil {
				app.logger.Error("Health check database ping failed", "error", err)
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
