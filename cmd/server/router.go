package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/sift-api/internal/api"
	apiMiddleware "github.com/phrazzld/sift-api/internal/api/middleware"
)

// setupRouter configures all routes and middleware over the application's
// assembled components.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	submissionHandler := api.NewSubmissionHandler(app.submission)
	contentHandler := api.NewContentHandler(app.fetcher)
	healthHandler := api.NewHealthHandler(app.cache)
	wsHandler := api.NewWebSocketHandler(app.registry, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/submit", submissionHandler.SubmitURLs)
		r.Get("/content", contentHandler.GetContent)
		r.Get("/health", healthHandler.Check)
	})

	r.Get("/ws/{request_id}", wsHandler.Subscribe)

	return r
}
