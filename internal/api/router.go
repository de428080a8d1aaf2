// Package api wires the HTTP surface: router, middleware, and handlers.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/insighthq/insightd/internal/api/handler"
	"github.com/insighthq/insightd/internal/api/middleware"
	"github.com/insighthq/insightd/internal/cache"
	"github.com/insighthq/insightd/internal/store"
)

// Deps carries everything the router needs.
type Deps struct {
	Store           store.Store
	Cache           cache.Cache
	RunService      handler.RunService
	RateLimitPerMin int
}

// NewRouter builds the chi router with the full middleware stack.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)

	healthHandler := handler.NewHealthHandler(d.Store, d.Cache)
	analyzeHandler := handler.NewAnalyzeHandler(d.RunService)
	runsHandler := handler.NewRunsHandler(d.RunService)
	keysHandler := handler.NewKeysHandler(d.Store)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(d.Store))
			r.Use(middleware.RateLimit(d.Cache, d.RateLimitPerMin))

			r.Post("/analyze", analyzeHandler.Analyze)
			r.Get("/runs", runsHandler.List)
			r.Get("/runs/{runID}", runsHandler.Get)
			r.Get("/runs/{runID}/report", runsHandler.Report)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireScope("admin"))
				r.Post("/keys", keysHandler.Create)
				r.Get("/keys", keysHandler.List)
				r.Delete("/keys/{keyID}", keysHandler.Revoke)
			})
		})
	})

	return r
}
