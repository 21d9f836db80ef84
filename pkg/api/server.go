// Package api implements the development variable service: a REST
// surface over a variable store for hosts without firmware variable
// services of their own. CI jobs and developer machines run it to
// stage overrides, then export a variable list blob for the target.
//
// All /api/v1 routes require the X-API-Key header; /metrics is open
// for scraping.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tmarstad/confknob/pkg/varstore"
)

// NewRouter wires every route, the middleware stack and the metrics
// endpoint for the given server
func NewRouter(server *Server) http.Handler {
	metrics := server.metrics

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", metrics.Handler())

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(server.config.APIKey)))

		// Health check
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		// Variable operations
		r.Get("/vars", metrics.InstrumentHandler("GET", "/api/v1/vars", server.handleListVars))
		r.Get("/vars/{guid}/{name}", metrics.InstrumentHandler("GET", "/api/v1/vars/{guid}/{name}", server.handleGetVar))
		r.Put("/vars/{guid}/{name}", metrics.InstrumentHandler("PUT", "/api/v1/vars/{guid}/{name}", server.handlePutVar))
		r.Delete("/vars/{guid}/{name}", metrics.InstrumentHandler("DELETE", "/api/v1/vars/{guid}/{name}", server.handleDeleteVar))

		// Variable list exchange
		r.Post("/import", metrics.InstrumentHandler("POST", "/api/v1/import", server.handleImport))
		r.Get("/export", metrics.InstrumentHandler("GET", "/api/v1/export", server.handleExport))
	})

	return r
}

// StartServer serves the API over the given store until the listener
// fails or the process exits
func StartServer(store varstore.Store, config ServerConfig) error {
	metrics := NewMetrics(nil)
	server := NewServer(store, config, metrics)
	r := NewRouter(server)

	// Start background metrics updater
	go server.startMetricsUpdater()

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	fmt.Printf("Starting variable service on %s\n", addr)
	fmt.Printf("Metrics available at: http://%s/metrics\n", addr)
	return http.ListenAndServe(addr, r)
}
