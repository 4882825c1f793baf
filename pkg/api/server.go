// Package api exposes decoded telemetry sessions over a REST API.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StartServer starts the HTTP server with all routes configured. It blocks
// until the listener fails.
func StartServer(store ISessionStore, config ServerConfig) error {
	metrics := NewMetrics()
	server := NewServer(store, config, metrics)

	r := NewRouter(server, config, metrics)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	fmt.Printf("Starting cougarlog REST API server on %s\n", addr)
	fmt.Printf("Metrics available at: http://%s/metrics\n", addr)
	return http.ListenAndServe(addr, r)
}

// NewRouter builds the chi router for the given server. Split out of
// StartServer so tests can mount it without a listener.
func NewRouter(server *Server, config ServerConfig, metrics *Metrics) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(config.APIKey, metrics))

		// Health check
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		// Session lifecycle
		r.Post("/logs", metrics.InstrumentHandler("POST", "/api/v1/logs", server.handleUploadLog))
		r.Get("/logs", metrics.InstrumentHandler("GET", "/api/v1/logs", server.handleListLogs))
		r.Get("/logs/{id}", metrics.InstrumentHandler("GET", "/api/v1/logs/{id}", server.handleGetLog))
		r.Delete("/logs/{id}", metrics.InstrumentHandler("DELETE", "/api/v1/logs/{id}", server.handleDeleteLog))

		// Stream data
		r.Get("/logs/{id}/streams", metrics.InstrumentHandler("GET", "/api/v1/logs/{id}/streams", server.handleStreams))
		r.Get("/logs/{id}/samples", metrics.InstrumentHandler("GET", "/api/v1/logs/{id}/samples", server.handleSamples))
		r.Get("/logs/{id}/stats", metrics.InstrumentHandler("GET", "/api/v1/logs/{id}/stats", server.handleStats))
		r.Get("/logs/{id}/export", metrics.InstrumentHandler("GET", "/api/v1/logs/{id}/export", server.handleExport))
	})

	return r
}
