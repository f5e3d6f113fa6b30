// Package api serves decoded journal export entries over HTTP, in the
// spirit of systemd-journal-gatewayd: a read-only gateway over a fixed
// set of export files, with the same unit/since/until/lines filters as
// the CLI.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server holds the gateway state
type Server struct {
	config  ServerConfig
	metrics *Metrics
	logger  *zap.Logger
}

// NewServer creates a new gateway server
func NewServer(config ServerConfig, metrics *Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// Routes builds the router with all endpoints configured. reg backs
// the /metrics endpoint and must be the registry the server's Metrics
// were created on.
func (s *Server) Routes(reg *prometheus.Registry) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		if s.config.APIKey != "" {
			r.Use(apiKeyMiddleware(s.config.APIKey))
		}

		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))
		r.Get("/entries", s.metrics.InstrumentHandler("GET", "/api/v1/entries", s.handleEntries))

		// not instrumented: the upgrade needs the raw ResponseWriter's
		// Hijacker
		r.Get("/entries/ws", s.handleEntriesWS)
	})

	return r
}

// Start runs the gateway until the listener fails.
func Start(config ServerConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	server := NewServer(config, NewMetrics(reg), logger)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	logger.Info("starting journal gateway",
		zap.String("addr", addr),
		zap.Strings("files", config.Files),
	)
	return http.ListenAndServe(addr, server.Routes(reg))
}
