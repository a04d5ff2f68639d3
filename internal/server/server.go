package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/textlens/textlens/internal/db"
	"github.com/textlens/textlens/internal/detector"
	"github.com/textlens/textlens/internal/metrics"
)

// Config holds server configuration.
type Config struct {
	Port     int
	DataDir  string // directory for the SQLite history database
	AllowAll bool   // allow all CORS origins (dev mode)
}

// Server hosts the dashboard and the API used by the browser extension.
type Server struct {
	cfg        Config
	db         *db.DB
	detector   detector.Detector
	metrics    *metrics.Metrics
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. database and m may be nil.
func New(cfg Config, database *db.DB, det detector.Detector, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:      cfg,
		db:       database,
		detector: det,
		metrics:  m,
	}

	s.router = s.buildRouter()
	return s
}

// extensionOrigins are the origins browser extensions send requests from.
var extensionOrigins = []string{
	"http://localhost:*",
	"http://127.0.0.1:*",
	"chrome-extension://*",
	"moz-extension://*",
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins: extensionOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	// Feature routes are registered by their packages via RegisterRoutes.
	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Database returns the database connection.
func (s *Server) Database() *db.DB { return s.db }

// Detector returns the detection client.
func (s *Server) Detector() detector.Detector { return s.detector }

// Metrics returns the metrics registry wrapper.
func (s *Server) Metrics() *metrics.Metrics { return s.metrics }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("textlens server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
