// Package server exposes the toolkit over HTTP: drawings are uploaded as
// multipart form files, diffed in memory, and the result is streamed back.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/joho/godotenv"

	"dxf-toolkit/internal/history"
)

// Config holds server settings, loaded from the environment.
type Config struct {
	Port      string
	HistoryDB string
}

// LoadConfig reads server settings from .env (when present) and the
// environment.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:      os.Getenv("DXFTOOL_PORT"),
		HistoryDB: os.Getenv("DXFTOOL_HISTORY_DB"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.HistoryDB == "" {
		cfg.HistoryDB = "dxftool-history.db"
	}
	return cfg
}

// Server is the toolkit's HTTP front end.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	runs       *history.Store
}

// New assembles the router and its middleware stack.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	runs, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return nil, err
	}

	h := &handlers{logger: logger, runs: runs}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:             slog.LevelDebug,
		Schema:            httplog.SchemaECS.Concise(true),
		LogRequestHeaders: []string{},
	}))

	r.Get("/healthz", h.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/diff", h.geometricDiff)
		r.Post("/diff/summary", h.diffSummary)
		r.Post("/label-diff", h.labelDiff)
		r.Post("/labels", h.extractLabels)
		r.Post("/structure", h.structureDump)
		r.Get("/history", h.listHistory)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      r,
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		runs:   runs,
	}, nil
}

// Start runs the server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully and closes the history store.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	err := s.httpServer.Shutdown(ctx)
	if cerr := s.runs.Close(); err == nil {
		err = cerr
	}
	return err
}
