// Package server serves the estimator pages and the percentage API.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"grade-estimator/internal/grades"
	"grade-estimator/web"
)

// Server is the estimator HTTP server. It only reads the distribution it
// was created with.
type Server struct {
	httpServer *http.Server
	dist       *grades.Distribution
	summary    grades.Summary
	pages      *template.Template
	logger     *slog.Logger
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 0.0.0.0)
	Host string
	// Port is the port to listen on (default: 5000)
	Port string
	// Distribution answers all percentage queries
	Distribution *grades.Distribution
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Distribution == nil {
		return nil, errors.New("server: distribution is required")
	}
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "5000"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	pages, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		dist:    cfg.Distribution,
		summary: grades.Describe(cfg.Distribution),
		pages:   pages,
		logger:  cfg.Logger,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.recoverPanics(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr,
			"students", s.dist.Total(), "sources", s.dist.Sources())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// recoverPanics turns a panicking handler into a generic failure response.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				s.logger.Error("API processing failed", "path", r.URL.Path, "panic", p)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{
					Message:    "Server encountered an internal error.",
					Status:     StatusError,
					Percentage: new(int),
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
