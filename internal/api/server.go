// Package api wires the relay's HTTP surface: the Slack webhook
// endpoints, health, and Prometheus metrics.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// SlackHooks is the inbound webhook surface the server mounts.
type SlackHooks interface {
	HandleCommand(w http.ResponseWriter, r *http.Request)
	HandleInteraction(w http.ResponseWriter, r *http.Request)
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Server is the bug-bot HTTP server.
type Server struct {
	cfg    Config
	logger *slog.Logger
	srv    *http.Server
}

// NewServer creates the server. metricsHandler serves GET /metrics and may
// be nil to disable the endpoint.
func NewServer(hooks SlackHooks, metricsHandler http.Handler, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /commands", hooks.HandleCommand)
	mux.HandleFunc("POST /interactive-component", hooks.HandleInteraction)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	s.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start begins listening. Blocks until context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(shutCtx)
	}()

	s.logger.Info("server starting", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// Handler returns the underlying http.Handler for testing.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "bug-bot is running. Point your Slack app's request URLs at /commands and /interactive-component.")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
