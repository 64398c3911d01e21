// Package server exposes live metrics, hardware inventory, and environment
// checks over HTTP. It serves a browser dashboard at /, JSON endpoints
// under /api/, and a WebSocket stream at /ws that fans out snapshots from
// the broadcast hub.
package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"gitlab.com/tinyland/lab/hwpulse/broadcast"
	"gitlab.com/tinyland/lab/hwpulse/metrics"
	"gitlab.com/tinyland/lab/hwpulse/setupcheck"
)

// requestTimeout bounds one-shot probe work behind the JSON endpoints.
const requestTimeout = 10 * time.Second

// MetricsSource supplies on-demand readings for the JSON endpoints.
// probes.SystemProbe satisfies this.
type MetricsSource interface {
	Snapshot(ctx context.Context) metrics.Snapshot
	Inventory(ctx context.Context) metrics.Inventory
}

// Server routes HTTP traffic to the metrics source, the hub, and the
// environment checker.
type Server struct {
	source  MetricsSource
	hub     *broadcast.Hub
	checker *setupcheck.Checker
	logger  *slog.Logger
}

// New creates a Server. If logger is nil, a no-op logger is used.
func New(source MetricsSource, hub *broadcast.Hub, checker *setupcheck.Checker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		source:  source,
		hub:     hub,
		checker: checker,
		logger:  logger,
	}
}

// Handler returns the route table as an http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/api/metrics", s.handleMetrics)
	mux.HandleFunc("/api/inventory", s.handleInventory)
	mux.HandleFunc("/api/setup-check", s.handleSetupCheck)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe runs the HTTP server until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(dashboardHTML))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	writeJSON(w, http.StatusOK, s.source.Snapshot(ctx))
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	writeJSON(w, http.StatusOK, s.source.Inventory(ctx))
}

func (s *Server) handleSetupCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	writeJSON(w, http.StatusOK, s.checker.Run(ctx))
}
