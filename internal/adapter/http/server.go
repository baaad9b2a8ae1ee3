package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WidgetRunner renders one widget report. Implemented by the pipelines.
type WidgetRunner interface {
	Run(ctx context.Context) ([]string, error)
}

// Server exposes the rendered widget reports as plain text, plus health,
// readiness, and metrics endpoints. Thin menu-bar plugins curl the widget
// routes instead of talking to the upstream APIs themselves.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	ready      atomic.Bool
}

// Widgets maps each widget route to its runner. A nil runner disables
// the route (the corresponding config section is incomplete).
type Widgets struct {
	Tickets        WidgetRunner
	Weather        WidgetRunner
	PendingPRs     WidgetRunner
	ReviewRequests WidgetRunner
}

// FailureRenderers maps each widget to its replacement error report.
type FailureRenderers struct {
	Tickets        func(error) []string
	Weather        func(error) []string
	PendingPRs     func(error) []string
	ReviewRequests func(error) []string
}

// NewServer creates the widgetd HTTP server.
func NewServer(addr string, widgets Widgets, failures FailureRenderers, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	if widgets.Tickets != nil {
		mux.HandleFunc("GET /widget/tickets", s.handleWidget("tickets", widgets.Tickets, failures.Tickets))
	}
	if widgets.Weather != nil {
		mux.HandleFunc("GET /widget/weather", s.handleWidget("weather", widgets.Weather, failures.Weather))
	}
	if widgets.PendingPRs != nil {
		mux.HandleFunc("GET /widget/pending-prs", s.handleWidget("pending_prs", widgets.PendingPRs, failures.PendingPRs))
	}
	if widgets.ReviewRequests != nil {
		mux.HandleFunc("GET /widget/review-requests", s.handleWidget("review_requests", widgets.ReviewRequests, failures.ReviewRequests))
	}
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleWidget renders the widget per request. On failure the response
// body is the widget's full failure report — the plugin always gets a
// complete, displayable document, never half a report plus an error line.
func (s *Server) handleWidget(name string, runner WidgetRunner, failure func(error) []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lines, err := runner.Run(r.Context())
		if err != nil {
			s.logger.Error("widget run failed", "widget", name, "error", err)
			writeLines(w, http.StatusBadGateway, failure(err))
			return
		}
		s.ready.Store(true)
		writeLines(w, http.StatusOK, lines)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady reports ready once any widget has rendered successfully.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeLines(w http.ResponseWriter, status int, lines []string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(strings.Join(lines, "\n") + "\n"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}
