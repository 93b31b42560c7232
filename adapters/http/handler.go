// Package http provides the HTTP surface of the proxy service.
package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/PRATIKUGALE02/youtube-proxy/adapters/metrics"
	"github.com/PRATIKUGALE02/youtube-proxy/app"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handler exposes the aggregation and quota endpoints.
type Handler struct {
	service *app.StatsService
	logger  zerolog.Logger
}

// NewHandler creates the API handler.
func NewHandler(service *app.StatsService, logger zerolog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RouterConfig configures optional surfaces of the router.
type RouterConfig struct {
	Metrics     *metrics.Collector // nil disables the metrics middleware
	MetricsPath string             // default /metrics
	Timeout     time.Duration      // per-request budget (default 60s)
}

// NewRouter builds the chi router with the standard middleware stack.
func NewRouter(h *Handler, logger zerolog.Logger, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(CORS)

	if cfg.Metrics != nil {
		r.Use(NewMetricsMiddleware(cfg.Metrics))

		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, promhttp.Handler())
	}

	r.Get("/health", h.Liveness)
	r.Get("/health/live", h.Liveness)
	r.Get("/health/ready", h.Readiness)

	r.Get("/", h.Root)
	r.Get("/api/channels", h.Channels)
	r.Get("/api/quota", h.Quota)
	r.Get("/api/history", h.History)

	return r
}

// Root returns the service banner and endpoint list.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "YouTube Proxy + Real-Time Quota Tracker",
		"endpoints": []string{"/api/channels", "/api/quota"},
	})
}

// Channels runs the metered aggregation over all tracked channels. One
// upstream failure fails the whole request; there are no partial results.
func (h *Handler) Channels(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Channels(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("aggregation failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch channel data")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"channels": results})
}

// Quota returns the daily quota report.
func (h *Handler) Quota(w http.ResponseWriter, r *http.Request) {
	report := h.service.QuotaReport(r.Context())
	writeJSON(w, http.StatusOK, report)
}

// historyEvent is the wire form of one fetch-log entry.
type historyEvent struct {
	ID        string `json:"id"`
	Channel   string `json:"channel"`
	ChannelID string `json:"channel_id"`
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Timestamp string `json:"timestamp"`
}

// History returns recent upstream fetch events, newest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	events, err := h.service.History(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("history query failed")
		writeError(w, http.StatusInternalServerError, "Failed to load fetch history")
		return
	}

	out := make([]historyEvent, 0, len(events))
	for _, e := range events {
		out = append(out, historyEvent{
			ID:        e.ID,
			Channel:   e.Channel,
			ChannelID: e.ChannelID,
			Status:    e.Status,
			LatencyMs: e.LatencyMs,
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

// Liveness reports that the process is up.
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness reports whether the service has channels to serve.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	report := h.service.QuotaReport(r.Context())
	if len(report.Channels) == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "no channels configured"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// Encode failures past this point mean the client went away; the
	// status line is already on the wire.
	_ = json.NewEncoder(w).Encode(body)
}

// writeError emits the flat {error} body every failure collapses to.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
