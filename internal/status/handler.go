// Package status serves the bridge's operator HTTP endpoints.
package status

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"ddnet-bridge/internal/platform/logger"
	"ddnet-bridge/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

// PresetLister enumerates the registered presets.
type PresetLister interface {
	GenerationNames() []string
	MapNames() []string
}

// PresetsResponse is the body of GET /presets.
type PresetsResponse struct {
	Generation []string `json:"generation"`
	Map        []string `json:"map"`
}

// Handler exposes status endpoints using go-chi.
type Handler struct {
	presets PresetLister
	log     *slog.Logger
}

// NewHandler returns a Handler listing the given presets.
func NewHandler(presets PresetLister, log *slog.Logger) *Handler {
	return &Handler{presets: presets, log: log}
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// Presets handles GET /presets.
func (h *Handler) Presets(w http.ResponseWriter, r *http.Request) {
	body := PresetsResponse{
		Generation: h.presets.GenerationNames(),
		Map:        h.presets.MapNames(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("encode presets failed", slog.String("error", err.Error()))
	}
}

// NewRouter wires the status routes. m may be nil, which disables /metrics.
func NewRouter(h *Handler, log *slog.Logger, m *metrics.Metrics) *chi.Mux {
	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(m))
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}
	r.Get("/healthz", h.Healthz)
	r.Get("/presets", h.Presets)
	return r
}
