package http

import (
	"net/http"

	"github.com/go-chi/render"

	"campaignpulse/internal/infrastructure"
)

// MetricsHandler serves the Prometheus scrape endpoint and process statistics
type MetricsHandler struct {
	prometheus http.Handler
	system     *infrastructure.SystemMetrics
}

// NewMetricsHandler creates a new metrics handler. Either argument may be nil.
func NewMetricsHandler(prometheus http.Handler, system *infrastructure.SystemMetrics) *MetricsHandler {
	return &MetricsHandler{prometheus: prometheus, system: system}
}

// GetMetrics handles GET /metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if h.prometheus == nil {
		http.Error(w, "metrics exporter disabled", http.StatusNotFound)
		return
	}
	h.prometheus.ServeHTTP(w, r)
}

// GetSystemStats handles GET /api/metrics/system
func (h *MetricsHandler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	if h.system == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"status": "disabled"})
		return
	}
	render.JSON(w, r, h.system.Collect())
}
