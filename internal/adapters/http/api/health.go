package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/westcairo/scoreboard/pkg/metrics"
)

// HealthHandler serves liveness and metrics endpoints.
type HealthHandler struct {
	metricsHandler http.Handler
}

// NewHealthHandler creates a health handler backed by the process registry.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		metricsHandler: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth reports service liveness.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleMetrics exposes Prometheus metrics.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.metricsHandler.ServeHTTP(w, r)
}
