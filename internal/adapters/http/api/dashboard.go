package api

import (
	"net/http"
)

// DashboardHandler serves dashboard statistics.
type DashboardHandler struct {
	deps Dependencies
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(deps Dependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandleGetStats serves GET /dashboard/stats. The caller's role scopes the
// counters; guests are rejected.
func (h *DashboardHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	role := roleFrom(r, h.deps)

	st, err := h.deps.DashboardStats(r.Context(), role)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
