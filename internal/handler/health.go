package handler

import (
	"net/http"

	"meridian/internal/httputil"
)

// HealthHandler reports liveness for load balancers, orchestrators and
// API consumers checking which deployment they're talking to.
type HealthHandler struct {
	projectName string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(projectName string) *HealthHandler {
	return &HealthHandler{projectName: projectName}
}

// HealthCheck reports liveness.
// GET /health, GET /api/v1/healthcheck
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"status":       "ok",
		"project_name": h.projectName,
	})
}
