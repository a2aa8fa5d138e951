package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	registry ports.HealthRegistry
	info     dto.ServiceInfo
}

// NewHealthHandler returns a HealthHandler reporting info and the checks in
// registry.
func NewHealthHandler(registry ports.HealthRegistry, info dto.ServiceInfo) *HealthHandler {
	return &HealthHandler{registry: registry, info: info}
}

// Liveness handles GET /health/live. The process answering is the check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, dto.HealthResponse{Status: dto.HealthUp, Service: h.info})
}

// Readiness handles GET /health/ready: 200 when every store component is
// up, otherwise 503 with the failing components' errors.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	resp, ready := dto.ToReadinessResponse(h.info, h.registry.CheckAll(r.Context()))

	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}
	respond(w, r, code, resp)
}
