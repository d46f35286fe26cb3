package http_handlers

import (
	"context"
	"maps"
	"net/http"
	"slices"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/transport/http/response"
)

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Check
}

// NewHealthHandler takes the readiness checks by dependency name
// ("postgres", "redis"). Memory-backed deployments pass none.
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Healthz handles GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.Health(w, http.StatusOK, response.HealthBody{Status: "ok"})
}

// Readyz handles GET /readyz. Checks run in name order; the first failure is reported.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	for _, name := range slices.Sorted(maps.Keys(h.checks)) {
		check := h.checks[name]
		if check == nil {
			continue
		}
		if err := check(r.Context()); err != nil {
			logger.WithCtx(r.Context()).Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
			response.Health(w, http.StatusServiceUnavailable, response.HealthBody{
				Status: "unavailable",
				Error:  name + " unavailable",
			})
			return
		}
	}

	response.Health(w, http.StatusOK, response.HealthBody{Status: "ready"})
}
