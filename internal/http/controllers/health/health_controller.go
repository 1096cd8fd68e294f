// Package health contiene el controller para health checks.
package health

import (
	"net/http"

	httperrors "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/errors"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/helpers"
	svc "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/health"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
)

type Controllers struct {
	Health *HealthController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Health: NewHealthController(s.Health)}
}

// HealthController maneja las rutas de health check.
type HealthController struct {
	service svc.HealthService
}

func NewHealthController(service svc.HealthService) *HealthController {
	return &HealthController{service: service}
}

// Healthz maneja GET /healthz (liveness, no toca dependencias).
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz maneja GET /readyz
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("HealthController.Readyz"))

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	response := c.service.Check(ctx)

	if response.Version != "" {
		w.Header().Set("X-Service-Version", response.Version)
	}
	if response.Commit != "" {
		w.Header().Set("X-Service-Commit", response.Commit)
	}

	statusCode := http.StatusOK
	if response.Status == "unavailable" {
		statusCode = http.StatusServiceUnavailable
	}

	log.Debug("health check completed",
		logger.String("status", response.Status),
		logger.Int("components_count", len(response.Components)),
	)
	helpers.WriteJSON(w, statusCode, response)
}
