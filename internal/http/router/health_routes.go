package router

import (
	ctrl "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/controllers/health"
	"github.com/go-chi/chi/v5"
)

type HealthRouterDeps struct {
	Controllers *ctrl.Controllers
}

// RegisterHealthRoutes registra /healthz y /readyz. Públicos, sin auth.
func RegisterHealthRoutes(r chi.Router, deps HealthRouterDeps) {
	c := deps.Controllers
	r.HandleFunc("/healthz", c.Health.Healthz)
	r.HandleFunc("/readyz", c.Health.Readyz)
}
