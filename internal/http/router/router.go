// Package router arma el árbol de rutas HTTP sobre chi.
//
// Cada dominio registra sus rutas en su propio archivo ({dominio}_routes.go)
// con un struct XRouterDeps, igual que los controllers y services.
package router

import (
	"net/http"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/controllers"
	httperrors "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/errors"
	mw "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/middlewares"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/rate"
	"github.com/go-chi/chi/v5"
)

// Paths con política CORS propia (handlers tipo función). WithCORS no los toca.
var functionPaths = []string{
	"/v1/auth/2fa/verify",
	"/v1/payments/simulate",
	"/v1/receipts/email",
	"/v1/admin/logs",
}

// Deps contiene todo lo necesario para construir el router.
type Deps struct {
	Controllers *controllers.Controllers
	Resolver    mw.SessionResolver

	// Limiters por IP. nil = sin límite.
	LoginLimiter     rate.Limiter // login y emisión de sesión
	TwoFactorLimiter rate.Limiter // verificación 2FA

	CORSOrigins []string
	Metrics     http.Handler // nil = sin /metrics
}

// New construye el handler raíz.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	// CORS va en la raíz: chi no corre middlewares de grupo en un preflight
	// sin ruta OPTIONS.
	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithCORS(d.CORSOrigins, functionPaths...),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	// Infra: sin logging ni headers de seguridad.
	RegisterHealthRoutes(r, HealthRouterDeps{Controllers: d.Controllers.Health})
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Group(func(api chi.Router) {
		api.Use(
			mw.WithSecurityHeaders(),
			mw.WithLogging(),
		)

		RegisterAuthRoutes(api, AuthRouterDeps{
			Controllers:      d.Controllers.Auth,
			Resolver:         d.Resolver,
			LoginLimiter:     d.LoginLimiter,
			TwoFactorLimiter: d.TwoFactorLimiter,
		})
		RegisterAccessRoutes(api, AccessRouterDeps{
			Controllers: d.Controllers.Access,
			Resolver:    d.Resolver,
		})
		RegisterOrdersRoutes(api, OrdersRouterDeps{
			Controllers: d.Controllers.Orders,
			Resolver:    d.Resolver,
		})
		RegisterInventoryRoutes(api, InventoryRouterDeps{
			Controllers: d.Controllers.Inventory,
			Resolver:    d.Resolver,
		})
		RegisterSalesRoutes(api, SalesRouterDeps{
			Controllers: d.Controllers.Sales,
			Resolver:    d.Resolver,
		})
		RegisterAdminRoutes(api, AdminRouterDeps{
			Controllers: d.Controllers.Admin,
			Resolver:    d.Resolver,
		})
	})

	return r
}
