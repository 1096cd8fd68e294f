package router

import (
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	ctrl "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/controllers/orders"
	mw "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/middlewares"
	"github.com/go-chi/chi/v5"
)

type OrdersRouterDeps struct {
	Controllers *ctrl.Controllers
	Resolver    mw.SessionResolver
}

func RegisterOrdersRoutes(r chi.Router, deps OrdersRouterDeps) {
	c := deps.Controllers.Orders

	staff := mw.RequireRoles(deps.Resolver, access.RoleAdministrador, access.RoleTecnico, access.RoleVentas)
	r.With(staff).Post("/v1/orders", c.Create)
	r.With(staff).Get("/v1/orders", c.List)
	r.With(staff).Get("/v1/orders/{id}", c.Get)

	r.With(mw.RequireRoles(deps.Resolver, access.RoleTecnico, access.RoleAdministrador)).
		Patch("/v1/orders/{id}/status", c.UpdateStatus)
	r.With(mw.RequireRoles(deps.Resolver, access.RoleAdministrador)).
		Patch("/v1/orders/{id}/technician", c.Assign)
}
