package router

import (
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	ctrl "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/controllers/inventory"
	mw "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/middlewares"
	"github.com/go-chi/chi/v5"
)

type InventoryRouterDeps struct {
	Controllers *ctrl.Controllers
	Resolver    mw.SessionResolver
}

// RegisterInventoryRoutes: escritura para administrador e inventario,
// lectura también para ventas.
func RegisterInventoryRoutes(r chi.Router, deps InventoryRouterDeps) {
	c := deps.Controllers.Products

	write := mw.RequireRoles(deps.Resolver, access.RoleAdministrador, access.RoleInventario)
	read := mw.RequireRoles(deps.Resolver, access.RoleAdministrador, access.RoleInventario, access.RoleVentas)

	r.With(write).Post("/v1/products", c.Create)
	r.With(write).Post("/v1/products/{id}/stock", c.Adjust)
	r.With(read).Get("/v1/products", c.List)
	r.With(read).Get("/v1/products/{id}", c.Get)
}
