package router

import (
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	ctrl "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/controllers/admin"
	mw "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/middlewares"
	"github.com/go-chi/chi/v5"
)

type AdminRouterDeps struct {
	Controllers *ctrl.Controllers
	Resolver    mw.SessionResolver
}

// RegisterAdminRoutes registra /v1/admin/*. Solo administrador.
func RegisterAdminRoutes(r chi.Router, deps AdminRouterDeps) {
	c := deps.Controllers
	admin := mw.RequireRoles(deps.Resolver, access.RoleAdministrador)

	r.With(mw.FunctionCORS(), mw.Guard(mw.GuardConfig{
		Resolver:  deps.Resolver,
		Roles:     []access.Role{access.RoleAdministrador},
		FlatError: true,
	})).HandleFunc("/v1/admin/logs", c.Logs.Latest)

	r.Group(func(g chi.Router) {
		g.Use(admin)
		g.Get("/v1/admin/users", c.Users.List)
		g.Post("/v1/admin/users", c.Users.Create)
		g.Put("/v1/admin/users/{id}/role", c.Users.SetRole)
		g.Post("/v1/admin/users/{id}/toggle-active", c.Users.ToggleActive)
	})
}
