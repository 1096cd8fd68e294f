package router

import (
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	ctrl "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/controllers/sales"
	mw "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/middlewares"
	"github.com/go-chi/chi/v5"
)

type SalesRouterDeps struct {
	Controllers *ctrl.Controllers
	Resolver    mw.SessionResolver
}

func RegisterSalesRoutes(r chi.Router, deps SalesRouterDeps) {
	c := deps.Controllers
	roles := []access.Role{access.RoleAdministrador, access.RoleVentas}
	guard := mw.Guard(mw.GuardConfig{Resolver: deps.Resolver, Roles: roles})
	flatGuard := mw.Guard(mw.GuardConfig{Resolver: deps.Resolver, Roles: roles, FlatError: true})

	r.With(guard).Post("/v1/sales", c.Sales.Create)
	r.With(guard).Get("/v1/sales", c.Sales.List)
	r.With(guard).Get("/v1/sales/{id}", c.Sales.Get)

	// Handlers tipo función: el preflight se contesta antes del guard.
	r.With(mw.FunctionCORS(), flatGuard).HandleFunc("/v1/payments/simulate", c.Payments.Simulate)
	r.With(mw.FunctionCORS(), flatGuard).HandleFunc("/v1/receipts/email", c.Receipts.Send)
}
