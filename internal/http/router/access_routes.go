package router

import (
	ctrl "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/controllers/access"
	mw "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/middlewares"
	"github.com/go-chi/chi/v5"
)

type AccessRouterDeps struct {
	Controllers *ctrl.Controllers
	Resolver    mw.SessionResolver
}

func RegisterAccessRoutes(r chi.Router, deps AccessRouterDeps) {
	c := deps.Controllers

	// check no pasa por el guard: devuelve la decisión, incluida loading.
	r.With(mw.WithNoStore()).Get("/v1/access/check", c.Guard.Check)
	r.With(mw.RequireSession(deps.Resolver)).Get("/v1/me", c.Guard.Me)
}
