package router

import (
	ctrl "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/controllers/auth"
	mw "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/middlewares"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/rate"
	"github.com/go-chi/chi/v5"
)

type AuthRouterDeps struct {
	Controllers      *ctrl.Controllers
	Resolver         mw.SessionResolver
	LoginLimiter     rate.Limiter // opcional
	TwoFactorLimiter rate.Limiter // opcional
}

// RegisterAuthRoutes registra login, verificación 2FA, sesión y logout.
func RegisterAuthRoutes(r chi.Router, deps AuthRouterDeps) {
	c := deps.Controllers
	limit := mw.WithRateLimit(mw.RateLimitConfig{Limiter: deps.LoginLimiter, KeyFunc: mw.IPRateKey})

	r.With(mw.WithNoStore(), limit).Post("/v1/auth/login", c.Login.Login)
	r.With(mw.WithNoStore(), limit).Post("/v1/auth/session", c.Session.Create)
	r.With(mw.RequireSession(deps.Resolver)).Post("/v1/auth/logout", c.Session.Logout)

	// Handler tipo función: responde OPTIONS y 405 por su cuenta.
	r.With(mw.WithRateLimit(mw.RateLimitConfig{
		Limiter:   deps.TwoFactorLimiter,
		KeyFunc:   mw.IPRateKey,
		FlatError: true,
	})).HandleFunc("/v1/auth/2fa/verify", c.TwoFactor.Verify)
}
