package middlewares

import (
	"context"
	"net/http"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/errors"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/helpers"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/metrics"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/session"
)

// Middleware decora un http.Handler. Es compatible con chi.Router.With/Use.
type Middleware func(http.Handler) http.Handler

// SessionResolver resuelve el estado de sesión de un bearer token.
type SessionResolver interface {
	Resolve(ctx context.Context, bearer string) (access.SessionState, *session.Claims)
}

// GuardConfig configura el guard de un grupo de rutas.
type GuardConfig struct {
	Resolver SessionResolver
	// Roles permitidos. Vacío = ningún rol pasa: no hay jerarquía ni comodines.
	Roles []access.Role
	// FlatError responde {"error": ...} en vez de AppError (handlers tipo función).
	FlatError bool
}

// RequireRoles protege un grupo de rutas con access.Evaluate.
//
//	Loading                      → 503, Retry-After: 1, {"status":"loading"}
//	Redirect "/"                 → 401 (API) | 302 (navegación HTML)
//	Redirect "/unauthorized"     → 403 (API) | 302 (navegación HTML)
//	Render                       → next, con identidad y rol en el contexto
func RequireRoles(resolver SessionResolver, roles ...access.Role) Middleware {
	return Guard(GuardConfig{Resolver: resolver, Roles: roles})
}

// Guard es RequireRoles con opciones.
func Guard(cfg GuardConfig) Middleware {
	allowed := append([]access.Role(nil), cfg.Roles...)
	resolver := cfg.Resolver

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			state, claims := resolver.Resolve(ctx, helpers.BearerToken(r))
			d := access.Evaluate(state, allowed)
			metrics.GuardDecision(d.Kind.String())

			switch d.Kind {
			case access.DecisionLoading:
				w.Header().Set("Retry-After", "1")
				w.Header().Set("Cache-Control", "no-store")
				helpers.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
				return

			case access.DecisionRedirect:
				log := logger.From(ctx)
				if state.User != nil {
					log = log.With(logger.UserID(state.User.ID))
				}
				log.Debug("guard redirect", logger.Route(d.Location))

				if helpers.WantsHTML(r) {
					http.Redirect(w, r, d.Location, http.StatusFound)
					return
				}
				appErr := errors.ErrUnauthorized
				if d.Location == access.UnauthorizedPath {
					appErr = errors.ErrForbidden
				}
				if cfg.FlatError {
					helpers.WriteErrorJSON(w, appErr.HTTPStatus, appErr.Message)
					return
				}
				errors.WriteError(w, appErr)
				return
			}

			// Render: Evaluate garantiza User y Role no nil.
			reqLog := logger.From(ctx).With(logger.UserID(state.User.ID), logger.Role(string(*state.Role)))
			ctx = logger.ToContext(ctx, reqLog)
			ctx = WithSession(ctx, *state.User, *state.Role, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession solo exige una sesión resuelta con rol, sin restringir cuál.
// Se usa en /v1/me y /v1/access/check.
func RequireSession(resolver SessionResolver) Middleware {
	return RequireRoles(resolver, access.AllRoles()...)
}
