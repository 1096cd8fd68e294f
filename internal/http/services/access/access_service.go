// Package access expone el guard de rutas al SPA: la decisión para una ruta
// y el dashboard del usuario autenticado.
package access

import (
	"context"
	"errors"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/session"
)

var ErrNoDashboard = errors.New("rol sin dashboard")

// Resolver traduce un bearer token en estado de sesión.
type Resolver interface {
	Resolve(ctx context.Context, bearer string) (access.SessionState, *session.Claims)
}

type Deps struct {
	Resolver Resolver
	Routes   access.RouteTable // nil = access.DefaultRoutes()
}

type Services struct {
	Guard GuardService
}

func NewServices(d Deps) Services {
	if d.Routes == nil {
		d.Routes = access.DefaultRoutes()
	}
	return Services{Guard: &guardService{deps: d}}
}

type GuardService interface {
	// Check evalúa path del SPA con la sesión del bearer. Las rutas fuera de
	// la tabla son públicas y siempre se renderizan.
	Check(ctx context.Context, bearer, path string) dto.CheckResponse
	Me(ctx context.Context, id access.Identity, role access.Role) (*dto.MeResponse, error)
}

type guardService struct {
	deps Deps
}

func (s *guardService) Check(ctx context.Context, bearer, path string) dto.CheckResponse {
	out := dto.CheckResponse{Path: path, Allowed: []string{}}

	allowed, protected := s.deps.Routes.AllowedFor(path)
	if !protected {
		out.Decision = access.Render().Kind.String()
		return out
	}
	for _, r := range allowed {
		out.Allowed = append(out.Allowed, string(r))
	}

	state, _ := s.deps.Resolver.Resolve(ctx, bearer)
	d := access.Evaluate(state, allowed)
	out.Decision = d.Kind.String()
	out.Location = d.Location
	return out
}

func (s *guardService) Me(_ context.Context, id access.Identity, role access.Role) (*dto.MeResponse, error) {
	dash, ok := access.DashboardFor(role)
	if !ok {
		return nil, ErrNoDashboard
	}
	menu := make([]dto.MenuItem, 0, len(dash.Menu))
	for _, m := range dash.Menu {
		menu = append(menu, dto.MenuItem{Label: m.Label, Path: m.Path})
	}
	return &dto.MeResponse{
		User:      dto.MeUser{ID: id.ID, Email: id.Email},
		Role:      string(role),
		RoleLabel: role.Label(),
		Dashboard: dto.Dashboard{Home: dash.Home, Menu: menu},
	}, nil
}
