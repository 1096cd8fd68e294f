package access

import (
	"context"
	"testing"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	state access.SessionState
}

func (s stubResolver) Resolve(context.Context, string) (access.SessionState, *session.Claims) {
	return s.state, nil
}

func role(r access.Role) *access.Role { return &r }

func TestCheck(t *testing.T) {
	user := &access.Identity{ID: "u1", Email: "u1@mundocomputo.co"}

	cases := []struct {
		name     string
		state    access.SessionState
		path     string
		decision string
		location string
	}{
		{"public path", access.SessionState{}, "/", "render", ""},
		{"loading", access.SessionState{Loading: true}, "/admin", "loading", ""},
		{"anonymous", access.SessionState{}, "/tecnico/ordenes", "redirect", "/"},
		{"wrong role", access.SessionState{User: user, Role: role(access.RoleVentas)}, "/inventario", "redirect", "/unauthorized"},
		{"admin is not tecnico", access.SessionState{User: user, Role: role(access.RoleAdministrador)}, "/tecnico", "redirect", "/unauthorized"},
		{"allowed", access.SessionState{User: user, Role: role(access.RoleInventario)}, "/inventario/ajustes", "render", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewServices(Deps{Resolver: stubResolver{state: tc.state}}).Guard
			res := svc.Check(context.Background(), "tok", tc.path)
			assert.Equal(t, tc.decision, res.Decision)
			assert.Equal(t, tc.location, res.Location)
			assert.Equal(t, tc.path, res.Path)
		})
	}
}

func TestMe(t *testing.T) {
	svc := NewServices(Deps{Resolver: stubResolver{}}).Guard

	res, err := svc.Me(context.Background(), access.Identity{ID: "u1", Email: "v@mundocomputo.co"}, access.RoleVentas)
	require.NoError(t, err)
	assert.Equal(t, "ventas", res.Role)
	assert.Equal(t, "/ventas", res.Dashboard.Home)
	assert.NotEmpty(t, res.Dashboard.Menu)

	_, err = svc.Me(context.Background(), access.Identity{ID: "u1"}, access.Role("gerente"))
	assert.ErrorIs(t, err, ErrNoDashboard)
}
