package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardFor_AllRoles(t *testing.T) {
	for _, r := range AllRoles() {
		d, ok := DashboardFor(r)
		require.True(t, ok, "rol sin dashboard: %s", r)
		assert.Equal(t, r, d.Role)
		assert.NotEmpty(t, d.Home)
		assert.NotEmpty(t, d.Menu)

		// El home de cada rol debe ser accesible para ese mismo rol.
		allowed, protected := DefaultRoutes().AllowedFor(d.Home)
		require.True(t, protected)
		assert.Equal(t, DecisionRender, Evaluate(SessionState{User: someUser, Role: rolePtr(r)}, allowed).Kind)
	}

	_, ok := DashboardFor(Role("gerente"))
	assert.False(t, ok)
}

func TestRouteTable_AllowedFor(t *testing.T) {
	rt := DefaultRoutes()

	tests := []struct {
		path      string
		want      []Role
		protected bool
	}{
		{"/admin", []Role{RoleAdministrador}, true},
		{"/admin/usuarios", []Role{RoleAdministrador}, true},
		{"admin/logs/", []Role{RoleAdministrador}, true},
		{"/ventas/historial", []Role{RoleVentas}, true},
		{"/administracion", nil, false},
		{"/", nil, false},
		{"/unauthorized", nil, false},
	}
	for _, tt := range tests {
		got, ok := rt.AllowedFor(tt.path)
		assert.Equal(t, tt.protected, ok, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestRouteTable_LongestPrefixWins(t *testing.T) {
	rt := RouteTable{
		"/ventas":         {RoleVentas},
		"/ventas/reporte": {RoleAdministrador},
	}
	got, ok := rt.AllowedFor("/ventas/reporte/mensual")
	require.True(t, ok)
	assert.Equal(t, []Role{RoleAdministrador}, got)
}
