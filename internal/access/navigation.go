package access

import (
	"sort"
	"strings"
)

// MenuItem es una entrada del menú lateral.
type MenuItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Dashboard describe la página inicial y el menú de un rol.
type Dashboard struct {
	Role Role       `json:"role"`
	Home string     `json:"home"`
	Menu []MenuItem `json:"menu"`
}

// DashboardFor selecciona el dashboard del rol. Agregar un rol a la
// enumeración obliga a agregar su caso aquí (ver TestDashboardFor_AllRoles).
func DashboardFor(r Role) (Dashboard, bool) {
	switch r {
	case RoleAdministrador:
		return Dashboard{Role: r, Home: "/admin", Menu: []MenuItem{
			{Label: "Panel", Path: "/admin"},
			{Label: "Usuarios", Path: "/admin/usuarios"},
			{Label: "Registros", Path: "/admin/logs"},
			{Label: "Órdenes", Path: "/admin/ordenes"},
			{Label: "Inventario", Path: "/admin/inventario"},
			{Label: "Ventas", Path: "/admin/ventas"},
		}}, true
	case RoleTecnico:
		return Dashboard{Role: r, Home: "/tecnico", Menu: []MenuItem{
			{Label: "Mis órdenes", Path: "/tecnico"},
			{Label: "Órdenes", Path: "/tecnico/ordenes"},
		}}, true
	case RoleVentas:
		return Dashboard{Role: r, Home: "/ventas", Menu: []MenuItem{
			{Label: "Nueva venta", Path: "/ventas"},
			{Label: "Historial", Path: "/ventas/historial"},
			{Label: "Recepción de equipos", Path: "/ventas/ordenes"},
		}}, true
	case RoleInventario:
		return Dashboard{Role: r, Home: "/inventario", Menu: []MenuItem{
			{Label: "Productos", Path: "/inventario"},
			{Label: "Ajustes de stock", Path: "/inventario/ajustes"},
		}}, true
	default:
		return Dashboard{}, false
	}
}

// RouteTable mapea prefijos de rutas del SPA a los roles permitidos.
type RouteTable map[string][]Role

// DefaultRoutes son las secciones protegidas del SPA.
func DefaultRoutes() RouteTable {
	return RouteTable{
		"/admin":      {RoleAdministrador},
		"/tecnico":    {RoleTecnico},
		"/ventas":     {RoleVentas},
		"/inventario": {RoleInventario},
	}
}

// AllowedFor devuelve los roles del prefijo más largo que coincide con path.
// ok=false indica una ruta pública (no protegida).
func (t RouteTable) AllowedFor(path string) ([]Role, bool) {
	path = "/" + strings.Trim(path, "/")
	prefixes := make([]string, 0, len(t))
	for p := range t {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return t[p], true
		}
	}
	return nil, false
}
