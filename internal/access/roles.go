// Package access contiene los roles del back office y el guard de rutas.
//
// El guard es una función pura: recibe el estado de sesión ya resuelto y el
// conjunto de roles permitidos, y devuelve una decisión de navegación. No
// consulta la base de datos ni el token; eso lo hace session.Resolver.
package access

// Role es el rol activo de un usuario. Enumeración cerrada.
type Role string

const (
	RoleAdministrador Role = "administrador"
	RoleTecnico       Role = "tecnico"
	RoleVentas        Role = "ventas"
	RoleInventario    Role = "inventario"
)

// AllRoles devuelve todos los roles en orden estable.
func AllRoles() []Role {
	return []Role{RoleAdministrador, RoleTecnico, RoleVentas, RoleInventario}
}

// ParseRole valida s contra la enumeración. La comparación es exacta
// (sensible a mayúsculas): "Administrador" no es un rol válido.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Valid indica si r pertenece a la enumeración.
func (r Role) Valid() bool {
	switch r {
	case RoleAdministrador, RoleTecnico, RoleVentas, RoleInventario:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// Label es el nombre legible del rol para la UI y los emails.
func (r Role) Label() string {
	switch r {
	case RoleAdministrador:
		return "Administrador"
	case RoleTecnico:
		return "Técnico"
	case RoleVentas:
		return "Ventas"
	case RoleInventario:
		return "Inventario"
	default:
		return string(r)
	}
}
