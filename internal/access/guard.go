package access

const (
	// PublicEntryPath es la página pública de login.
	PublicEntryPath = "/"
	// UnauthorizedPath es la página de acceso denegado.
	UnauthorizedPath = "/unauthorized"
)

// Identity es el usuario autenticado visto por el guard.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SessionState es la entrada del guard. User y Role en nil significan
// "sin sesión" y "sin rol" respectivamente.
type SessionState struct {
	Loading bool
	User    *Identity
	Role    *Role
}

// DecisionKind es el tipo de decisión del guard.
type DecisionKind int

const (
	DecisionLoading DecisionKind = iota
	DecisionRender
	DecisionRedirect
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionLoading:
		return "loading"
	case DecisionRender:
		return "render"
	case DecisionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision es el resultado del guard. Location solo aplica a DecisionRedirect.
type Decision struct {
	Kind     DecisionKind
	Location string
}

func Loading() Decision                   { return Decision{Kind: DecisionLoading} }
func Render() Decision                    { return Decision{Kind: DecisionRender} }
func RedirectTo(location string) Decision { return Decision{Kind: DecisionRedirect, Location: location} }

// Evaluate decide qué mostrar para una ruta protegida.
//
// Orden de evaluación:
//  1. Loading domina: mientras se resuelve la sesión no se redirige ni se muestra nada.
//  2. Sin usuario o sin rol: redirección a la entrada pública.
//  3. Rol fuera del conjunto permitido: redirección a /unauthorized.
//  4. En otro caso se renderiza el contenido protegido sin modificar.
//
// La pertenencia es exacta; no hay jerarquía entre roles.
func Evaluate(state SessionState, allowed []Role) Decision {
	if state.Loading {
		return Loading()
	}
	if state.User == nil || state.Role == nil {
		return RedirectTo(PublicEntryPath)
	}
	for _, r := range allowed {
		if r == *state.Role {
			return Render()
		}
	}
	return RedirectTo(UnauthorizedPath)
}
