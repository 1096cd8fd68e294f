// Package access contiene DTOs de /v1/me y /v1/access/check.
package access

type MenuItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type Dashboard struct {
	Home string     `json:"home"`
	Menu []MenuItem `json:"menu"`
}

type MeUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// MeResponse es la respuesta de GET /v1/me.
type MeResponse struct {
	User      MeUser    `json:"user"`
	Role      string    `json:"role"`
	RoleLabel string    `json:"role_label"`
	Dashboard Dashboard `json:"dashboard"`
}

// CheckResponse es la decisión del guard para una ruta del SPA.
// Location solo viene en redirect.
type CheckResponse struct {
	Path     string   `json:"path"`
	Decision string   `json:"decision"` // render | loading | redirect
	Location string   `json:"location,omitempty"`
	Allowed  []string `json:"allowed"`
}
