// Package admin contiene DTOs de administración de usuarios y logs.
package admin

import "time"

type CreateUserRequest struct {
	Email    string `json:"email"`
	Nombre   string `json:"nombre"`
	Password string `json:"password"`
	Rol      string `json:"rol"`
}

// SetRoleRequest: Rol vacío quita el rol.
type SetRoleRequest struct {
	Rol string `json:"rol"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Nombre    string    `json:"nombre"`
	Rol       *string   `json:"rol"`
	Activo    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserListResponse struct {
	Items []User `json:"items"`
	Count int    `json:"count"`
}

type LogEntry struct {
	ID        string         `json:"id"`
	ActorID   *string        `json:"actor_id"`
	Action    string         `json:"action"`
	Target    string         `json:"target,omitempty"`
	Result    string         `json:"result,omitempty"`
	Detail    map[string]any `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type LogListResponse struct {
	Items []LogEntry `json:"items"`
	Count int        `json:"count"`
}
