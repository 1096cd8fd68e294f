package repository

import (
	"context"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
)

// User es un usuario del back office.
type User struct {
	ID           string
	Email        string
	Nombre       string
	PasswordHash string
	// Role es nil si el usuario todavía no tiene rol asignado.
	Role      *access.Role
	Activo    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateUserInput datos para alta de usuario. PasswordHash ya viene hasheado.
type CreateUserInput struct {
	Email        string
	Nombre       string
	PasswordHash string
	Role         *access.Role
	Activo       bool
}

type ListUsersFilter struct {
	Role   *access.Role
	Search string
	Limit  int
	Offset int
}

// UserRepository opera sobre la tabla usuarios con la conexión de la aplicación.
type UserRepository interface {
	// GetByEmail busca por email (case-insensitive). ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*User, error)

	GetByID(ctx context.Context, id string) (*User, error)

	List(ctx context.Context, f ListUsersFilter) ([]User, error)

	// Create retorna ErrConflict si el email ya existe.
	Create(ctx context.Context, in CreateUserInput) (*User, error)

	// SetRole asigna (o quita, con nil) el rol activo.
	SetRole(ctx context.Context, id string, role *access.Role) (*User, error)

	// ToggleActive invierte el flag activo y devuelve el usuario actualizado.
	ToggleActive(ctx context.Context, id string) (*User, error)

	// SetPasswordHash reemplaza el hash de contraseña.
	SetPasswordHash(ctx context.Context, id, hash string) error
}
