// Package bootstrap crea el primer administrador del back office.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/security/password"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/validation"
)

var ErrMissingAdminCredentials = errors.New("bootstrap: ADMIN_EMAIL y ADMIN_PASSWORD son requeridos")

// AdminBootstrapConfig holds configuration for admin bootstrap
type AdminBootstrapConfig struct {
	Users    repository.UserRepository
	Email    string
	Password string
	Nombre   string // default "Administrador"
	Policy   password.Policy
	Hash     password.Params // cero = password.Default
}

// EnsureAdmin garantiza que exista al menos un administrador activo.
// Si ya hay uno no hace nada y devuelve created=false. Si el email ya existe
// como usuario sin rol de administrador, se le asigna el rol.
func EnsureAdmin(ctx context.Context, cfg AdminBootstrapConfig) (created bool, err error) {
	log := logger.From(ctx).With(logger.Component("bootstrap"), logger.Op("EnsureAdmin"))

	hasAdmin, err := hasExistingAdmin(ctx, cfg.Users)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing admins: %w", err)
	}
	if hasAdmin {
		log.Debug("admin user detected, skipping bootstrap")
		return false, nil
	}

	email := validation.NormalizeEmail(cfg.Email)
	if email == "" || cfg.Password == "" {
		return false, ErrMissingAdminCredentials
	}
	if !validation.ValidEmail(email) {
		return false, fmt.Errorf("bootstrap: email inválido %q", email)
	}
	if ok, reasons := cfg.Policy.Validate(cfg.Password); !ok {
		return false, fmt.Errorf("bootstrap: %s", password.Describe(reasons))
	}

	if err := createAdminUser(ctx, cfg, email); err != nil {
		return false, err
	}
	log.Info("admin user created", logger.String("email", email))
	return true, nil
}

func hasExistingAdmin(ctx context.Context, users repository.UserRepository) (bool, error) {
	role := access.RoleAdministrador
	rows, err := users.List(ctx, repository.ListUsersFilter{Role: &role, Limit: 50})
	if err != nil {
		return false, err
	}
	for _, u := range rows {
		if u.Activo {
			return true, nil
		}
	}
	return false, nil
}

func createAdminUser(ctx context.Context, cfg AdminBootstrapConfig, email string) error {
	params := cfg.Hash
	if params == (password.Params{}) {
		params = password.Default
	}
	hash, err := password.Hash(params, cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	nombre := strings.TrimSpace(cfg.Nombre)
	if nombre == "" {
		nombre = "Administrador"
	}
	role := access.RoleAdministrador

	_, err = cfg.Users.Create(ctx, repository.CreateUserInput{
		Email:        email,
		Nombre:       nombre,
		PasswordHash: hash,
		Role:         &role,
		Activo:       true,
	})
	if err == nil {
		return nil
	}
	if !repository.IsConflict(err) {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	// El email ya existe: se promueve y se activa. Conserva su contraseña.
	u, err := cfg.Users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to load existing user: %w", err)
	}
	if _, err := cfg.Users.SetRole(ctx, u.ID, &role); err != nil {
		return fmt.Errorf("failed to promote user: %w", err)
	}
	if !u.Activo {
		if _, err := cfg.Users.ToggleActive(ctx, u.ID); err != nil {
			return fmt.Errorf("failed to activate user: %w", err)
		}
	}
	return nil
}
