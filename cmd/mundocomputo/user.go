package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/app"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/config"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/security/password"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/store/pg"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/validation"
	"github.com/spf13/cobra"
)

func newUserCmd(cfg func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Administración de usuarios sin pasar por la API",
	}

	withStore := func(fn func(ctx context.Context, st *pg.Store) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			st, err := app.OpenStore(cmd.Context(), cfg())
			if err != nil {
				return err
			}
			defer st.Close()
			return fn(cmd.Context(), st)
		}
	}

	// user create
	var email, nombre, rol string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Crea un usuario activo (password en env MC_USER_PASSWORD)",
		RunE: withStore(func(ctx context.Context, st *pg.Store) error {
			plain := os.Getenv("MC_USER_PASSWORD")
			email = validation.NormalizeEmail(email)
			if email == "" || strings.TrimSpace(nombre) == "" || plain == "" {
				return errors.New("--email, --nombre y MC_USER_PASSWORD son requeridos")
			}
			if !validation.ValidEmail(email) {
				return fmt.Errorf("email inválido: %s", email)
			}
			role, err := optionalRole(rol)
			if err != nil {
				return err
			}
			if ok, reasons := app.PasswordPolicy(cfg()).Validate(plain); !ok {
				return errors.New(password.Describe(reasons))
			}
			hash, err := password.Hash(password.Default, plain)
			if err != nil {
				return err
			}
			u, err := st.Users.Create(ctx, repository.CreateUserInput{
				Email:        email,
				Nombre:       strings.TrimSpace(nombre),
				PasswordHash: hash,
				Role:         role,
				Activo:       true,
			})
			if err != nil {
				if repository.IsConflict(err) {
					return fmt.Errorf("el email %s ya está registrado", email)
				}
				return err
			}
			fmt.Printf("usuario creado id=%s email=%s rol=%s\n", u.ID, u.Email, roleName(u.Role))
			return nil
		}),
	}
	createCmd.Flags().StringVar(&email, "email", "", "Email del usuario")
	createCmd.Flags().StringVar(&nombre, "nombre", "", "Nombre visible")
	createCmd.Flags().StringVar(&rol, "rol", "", "administrador|tecnico|ventas|inventario (vacío = sin rol)")

	// user set-role
	var roleEmail, newRole string
	setRoleCmd := &cobra.Command{
		Use:   "set-role",
		Short: "Asigna o quita (rol vacío) el rol de un usuario",
		RunE: withStore(func(ctx context.Context, st *pg.Store) error {
			role, err := optionalRole(newRole)
			if err != nil {
				return err
			}
			u, err := st.Users.GetByEmail(ctx, validation.NormalizeEmail(roleEmail))
			if err != nil {
				return lookupErr(err, roleEmail)
			}
			u, err = st.Users.SetRole(ctx, u.ID, role)
			if err != nil {
				return err
			}
			fmt.Printf("%s ahora tiene rol %s\n", u.Email, roleName(u.Role))
			return nil
		}),
	}
	setRoleCmd.Flags().StringVar(&roleEmail, "email", "", "Email del usuario")
	setRoleCmd.Flags().StringVar(&newRole, "rol", "", "Rol nuevo (vacío = quitar)")

	// user toggle-active
	var toggleEmail string
	toggleCmd := &cobra.Command{
		Use:   "toggle-active",
		Short: "Activa o desactiva un usuario",
		RunE: withStore(func(ctx context.Context, st *pg.Store) error {
			u, err := st.Users.GetByEmail(ctx, validation.NormalizeEmail(toggleEmail))
			if err != nil {
				return lookupErr(err, toggleEmail)
			}
			u, err = st.Users.ToggleActive(ctx, u.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%s activo=%t\n", u.Email, u.Activo)
			return nil
		}),
	}
	toggleCmd.Flags().StringVar(&toggleEmail, "email", "", "Email del usuario")

	// user set-password
	var pwEmail string
	setPasswordCmd := &cobra.Command{
		Use:   "set-password",
		Short: "Reemplaza la contraseña de un usuario (nueva en env MC_USER_PASSWORD)",
		RunE: withStore(func(ctx context.Context, st *pg.Store) error {
			plain := os.Getenv("MC_USER_PASSWORD")
			if plain == "" {
				return errors.New("MC_USER_PASSWORD es requerido")
			}
			if ok, reasons := app.PasswordPolicy(cfg()).Validate(plain); !ok {
				return errors.New(password.Describe(reasons))
			}
			u, err := st.Users.GetByEmail(ctx, validation.NormalizeEmail(pwEmail))
			if err != nil {
				return lookupErr(err, pwEmail)
			}
			hash, err := password.Hash(password.Default, plain)
			if err != nil {
				return err
			}
			if err := st.Users.SetPasswordHash(ctx, u.ID, hash); err != nil {
				return err
			}
			fmt.Printf("contraseña actualizada para %s\n", u.Email)
			return nil
		}),
	}
	setPasswordCmd.Flags().StringVar(&pwEmail, "email", "", "Email del usuario")

	cmd.AddCommand(createCmd, setRoleCmd, toggleCmd, setPasswordCmd)
	return cmd
}

func optionalRole(s string) (*access.Role, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	r, ok := access.ParseRole(s)
	if !ok {
		return nil, fmt.Errorf("rol inválido: %q", s)
	}
	return &r, nil
}

func roleName(r *access.Role) string {
	if r == nil {
		return "(sin rol)"
	}
	return string(*r)
}

func lookupErr(err error, email string) error {
	if repository.IsNotFound(err) {
		return fmt.Errorf("usuario %s no encontrado", email)
	}
	return err
}
