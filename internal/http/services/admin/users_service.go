package admin

import (
	"context"
	"errors"
	"strings"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/audit"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/email"
	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/admin"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/security/password"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/validation"
)

var (
	ErrMissingFields = errors.New("email, nombre y password son requeridos")
	ErrInvalidEmail  = errors.New("email inválido")
	ErrInvalidRole   = errors.New("rol inválido")
	ErrEmailExists   = errors.New("el email ya está registrado")
	ErrNotFound      = errors.New("usuario no encontrado")
	ErrSelfChange    = errors.New("no puede modificar su propio rol ni desactivarse")
)

// PolicyError indica que la contraseña no cumple la política.
type PolicyError struct {
	Reasons []string
}

func (e *PolicyError) Error() string { return password.Describe(e.Reasons) }

type UserService interface {
	List(ctx context.Context, f repository.ListUsersFilter) (*dto.UserListResponse, error)
	Create(ctx context.Context, actorID string, in dto.CreateUserRequest) (*dto.User, error)
	SetRole(ctx context.Context, actorID, id string, in dto.SetRoleRequest) (*dto.User, error)
	ToggleActive(ctx context.Context, actorID, id string) (*dto.User, error)
}

type userService struct {
	deps Deps
}

func (s *userService) List(ctx context.Context, f repository.ListUsersFilter) (*dto.UserListResponse, error) {
	f.Search = strings.TrimSpace(f.Search)
	rows, err := s.deps.Users.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{Items: make([]dto.User, 0, len(rows))}
	for i := range rows {
		out.Items = append(out.Items, toDTO(&rows[i]))
	}
	out.Count = len(out.Items)
	return out, nil
}

func (s *userService) Create(ctx context.Context, actorID string, in dto.CreateUserRequest) (*dto.User, error) {
	in.Email = validation.NormalizeEmail(in.Email)
	in.Nombre = strings.TrimSpace(in.Nombre)
	if in.Email == "" || in.Nombre == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if !validation.ValidEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	role, err := parseOptionalRole(in.Rol)
	if err != nil {
		return nil, err
	}
	if ok, reasons := s.deps.Policy.Validate(in.Password); !ok {
		return nil, &PolicyError{Reasons: reasons}
	}

	hash, err := password.Hash(s.deps.Hash, in.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.deps.Users.Create(ctx, repository.CreateUserInput{
		Email:        in.Email,
		Nombre:       in.Nombre,
		PasswordHash: hash,
		Role:         role,
		Activo:       true,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	s.deps.Audit.Log(ctx, audit.Entry{
		Event:   audit.EventUserCreated,
		ActorID: actorID,
		Target:  u.ID,
		Result:  "ok",
		Fields:  map[string]any{"email": u.Email, "rol": roleString(u.Role)},
	})
	out := toDTO(u)
	return &out, nil
}

func (s *userService) SetRole(ctx context.Context, actorID, id string, in dto.SetRoleRequest) (*dto.User, error) {
	if id == actorID {
		return nil, ErrSelfChange
	}
	role, err := parseOptionalRole(in.Rol)
	if err != nil {
		return nil, err
	}
	u, err := s.deps.Users.SetRole(ctx, id, role)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.deps.Audit.Log(ctx, audit.Entry{
		Event:   audit.EventUserRoleChanged,
		ActorID: actorID,
		Target:  u.ID,
		Result:  "ok",
		Fields:  map[string]any{"rol": roleString(u.Role)},
	})
	out := toDTO(u)
	return &out, nil
}

// ToggleActive invierte activo y avisa al usuario por email. Un fallo del
// email no revierte el cambio.
func (s *userService) ToggleActive(ctx context.Context, actorID, id string) (*dto.User, error) {
	if id == actorID {
		return nil, ErrSelfChange
	}
	u, err := s.deps.Users.ToggleActive(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.deps.Audit.Log(ctx, audit.Entry{
		Event:   audit.EventUserToggled,
		ActorID: actorID,
		Target:  u.ID,
		Result:  "ok",
		Fields:  map[string]any{"activo": u.Activo},
	})

	if s.deps.Mailer != nil {
		rol := ""
		if u.Role != nil {
			rol = u.Role.Label()
		}
		msg, err := email.AccountStatusMessage(u.Email, email.AccountStatusData{
			AppName: s.deps.AppName,
			Nombre:  u.Nombre,
			Activo:  u.Activo,
			Rol:     rol,
		})
		if err == nil {
			err = s.deps.Mailer.Send(ctx, msg)
		}
		if err != nil {
			logger.From(ctx).Warn("account status email failed",
				logger.Layer("service"), logger.UserID(u.ID), logger.Err(err))
		}
	}

	out := toDTO(u)
	return &out, nil
}

// parseOptionalRole: "" quita el rol; cualquier otro valor debe ser exacto.
func parseOptionalRole(s string) (*access.Role, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	r, ok := access.ParseRole(s)
	if !ok {
		return nil, ErrInvalidRole
	}
	return &r, nil
}

func roleString(r *access.Role) string {
	if r == nil {
		return ""
	}
	return string(*r)
}

func toDTO(u *repository.User) dto.User {
	out := dto.User{
		ID:        u.ID,
		Email:     u.Email,
		Nombre:    u.Nombre,
		Activo:    u.Activo,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Role != nil {
		r := string(*u.Role)
		out.Rol = &r
	}
	return out
}
