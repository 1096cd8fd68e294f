package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/audit"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/auth"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/session"
)

// SessionService canjea una verificación 2FA por un token de acceso.
type SessionService interface {
	Create(ctx context.Context, in dto.SessionRequest) (*dto.SessionResponse, error)
	Logout(ctx context.Context, actorID string, claims *session.Claims) error
}

type sessionService struct {
	deps Deps
}

func NewSessionService(d Deps) SessionService {
	return &sessionService{deps: d}
}

func (s *sessionService) Create(ctx context.Context, in dto.SessionRequest) (*dto.SessionResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.session"),
		logger.Op("Create"),
	)

	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingCredentials
	}

	ff, err := s.deps.FirstFactor.SignInWithPassword(ctx, in.Email, in.Password)
	if err != nil {
		if !errors.Is(err, session.ErrInvalidCredentials) {
			log.Error("first factor failed", logger.Err(err))
		}
		return nil, ErrInvalidCredentials
	}
	defer func() {
		if err := signOut(ctx, s.deps.FirstFactor, ff); err != nil {
			log.Warn("sign out failed", logger.Err(err))
		}
	}()

	log = log.With(logger.UserID(ff.UserID))

	u, err := s.deps.Users.GetByID(ctx, ff.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, ErrInternal
	}
	if !u.Activo {
		return nil, ErrUserInactive
	}

	ch, err := s.deps.Challenges.GetChallenge(ctx, u.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		log.Error("challenge lookup failed", logger.Err(err))
		return nil, ErrInternal
	}
	if !ch.Verified {
		return nil, ErrMFARequired
	}

	// Una verificación vale una sola sesión.
	ok, err := s.deps.Challenges.ConsumeVerification(ctx, u.ID)
	if err != nil {
		log.Error("consume verification failed", logger.Err(err))
		return nil, ErrInternal
	}
	if !ok {
		return nil, ErrMFARequired
	}

	tok, claims, err := s.deps.Tokens.Issue(ctx, u)
	if err != nil {
		log.Error("issue token failed", logger.Err(err))
		return nil, ErrInternal
	}

	s.deps.Audit.Log(ctx, audit.Entry{
		Event:   audit.EventSessionIssued,
		ActorID: u.ID,
		Target:  claims.ID,
		Result:  "ok",
	})

	out := &dto.SessionResponse{
		AccessToken: tok,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.deps.Tokens.AccessTTL().Seconds()),
		User: dto.SessionUser{
			ID:     u.ID,
			Email:  u.Email,
			Nombre: u.Nombre,
		},
	}
	if u.Role != nil {
		out.User.Rol = string(*u.Role)
	}
	return out, nil
}

// Logout revoca el token actual. Sin claims no hay nada que revocar.
func (s *sessionService) Logout(ctx context.Context, actorID string, claims *session.Claims) error {
	if claims == nil {
		return nil
	}
	if err := s.deps.Tokens.Revoke(ctx, claims); err != nil {
		logger.From(ctx).Error("revoke failed",
			logger.Layer("service"), logger.Op("Logout"), logger.Err(err))
		return ErrInternal
	}
	s.deps.Audit.Log(ctx, audit.Entry{
		Event:   audit.EventLogout,
		ActorID: actorID,
		Target:  claims.ID,
		Result:  "ok",
	})
	return nil
}
