package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/audit"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/email"
	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/auth"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/security/otp"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/session"
)

// LoginService ejecuta el primer paso del login y envía el código 2FA.
type LoginService interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error)
}

type loginService struct {
	deps Deps
}

func NewLoginService(d Deps) LoginService {
	return &loginService{deps: d}
}

func (s *loginService) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Login"),
	)

	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingCredentials
	}

	// Paso 1: primer factor
	ff, err := s.deps.FirstFactor.SignInWithPassword(ctx, in.Email, in.Password)
	if err != nil {
		if !errors.Is(err, session.ErrInvalidCredentials) {
			log.Error("first factor failed", logger.Err(err))
		}
		s.record(ctx, "", in.Email, "invalid_credentials")
		return nil, ErrInvalidCredentials
	}
	// La sesión provisional no sobrevive al login: el código llega por email.
	defer func() {
		if err := signOut(ctx, s.deps.FirstFactor, ff); err != nil {
			log.Warn("sign out failed", logger.Err(err))
		}
	}()

	log = log.With(logger.UserID(ff.UserID))

	// Paso 2: estado de la cuenta
	u, err := s.deps.Users.GetByID(ctx, ff.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, ErrInternal
	}
	if !u.Activo {
		log.Info("user inactive")
		s.record(ctx, u.ID, u.Email, "inactive")
		return nil, ErrUserInactive
	}

	// Paso 3: código nuevo, reemplaza cualquier código anterior
	code, err := otp.Generate(s.deps.CodeDigits)
	if err != nil {
		log.Error("otp generate failed", logger.Err(err))
		return nil, ErrInternal
	}
	expiresAt := s.deps.Now().Add(s.deps.CodeTTL).UTC()
	if err := s.deps.Challenges.StoreCode(ctx, u.ID, code, expiresAt); err != nil {
		log.Error("store code failed", logger.Err(err))
		return nil, ErrInternal
	}

	// Paso 4: envío
	msg, err := email.TwoFactorMessage(u.Email, email.TwoFactorData{
		AppName:   s.deps.AppName,
		Nombre:    u.Nombre,
		Code:      code,
		ExpiresAt: expiresAt,
		Minutes:   int(s.deps.CodeTTL.Minutes()),
	})
	if err == nil {
		err = s.deps.Mailer.Send(ctx, msg)
	}
	if err != nil {
		log.Error("code delivery failed", logger.Err(err))
		s.record(ctx, u.ID, u.Email, "delivery_failed")
		return nil, ErrCodeDelivery
	}

	s.record(ctx, u.ID, u.Email, "code_sent")
	log.Info("2fa code sent", logger.MaskedEmail(u.Email))
	return &dto.LoginResponse{MFARequired: true, ExpiresAt: expiresAt}, nil
}

func (s *loginService) record(ctx context.Context, actor, target, result string) {
	s.deps.Audit.Log(ctx, audit.Entry{
		Event:   audit.EventLogin,
		ActorID: actor,
		Target:  strings.ToLower(target),
		Result:  result,
	})
}
