package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/audit"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/auth"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/metrics"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/session"
)

// VerifiedMessage es el mensaje de la respuesta exitosa.
const VerifiedMessage = "Verificación exitosa"

// Resultados para métricas y auditoría.
const (
	resultSuccess            = "success"
	resultMissingFields      = "missing_fields"
	resultInvalidCredentials = "invalid_credentials"
	resultNotFound           = "not_found"
	resultInactive           = "inactive"
	resultExpired            = "expired"
	resultIncorrect          = "incorrect"
	resultError              = "error"
)

// TwoFactorService valida el código enviado por email.
type TwoFactorService interface {
	Verify(ctx context.Context, in dto.VerifyRequest) (*dto.VerifyResponse, error)
}

type twoFactorService struct {
	deps Deps
}

func NewTwoFactorService(d Deps) TwoFactorService {
	return &twoFactorService{deps: d}
}

// Verify recorre AwaitingCredentials → FirstFactorVerified → CodeValidated | Rejected.
// Toda salida posterior al primer factor cierra la sesión provisional,
// incluida la exitosa.
func (s *twoFactorService) Verify(ctx context.Context, in dto.VerifyRequest) (*dto.VerifyResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.2fa"),
		logger.Op("Verify"),
	)

	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" || in.Code == "" {
		metrics.TwoFactorResult(resultMissingFields)
		return nil, ErrMissingFields
	}

	ff, err := s.deps.FirstFactor.SignInWithPassword(ctx, in.Email, in.Password)
	if err != nil {
		if !errors.Is(err, session.ErrInvalidCredentials) {
			log.Error("first factor failed", logger.Err(err))
		}
		s.finish(ctx, "", in.Email, resultInvalidCredentials)
		return nil, ErrInvalidCredentials
	}
	defer func() {
		if err := signOut(ctx, s.deps.FirstFactor, ff); err != nil {
			log.Warn("sign out failed", logger.Err(err))
		}
	}()

	log = log.With(logger.UserID(ff.UserID))

	// Lectura con la conexión de servicio.
	ch, err := s.deps.Challenges.GetChallenge(ctx, ff.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			s.finish(ctx, ff.UserID, in.Email, resultNotFound)
			return nil, ErrUserNotFound
		}
		log.Error("challenge lookup failed", logger.Err(err))
		s.finish(ctx, ff.UserID, in.Email, resultError)
		return nil, ErrVerifyFailed
	}

	if !ch.Activo {
		log.Info("user inactive")
		s.finish(ctx, ch.UserID, ch.Email, resultInactive)
		return nil, ErrUserInactive
	}

	// Sin código pendiente (ya consumido o nunca emitido).
	if ch.Code == nil {
		s.finish(ctx, ch.UserID, ch.Email, resultIncorrect)
		return nil, ErrCodeIncorrect
	}

	// Vence estrictamente después de expiresAt. Un código sin expiración se
	// trata como vencido.
	if ch.ExpiresAt == nil || s.deps.Now().After(*ch.ExpiresAt) {
		s.finish(ctx, ch.UserID, ch.Email, resultExpired)
		return nil, ErrCodeExpired
	}

	if subtle.ConstantTimeCompare([]byte(*ch.Code), []byte(in.Code)) != 1 {
		s.finish(ctx, ch.UserID, ch.Email, resultIncorrect)
		return nil, ErrCodeIncorrect
	}

	// Compare-and-clear: si otro request consumió o reemplazó el código, 0 filas.
	ok, err := s.deps.Challenges.ConsumeCode(ctx, ch.UserID, in.Code)
	if err != nil {
		log.Error("consume code failed", logger.Err(err))
		s.finish(ctx, ch.UserID, ch.Email, resultError)
		return nil, ErrVerifyFailed
	}
	if !ok {
		log.Info("code consumed concurrently")
		s.finish(ctx, ch.UserID, ch.Email, resultIncorrect)
		return nil, ErrCodeIncorrect
	}

	s.finish(ctx, ch.UserID, ch.Email, resultSuccess)
	log.Info("2fa verified")
	return &dto.VerifyResponse{Success: true, Message: VerifiedMessage}, nil
}

func (s *twoFactorService) finish(ctx context.Context, actor, target, result string) {
	metrics.TwoFactorResult(result)
	s.deps.Audit.Log(ctx, audit.Entry{
		Event:   audit.EventTwoFactorVerify,
		ActorID: actor,
		Target:  strings.ToLower(target),
		Result:  result,
	})
}
