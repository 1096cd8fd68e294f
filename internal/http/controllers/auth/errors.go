package auth

import (
	"errors"

	httperrors "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/errors"
	svc "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/auth"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"go.uber.org/zap"
)

// toAppError mapea errores del service a AppError para login y sesión.
func toAppError(err error, log *zap.Logger) *httperrors.AppError {
	switch {
	case errors.Is(err, svc.ErrMissingCredentials):
		return httperrors.ErrMissingFields.WithDetail(err.Error())
	case errors.Is(err, svc.ErrInvalidCredentials):
		return httperrors.ErrInvalidCredentials
	case errors.Is(err, svc.ErrMFARequired):
		return httperrors.ErrMFARequired
	case errors.Is(err, svc.ErrUserInactive):
		return httperrors.ErrAccountInactive
	case errors.Is(err, svc.ErrUserNotFound):
		return httperrors.ErrUserNotFound
	case errors.Is(err, svc.ErrCodeDelivery):
		return httperrors.ErrInternalServerError.WithDetail(err.Error())
	default:
		log.Error("unexpected service error", logger.Err(err))
		return httperrors.ErrInternalServerError.WithCause(err)
	}
}
