package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/auth"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/helpers"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/middlewares"
	svc "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/auth"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
)

const (
	msgMethodNotAllowed = "Método no permitido"
	msgInvalidBody      = "Cuerpo de la solicitud inválido"
	msgInternal         = "Error interno del servidor"
)

// TwoFactorController es el handler tipo función de la verificación 2FA.
// Responde {success, message} o {error} con CORS fijo y permisivo.
type TwoFactorController struct {
	service svc.TwoFactorService
}

func NewTwoFactorController(s svc.TwoFactorService) *TwoFactorController {
	return &TwoFactorController{service: s}
}

// Verify maneja POST y OPTIONS /v1/auth/2fa/verify
func (c *TwoFactorController) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.2fa.verify"))

	middlewares.SetFunctionCORSHeaders(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		helpers.WriteErrorJSON(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	var req dto.VerifyRequest
	r.Body = http.MaxBytesReader(w, r.Body, 4<<10)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Debug("invalid body", logger.Err(err))
		helpers.WriteErrorJSON(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	res, err := c.service.Verify(ctx, req)
	if err != nil {
		status := verifyStatus(err)
		msg := err.Error()
		if status == http.StatusInternalServerError && !errors.Is(err, svc.ErrVerifyFailed) {
			log.Error("unexpected service error", logger.Err(err))
			msg = msgInternal
		}
		w.Header().Set("Cache-Control", "no-store")
		helpers.WriteErrorJSON(w, status, msg)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, res)
}

func verifyStatus(err error) int {
	switch {
	case errors.Is(err, svc.ErrMissingFields),
		errors.Is(err, svc.ErrCodeExpired),
		errors.Is(err, svc.ErrCodeIncorrect):
		return http.StatusBadRequest
	case errors.Is(err, svc.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, svc.ErrUserInactive):
		return http.StatusForbidden
	case errors.Is(err, svc.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
