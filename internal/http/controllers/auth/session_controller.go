package auth

import (
	"net/http"

	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/auth"
	httperrors "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/errors"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/helpers"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/middlewares"
	svc "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/auth"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
)

// SessionController emite y revoca la sesión confiable.
type SessionController struct {
	service svc.SessionService
}

func NewSessionController(s svc.SessionService) *SessionController {
	return &SessionController{service: s}
}

// Create maneja POST /v1/auth/session
func (c *SessionController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.session.create"))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	var req dto.SessionRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	res, err := c.service.Create(ctx, req)
	if err != nil {
		httperrors.WriteError(w, toAppError(err, log))
		return
	}

	// Contiene el token.
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	helpers.WriteJSON(w, http.StatusOK, res)
}

// Logout maneja POST /v1/auth/logout
// Requiere sesión (claims en el contexto).
func (c *SessionController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.logout"))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	if err := c.service.Logout(ctx, middlewares.GetUserID(ctx), middlewares.GetClaims(ctx)); err != nil {
		httperrors.WriteError(w, toAppError(err, log))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
