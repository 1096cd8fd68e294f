package auth

import (
	"net/http"

	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/auth"
	httperrors "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/errors"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/helpers"
	svc "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/auth"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
)

// LoginController maneja el primer paso del login.
type LoginController struct {
	service svc.LoginService
}

func NewLoginController(s svc.LoginService) *LoginController {
	return &LoginController{service: s}
}

// Login maneja POST /v1/auth/login
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.login"))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	res, err := c.service.Login(ctx, req)
	if err != nil {
		httperrors.WriteError(w, toAppError(err, log))
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, res)
}
