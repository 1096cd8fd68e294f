// Package access contiene los controllers de /v1/me y /v1/access/check.
package access

import (
	"errors"
	"net/http"
	"strings"

	httperrors "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/errors"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/helpers"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/middlewares"
	svc "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
)

type Controllers struct {
	Guard *GuardController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Guard: NewGuardController(s.Guard)}
}

type GuardController struct {
	service svc.GuardService
}

func NewGuardController(s svc.GuardService) *GuardController {
	return &GuardController{service: s}
}

// Check maneja GET /v1/access/check?path=/admin/usuarios
// No requiere sesión: sin token la decisión es redirect a "/".
func (c *GuardController) Check(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" || !strings.HasPrefix(path, "/") {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("path debe empezar con /"))
		return
	}
	res := c.service.Check(r.Context(), helpers.BearerToken(r), path)
	w.Header().Set("Cache-Control", "no-store")
	if res.Decision == "loading" {
		w.Header().Set("Retry-After", "1")
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

// Me maneja GET /v1/me
// Requiere sesión (identidad y rol en el contexto).
func (c *GuardController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := middlewares.GetIdentity(ctx)
	role, okRole := middlewares.GetRole(ctx)
	if !ok || !okRole {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	res, err := c.service.Me(ctx, id, role)
	if err != nil {
		if errors.Is(err, svc.ErrNoDashboard) {
			httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail(err.Error()))
			return
		}
		logger.From(ctx).Error("me failed", logger.Layer("controller"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, res)
}
