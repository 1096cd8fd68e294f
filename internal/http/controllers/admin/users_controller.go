package admin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/admin"
	httperrors "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/errors"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/helpers"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/middlewares"
	svc "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/admin"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"github.com/go-chi/chi/v5"
)

type UsersController struct {
	service svc.UserService
}

func NewUsersController(s svc.UserService) *UsersController {
	return &UsersController{service: s}
}

// List maneja GET /v1/admin/users?rol=&q=&limit=&offset=
func (c *UsersController) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := helpers.QueryInt(r, "limit", 100)
	offset, ok2 := helpers.QueryInt(r, "offset", 0)
	if !ok || !ok2 || offset < 0 {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("limit/offset inválidos"))
		return
	}
	f := repository.ListUsersFilter{
		Search: strings.TrimSpace(r.URL.Query().Get("q")),
		Limit:  limit,
		Offset: offset,
	}
	if v := strings.TrimSpace(r.URL.Query().Get("rol")); v != "" {
		role, ok := access.ParseRole(v)
		if !ok {
			httperrors.WriteError(w, httperrors.ErrInvalidRole)
			return
		}
		f.Role = &role
	}

	res, err := c.service.List(r.Context(), f)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

// Create maneja POST /v1/admin/users
func (c *UsersController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	ctx := r.Context()
	res, err := c.service.Create(ctx, middlewares.GetUserID(ctx), req)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, res)
}

// SetRole maneja PUT /v1/admin/users/{id}/role
func (c *UsersController) SetRole(w http.ResponseWriter, r *http.Request) {
	var req dto.SetRoleRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	ctx := r.Context()
	res, err := c.service.SetRole(ctx, middlewares.GetUserID(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

// ToggleActive maneja POST /v1/admin/users/{id}/toggle-active
func (c *UsersController) ToggleActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := c.service.ToggleActive(ctx, middlewares.GetUserID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

func (c *UsersController) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var pe *svc.PolicyError
	switch {
	case errors.As(err, &pe):
		httperrors.WriteError(w, httperrors.ErrPasswordTooWeak.WithDetail(pe.Error()))
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrInvalidEmail):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrInvalidRole):
		httperrors.WriteError(w, httperrors.ErrInvalidRole)
	case errors.Is(err, svc.ErrEmailExists):
		httperrors.WriteError(w, httperrors.ErrEmailAlreadyInUse)
	case errors.Is(err, svc.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrUserNotFound)
	case errors.Is(err, svc.ErrSelfChange):
		httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail(err.Error()))
	default:
		logger.From(r.Context()).Error("admin users service error", logger.Layer("controller"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
