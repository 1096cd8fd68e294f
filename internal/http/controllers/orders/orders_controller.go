// Package orders contiene el controller de órdenes de reparación.
package orders

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/orders"
	httperrors "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/errors"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/helpers"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/middlewares"
	svc "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/orders"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"github.com/go-chi/chi/v5"
)

type Controllers struct {
	Orders *OrdersController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Orders: NewOrdersController(s.Orders)}
}

type OrdersController struct {
	service svc.OrderService
}

func NewOrdersController(s svc.OrderService) *OrdersController {
	return &OrdersController{service: s}
}

// Create maneja POST /v1/orders
func (c *OrdersController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	res, err := c.service.Create(r.Context(), middlewares.GetUserID(r.Context()), req)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, res)
}

// List maneja GET /v1/orders?estado=&tecnico_id=&mine=1&limit=&offset=
func (c *OrdersController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.ListOrdersFilter{}

	limit, ok := helpers.QueryInt(r, "limit", 50)
	offset, ok2 := helpers.QueryInt(r, "offset", 0)
	if !ok || !ok2 || offset < 0 {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("limit/offset inválidos"))
		return
	}
	f.Limit, f.Offset = limit, offset

	if v := strings.TrimSpace(q.Get("estado")); v != "" {
		st := repository.OrderStatus(v)
		f.Estado = &st
	}
	if q.Get("mine") == "1" {
		uid := middlewares.GetUserID(r.Context())
		f.TecnicoID = &uid
	} else if v := strings.TrimSpace(q.Get("tecnico_id")); v != "" {
		f.TecnicoID = &v
	}

	res, err := c.service.List(r.Context(), f)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

// Get maneja GET /v1/orders/{id}
func (c *OrdersController) Get(w http.ResponseWriter, r *http.Request) {
	res, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

// UpdateStatus maneja PATCH /v1/orders/{id}/status
func (c *OrdersController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.StatusRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	ctx := r.Context()
	res, err := c.service.UpdateStatus(ctx, middlewares.GetUserID(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

// Assign maneja PATCH /v1/orders/{id}/technician
func (c *OrdersController) Assign(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	ctx := r.Context()
	res, err := c.service.Assign(ctx, middlewares.GetUserID(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

func (c *OrdersController) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrInvalidCost),
		errors.Is(err, svc.ErrInvalidStatus),
		errors.Is(err, svc.ErrInvalidTechnician):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrInvalidTransition):
		httperrors.WriteError(w, httperrors.ErrInvalidTransition)
	case errors.Is(err, svc.ErrConcurrentUpdate):
		httperrors.WriteError(w, httperrors.ErrConflict.WithDetail(err.Error()))
	default:
		logger.From(r.Context()).Error("orders service error", logger.Layer("controller"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
