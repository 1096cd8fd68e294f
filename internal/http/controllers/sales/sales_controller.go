package sales

import (
	"errors"
	"net/http"

	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/sales"
	httperrors "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/errors"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/helpers"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/middlewares"
	svc "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/sales"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"github.com/go-chi/chi/v5"
)

type SalesController struct {
	service svc.SaleService
}

func NewSalesController(s svc.SaleService) *SalesController {
	return &SalesController{service: s}
}

// Create maneja POST /v1/sales
func (c *SalesController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRequest
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

// List maneja GET /v1/sales?limit=&offset=
func (c *SalesController) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := helpers.QueryInt(r, "limit", 50)
	offset, ok2 := helpers.QueryInt(r, "offset", 0)
	if !ok || !ok2 || offset < 0 {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("limit/offset inválidos"))
		return
	}
	res, err := c.service.List(r.Context(), limit, offset)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

// Get maneja GET /v1/sales/{id}
func (c *SalesController) Get(w http.ResponseWriter, r *http.Request) {
	res, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

func (c *SalesController) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, svc.ErrEmptySale),
		errors.Is(err, svc.ErrInvalidQuantity),
		errors.Is(err, svc.ErrInvalidAmount),
		errors.Is(err, svc.ErrInvalidMethod):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrProductNotFound):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrInsufficientStock):
		httperrors.WriteError(w, httperrors.ErrInsufficientStock)
	default:
		logger.From(r.Context()).Error("sales service error", logger.Layer("controller"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
