// Package inventory contiene el controller de productos.
package inventory

import (
	"errors"
	"net/http"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/inventory"
	httperrors "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/errors"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/helpers"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/middlewares"
	svc "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/inventory"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"github.com/go-chi/chi/v5"
)

type Controllers struct {
	Products *ProductsController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Products: NewProductsController(s.Products)}
}

type ProductsController struct {
	service svc.ProductService
}

func NewProductsController(s svc.ProductService) *ProductsController {
	return &ProductsController{service: s}
}

// Create maneja POST /v1/products
func (c *ProductsController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	res, err := c.service.Create(r.Context(), req)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, res)
}

// List maneja GET /v1/products?q=&low_stock=&limit=&offset=
func (c *ProductsController) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := helpers.QueryInt(r, "limit", 50)
	offset, ok2 := helpers.QueryInt(r, "offset", 0)
	low, ok3 := helpers.QueryInt(r, "low_stock", -1)
	if !ok || !ok2 || !ok3 || offset < 0 {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("limit/offset/low_stock inválidos"))
		return
	}
	f := repository.ListProductsFilter{Search: r.URL.Query().Get("q"), Limit: limit, Offset: offset}
	if low >= 0 {
		f.LowStock = &low
	}

	res, err := c.service.List(r.Context(), f)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

// Get maneja GET /v1/products/{id}
func (c *ProductsController) Get(w http.ResponseWriter, r *http.Request) {
	res, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

// Adjust maneja POST /v1/products/{id}/stock
func (c *ProductsController) Adjust(w http.ResponseWriter, r *http.Request) {
	var req dto.AdjustRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	ctx := r.Context()
	res, err := c.service.Adjust(ctx, middlewares.GetUserID(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

func (c *ProductsController) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrInvalidAmounts),
		errors.Is(err, svc.ErrInvalidSKU),
		errors.Is(err, svc.ErrZeroDelta):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrSKUExists):
		httperrors.WriteError(w, httperrors.ErrSKUAlreadyExists)
	case errors.Is(err, svc.ErrInsufficientStock):
		httperrors.WriteError(w, httperrors.ErrInsufficientStock)
	default:
		logger.From(r.Context()).Error("inventory service error", logger.Layer("controller"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
