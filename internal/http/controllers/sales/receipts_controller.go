package sales

import (
	"errors"
	"net/http"

	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/sales"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/helpers"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/middlewares"
	svc "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/sales"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
)

type ReceiptsController struct {
	service svc.ReceiptService
}

func NewReceiptsController(s svc.ReceiptService) *ReceiptsController {
	return &ReceiptsController{service: s}
}

// Send maneja POST /v1/receipts/email
func (c *ReceiptsController) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST, OPTIONS")
		helpers.WriteErrorJSON(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	var req dto.ReceiptRequest
	if !decodeFlat(w, r, &req) {
		return
	}

	ctx := r.Context()
	res, err := c.service.Send(ctx, middlewares.GetUserID(ctx), req)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrMissingSaleID),
			errors.Is(err, svc.ErrNoRecipient),
			errors.Is(err, svc.ErrInvalidEmail):
			helpers.WriteErrorJSON(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, svc.ErrNotFound):
			helpers.WriteErrorJSON(w, http.StatusNotFound, err.Error())
		case errors.Is(err, svc.ErrReceiptNotSent):
			helpers.WriteErrorJSON(w, http.StatusInternalServerError, err.Error())
		default:
			logger.From(ctx).Error("receipt failed", logger.Layer("controller"), logger.Err(err))
			helpers.WriteErrorJSON(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}
