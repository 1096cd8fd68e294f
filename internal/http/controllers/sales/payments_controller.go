package sales

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/sales"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/helpers"
	svc "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/sales"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
)

const (
	msgMethodNotAllowed = "Método no permitido"
	msgInvalidBody      = "Cuerpo de la solicitud inválido"
	msgInternal         = "Error interno del servidor"
)

// PaymentsController es un handler tipo función: responde {error} plano.
// El preflight y los headers CORS los pone middlewares.FunctionCORS.
type PaymentsController struct {
	service svc.PaymentService
}

func NewPaymentsController(s svc.PaymentService) *PaymentsController {
	return &PaymentsController{service: s}
}

// Simulate maneja POST /v1/payments/simulate
func (c *PaymentsController) Simulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST, OPTIONS")
		helpers.WriteErrorJSON(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	var req dto.PaymentRequest
	if !decodeFlat(w, r, &req) {
		return
	}

	res, err := c.service.Simulate(r.Context(), req)
	if err != nil {
		if errors.Is(err, svc.ErrInvalidAmount) || errors.Is(err, svc.ErrInvalidMethod) {
			helpers.WriteErrorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.From(r.Context()).Error("payment simulation failed", logger.Layer("controller"), logger.Err(err))
		helpers.WriteErrorJSON(w, http.StatusInternalServerError, msgInternal)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

// decodeFlat decodifica el body con límite de 64KB. Body vacío no es error.
func decodeFlat(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		helpers.WriteErrorJSON(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}
