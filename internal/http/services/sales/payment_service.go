package sales

import (
	"context"
	"errors"
	"strings"
	"time"

	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/sales"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/ids"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
)

var (
	ErrInvalidAmount = errors.New("El monto debe ser mayor a cero")
	ErrInvalidMethod = errors.New("Método de pago inválido")
)

// Métodos de pago aceptados. Vacío equivale a efectivo.
var paymentMethods = map[string]bool{
	"efectivo":      true,
	"tarjeta":       true,
	"transferencia": true,
}

// PaymentService simula una pasarela: aprueba todo monto positivo.
type PaymentService interface {
	Simulate(ctx context.Context, in dto.PaymentRequest) (*dto.PaymentResponse, error)
}

type paymentService struct {
	now func() time.Time
}

func NewPaymentService(now func() time.Time) PaymentService {
	if now == nil {
		now = time.Now
	}
	return &paymentService{now: now}
}

func (s *paymentService) Simulate(ctx context.Context, in dto.PaymentRequest) (*dto.PaymentResponse, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	method := strings.ToLower(strings.TrimSpace(in.Method))
	if method == "" {
		method = "efectivo"
	}
	if !paymentMethods[method] {
		return nil, ErrInvalidMethod
	}

	res := &dto.PaymentResponse{
		Approved:      true,
		TransactionID: ids.New(),
		Amount:        in.Amount,
		Method:        method,
		ProcessedAt:   s.now().UTC(),
	}
	logger.From(ctx).Info("payment simulated",
		logger.Component("payments"),
		logger.String("transaction_id", res.TransactionID),
		logger.Int64("amount", res.Amount),
	)
	return res, nil
}
