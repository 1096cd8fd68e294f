package sales

import (
	"context"
	"errors"
	"strings"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/audit"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/email"
	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/sales"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/validation"
)

var (
	ErrMissingSaleID  = errors.New("sale_id es requerido")
	ErrNoRecipient    = errors.New("La venta no tiene email de cliente; indique email")
	ErrInvalidEmail   = errors.New("Email inválido")
	ErrReceiptNotSent = errors.New("Error al enviar el recibo")
)

// ReceiptService envía el recibo de una venta por email.
type ReceiptService interface {
	Send(ctx context.Context, actorID string, in dto.ReceiptRequest) (*dto.ReceiptResponse, error)
}

type receiptService struct {
	deps Deps
}

func (s *receiptService) Send(ctx context.Context, actorID string, in dto.ReceiptRequest) (*dto.ReceiptResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("receipts"), logger.Op("Send"))

	in.SaleID = strings.TrimSpace(in.SaleID)
	if in.SaleID == "" {
		return nil, ErrMissingSaleID
	}

	sale, err := s.deps.Sales.Get(ctx, in.SaleID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	to := validation.NormalizeEmail(in.Email)
	if to == "" {
		to = sale.ClienteEmail
	}
	if to == "" {
		return nil, ErrNoRecipient
	}
	if !validation.ValidEmail(to) {
		return nil, ErrInvalidEmail
	}

	data := email.ReceiptData{
		AppName:     s.deps.AppName,
		SaleID:      sale.ID,
		Fecha:       sale.CreatedAt,
		Cliente:     sale.ClienteNombre,
		Total:       s.deps.Money.Format(sale.Total),
		MetodoPago:  sale.MetodoPago,
		Transaccion: sale.Transaccion,
	}
	for _, it := range sale.Items {
		data.Lineas = append(data.Lineas, email.ReceiptLine{
			Descripcion: it.Nombre,
			Cantidad:    it.Cantidad,
			Unitario:    s.deps.Money.Format(it.Unitario),
			Subtotal:    s.deps.Money.Format(it.Subtotal),
		})
	}

	msg, err := email.ReceiptMessage(to, data)
	if err == nil {
		err = s.deps.Mailer.Send(ctx, msg)
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.deps.Audit.Log(ctx, audit.Entry{
		Event:   audit.EventReceiptSent,
		ActorID: actorID,
		Target:  sale.ID,
		Result:  result,
	})
	if err != nil {
		log.Error("receipt send failed", logger.SaleID(sale.ID), logger.Err(err))
		return nil, ErrReceiptNotSent
	}

	return &dto.ReceiptResponse{Success: true, SentTo: to}, nil
}
