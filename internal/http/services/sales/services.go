// Package sales contiene ventas, el simulador de pagos y el envío de recibos.
package sales

import (
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/audit"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/email"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/money"
)

type Deps struct {
	Sales    repository.SaleRepository
	Products repository.ProductRepository
	Mailer   email.Sender
	Audit    *audit.Recorder
	Money    money.Formatter
	AppName  string
	Now      func() time.Time
}

type Services struct {
	Sales    SaleService
	Payments PaymentService
	Receipts ReceiptService
}

func NewServices(d Deps) Services {
	if d.Money.Symbol == "" {
		d.Money = money.Default
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.AppName == "" {
		d.AppName = "MundoComputo"
	}
	payments := NewPaymentService(d.Now)
	return Services{
		Sales:    &saleService{deps: d, payments: payments},
		Payments: payments,
		Receipts: &receiptService{deps: d},
	}
}
