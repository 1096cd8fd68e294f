// Package sales contiene los controllers de ventas, pagos simulados y recibos.
package sales

import svc "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/sales"

type Controllers struct {
	Sales    *SalesController
	Payments *PaymentsController
	Receipts *ReceiptsController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Sales:    NewSalesController(s.Sales),
		Payments: NewPaymentsController(s.Payments),
		Receipts: NewReceiptsController(s.Receipts),
	}
}
