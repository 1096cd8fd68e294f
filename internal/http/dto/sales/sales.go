// Package sales contiene DTOs de ventas, pagos simulados y recibos.
package sales

import "time"

type LineRequest struct {
	ProductID string `json:"product_id"`
	Cantidad  int    `json:"quantity"`
}

type CreateRequest struct {
	ClienteNombre string        `json:"cliente_nombre"`
	ClienteEmail  string        `json:"cliente_email"`
	MetodoPago    string        `json:"metodo_pago"`
	Items         []LineRequest `json:"items"`
}

type Item struct {
	ProductID string `json:"product_id"`
	Nombre    string `json:"nombre"`
	Cantidad  int    `json:"quantity"`
	Unitario  int64  `json:"unitario"`
	Subtotal  int64  `json:"subtotal"`
}

type Sale struct {
	ID             string    `json:"id"`
	VendedorID     string    `json:"vendedor_id"`
	ClienteNombre  string    `json:"cliente_nombre"`
	ClienteEmail   string    `json:"cliente_email,omitempty"`
	Items          []Item    `json:"items,omitempty"`
	Total          int64     `json:"total"`
	TotalFormatted string    `json:"total_fmt"`
	MetodoPago     string    `json:"metodo_pago"`
	Transaccion    string    `json:"transaccion"`
	CreatedAt      time.Time `json:"created_at"`
}

type ListResponse struct {
	Items []Sale `json:"items"`
	Count int    `json:"count"`
}

// PaymentRequest es el body de POST /v1/payments/simulate.
type PaymentRequest struct {
	Amount int64  `json:"amount"`
	Method string `json:"method"`
}

type PaymentResponse struct {
	Approved      bool      `json:"approved"`
	TransactionID string    `json:"transaction_id"`
	Amount        int64     `json:"amount"`
	Method        string    `json:"method"`
	ProcessedAt   time.Time `json:"processed_at"`
}

// ReceiptRequest: Email vacío usa el email del cliente de la venta.
type ReceiptRequest struct {
	SaleID string `json:"sale_id"`
	Email  string `json:"email"`
}

type ReceiptResponse struct {
	Success bool   `json:"success"`
	SentTo  string `json:"sent_to"`
}
