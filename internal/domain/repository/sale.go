package repository

import (
	"context"
	"time"
)

type SaleItem struct {
	ProductID string
	Nombre    string
	Cantidad  int
	Unitario  int64 // precio al momento de la venta, centavos
	Subtotal  int64
}

// Sale es una venta con sus líneas.
type Sale struct {
	ID            string
	VendedorID    string
	ClienteNombre string
	ClienteEmail  string
	Items         []SaleItem
	Total         int64
	MetodoPago    string
	Transaccion   string
	CreatedAt     time.Time
}

// NewSaleLine es una línea solicitada; el precio lo fija el store.
type NewSaleLine struct {
	ProductID string
	Cantidad  int
}

type NewSale struct {
	ID            string
	VendedorID    string
	ClienteNombre string
	ClienteEmail  string
	Lines         []NewSaleLine
	MetodoPago    string
	Transaccion   string
}

type SaleRepository interface {
	// Create descuenta stock, congela precios e inserta la venta en una transacción.
	// ErrInsufficientStock si alguna línea no alcanza; ErrNotFound si un producto no existe.
	Create(ctx context.Context, in NewSale) (*Sale, error)
	Get(ctx context.Context, id string) (*Sale, error)
	List(ctx context.Context, limit, offset int) ([]Sale, error)
}
