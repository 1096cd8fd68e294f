package repository

import (
	"context"
	"time"
)

// Product es un artículo del inventario.
type Product struct {
	ID        string
	SKU       string
	Nombre    string
	Precio    int64 // centavos
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ListProductsFilter struct {
	Search   string
	LowStock *int // stock <= LowStock
	Limit    int
	Offset   int
}

type ProductRepository interface {
	// Create retorna ErrConflict si el SKU ya existe.
	Create(ctx context.Context, p Product) (*Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, f ListProductsFilter) ([]Product, error)

	// AdjustStock suma delta al stock. Nunca deja el stock negativo:
	// retorna ErrInsufficientStock en ese caso.
	AdjustStock(ctx context.Context, id string, delta int) (*Product, error)
}
