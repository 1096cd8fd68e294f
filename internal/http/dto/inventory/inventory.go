// Package inventory contiene DTOs de productos.
package inventory

import "time"

type CreateRequest struct {
	SKU    string `json:"sku"`
	Nombre string `json:"nombre"`
	Precio int64  `json:"precio"`
	Stock  int    `json:"stock"`
}

// AdjustRequest suma Delta al stock (negativo descuenta).
type AdjustRequest struct {
	Delta  int    `json:"delta"`
	Motivo string `json:"motivo"`
}

type Product struct {
	ID              string    `json:"id"`
	SKU             string    `json:"sku"`
	Nombre          string    `json:"nombre"`
	Precio          int64     `json:"precio"`
	PrecioFormatted string    `json:"precio_fmt"`
	Stock           int       `json:"stock"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ListResponse struct {
	Items []Product `json:"items"`
	Count int       `json:"count"`
}
