// Package orders contiene DTOs de órdenes de reparación.
package orders

import "time"

type CreateRequest struct {
	ClienteNombre string `json:"cliente_nombre"`
	ClienteTel    string `json:"cliente_telefono"`
	ClienteEmail  string `json:"cliente_email"`
	Equipo        string `json:"equipo"`
	Falla         string `json:"falla"`
	CostoEstimado int64  `json:"costo_estimado"`
	Notas         string `json:"notas"`
}

type StatusRequest struct {
	Estado string `json:"estado"`
	Notas  string `json:"notas"`
}

type AssignRequest struct {
	TecnicoID string `json:"tecnico_id"`
}

type Order struct {
	ID             string    `json:"id"`
	ClienteNombre  string    `json:"cliente_nombre"`
	ClienteTel     string    `json:"cliente_telefono,omitempty"`
	ClienteEmail   string    `json:"cliente_email,omitempty"`
	Equipo         string    `json:"equipo"`
	Falla          string    `json:"falla"`
	Estado         string    `json:"estado"`
	TecnicoID      *string   `json:"tecnico_id"`
	CostoEstimado  int64     `json:"costo_estimado"`
	CostoFormatted string    `json:"costo_estimado_fmt"`
	Notas          string    `json:"notas,omitempty"`
	CreadoPor      string    `json:"creado_por,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ListResponse struct {
	Items []Order `json:"items"`
	Count int     `json:"count"`
}
