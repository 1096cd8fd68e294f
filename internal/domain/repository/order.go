package repository

import (
	"context"
	"time"
)

// OrderStatus es el estado de una orden de reparación.
type OrderStatus string

const (
	OrderRecibido     OrderStatus = "recibido"
	OrderDiagnostico  OrderStatus = "diagnostico"
	OrderEnReparacion OrderStatus = "en_reparacion"
	OrderListo        OrderStatus = "listo"
	OrderEntregado    OrderStatus = "entregado"
	OrderCancelado    OrderStatus = "cancelado"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderRecibido, OrderDiagnostico, OrderEnReparacion, OrderListo, OrderEntregado, OrderCancelado:
		return true
	default:
		return false
	}
}

// Terminal indica si la orden ya no admite cambios de estado.
func (s OrderStatus) Terminal() bool {
	return s == OrderEntregado || s == OrderCancelado
}

// CanTransition valida el flujo recibido → diagnostico → en_reparacion → listo → entregado.
// cancelado es alcanzable desde cualquier estado no terminal.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if s.Terminal() || !to.Valid() {
		return false
	}
	if to == OrderCancelado {
		return true
	}
	switch s {
	case OrderRecibido:
		return to == OrderDiagnostico
	case OrderDiagnostico:
		return to == OrderEnReparacion
	case OrderEnReparacion:
		return to == OrderListo
	case OrderListo:
		return to == OrderEntregado
	default:
		return false
	}
}

// RepairOrder es una orden de reparación de equipo.
type RepairOrder struct {
	ID            string
	ClienteNombre string
	ClienteTel    string
	ClienteEmail  string
	Equipo        string
	Falla         string
	Estado        OrderStatus
	TecnicoID     *string
	CostoEstimado int64 // centavos
	Notas         string
	CreadoPor     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ListOrdersFilter struct {
	Estado    *OrderStatus
	TecnicoID *string
	Limit     int
	Offset    int
}

type OrderRepository interface {
	Create(ctx context.Context, o RepairOrder) (*RepairOrder, error)
	Get(ctx context.Context, id string) (*RepairOrder, error)
	List(ctx context.Context, f ListOrdersFilter) ([]RepairOrder, error)

	// UpdateStatus cambia el estado solo si el estado actual sigue siendo from.
	// ErrConflict si otro request lo cambió antes; ErrNotFound si no existe.
	UpdateStatus(ctx context.Context, id string, from, to OrderStatus, notas string) (*RepairOrder, error)

	AssignTechnician(ctx context.Context, id, tecnicoID string) (*RepairOrder, error)
}
