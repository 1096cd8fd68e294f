// Package orders gestiona las órdenes de reparación.
package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/audit"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/orders"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/money"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/validation"
)

var (
	ErrMissingFields     = errors.New("cliente_nombre, equipo y falla son requeridos")
	ErrInvalidCost       = errors.New("costo_estimado no puede ser negativo")
	ErrInvalidStatus     = errors.New("estado inválido")
	ErrInvalidTechnician = errors.New("el técnico no existe, está inactivo o no tiene rol tecnico")
	ErrNotFound          = errors.New("orden no encontrada")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrConcurrentUpdate  = errors.New("la orden fue modificada por otro usuario")
)

type Deps struct {
	Orders repository.OrderRepository
	Users  repository.UserRepository
	Audit  *audit.Recorder
	Money  money.Formatter
}

type Services struct {
	Orders OrderService
}

func NewServices(d Deps) Services {
	if d.Money.Symbol == "" {
		d.Money = money.Default
	}
	return Services{Orders: &orderService{deps: d}}
}

type OrderService interface {
	Create(ctx context.Context, actorID string, in dto.CreateRequest) (*dto.Order, error)
	List(ctx context.Context, f repository.ListOrdersFilter) (*dto.ListResponse, error)
	Get(ctx context.Context, id string) (*dto.Order, error)
	UpdateStatus(ctx context.Context, actorID, id string, in dto.StatusRequest) (*dto.Order, error)
	Assign(ctx context.Context, actorID, id string, in dto.AssignRequest) (*dto.Order, error)
}

type orderService struct {
	deps Deps
}

func (s *orderService) Create(ctx context.Context, actorID string, in dto.CreateRequest) (*dto.Order, error) {
	in.ClienteNombre = strings.TrimSpace(in.ClienteNombre)
	in.Equipo = strings.TrimSpace(in.Equipo)
	in.Falla = strings.TrimSpace(in.Falla)
	if in.ClienteNombre == "" || in.Equipo == "" || in.Falla == "" {
		return nil, ErrMissingFields
	}
	if in.CostoEstimado < 0 {
		return nil, ErrInvalidCost
	}

	o, err := s.deps.Orders.Create(ctx, repository.RepairOrder{
		ClienteNombre: in.ClienteNombre,
		ClienteTel:    strings.TrimSpace(in.ClienteTel),
		ClienteEmail:  validation.NormalizeEmail(in.ClienteEmail),
		Equipo:        in.Equipo,
		Falla:         in.Falla,
		Estado:        repository.OrderRecibido,
		CostoEstimado: in.CostoEstimado,
		Notas:         strings.TrimSpace(in.Notas),
		CreadoPor:     actorID,
	})
	if err != nil {
		return nil, err
	}
	logger.From(ctx).Info("order created", logger.Layer("service"), logger.OrderID(o.ID))
	return s.toDTO(o), nil
}

func (s *orderService) List(ctx context.Context, f repository.ListOrdersFilter) (*dto.ListResponse, error) {
	if f.Estado != nil && !f.Estado.Valid() {
		return nil, ErrInvalidStatus
	}
	rows, err := s.deps.Orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.ListResponse{Items: make([]dto.Order, 0, len(rows))}
	for i := range rows {
		out.Items = append(out.Items, *s.toDTO(&rows[i]))
	}
	out.Count = len(out.Items)
	return out, nil
}

func (s *orderService) Get(ctx context.Context, id string) (*dto.Order, error) {
	o, err := s.deps.Orders.Get(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return s.toDTO(o), nil
}

func (s *orderService) UpdateStatus(ctx context.Context, actorID, id string, in dto.StatusRequest) (*dto.Order, error) {
	to := repository.OrderStatus(strings.TrimSpace(in.Estado))
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}

	cur, err := s.deps.Orders.Get(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	if !cur.Estado.CanTransition(to) {
		return nil, ErrInvalidTransition
	}

	o, err := s.deps.Orders.UpdateStatus(ctx, id, cur.Estado, to, strings.TrimSpace(in.Notas))
	if err != nil {
		return nil, mapErr(err)
	}

	s.deps.Audit.Log(ctx, audit.Entry{
		Event:   audit.EventOrderStatus,
		ActorID: actorID,
		Target:  id,
		Result:  "ok",
		Fields:  map[string]any{"from": string(cur.Estado), "to": string(to)},
	})
	return s.toDTO(o), nil
}

func (s *orderService) Assign(ctx context.Context, actorID, id string, in dto.AssignRequest) (*dto.Order, error) {
	tecnicoID := strings.TrimSpace(in.TecnicoID)
	if tecnicoID == "" {
		return nil, ErrInvalidTechnician
	}
	u, err := s.deps.Users.GetByID(ctx, tecnicoID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidTechnician
		}
		return nil, err
	}
	if !u.Activo || u.Role == nil || *u.Role != access.RoleTecnico {
		return nil, ErrInvalidTechnician
	}

	o, err := s.deps.Orders.AssignTechnician(ctx, id, u.ID)
	if err != nil {
		return nil, mapErr(err)
	}
	s.deps.Audit.Log(ctx, audit.Entry{
		Event:   audit.EventOrderStatus,
		ActorID: actorID,
		Target:  id,
		Result:  "assigned",
		Fields:  map[string]any{"tecnico_id": u.ID},
	})
	return s.toDTO(o), nil
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrConcurrentUpdate
	case errors.Is(err, repository.ErrInvalidTransition):
		return ErrInvalidTransition
	default:
		return err
	}
}

func (s *orderService) toDTO(o *repository.RepairOrder) *dto.Order {
	return &dto.Order{
		ID:             o.ID,
		ClienteNombre:  o.ClienteNombre,
		ClienteTel:     o.ClienteTel,
		ClienteEmail:   o.ClienteEmail,
		Equipo:         o.Equipo,
		Falla:          o.Falla,
		Estado:         string(o.Estado),
		TecnicoID:      o.TecnicoID,
		CostoEstimado:  o.CostoEstimado,
		CostoFormatted: s.deps.Money.Format(o.CostoEstimado),
		Notas:          o.Notas,
		CreadoPor:      o.CreadoPor,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}
