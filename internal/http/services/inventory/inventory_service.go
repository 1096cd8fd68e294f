// Package inventory gestiona productos y ajustes de stock.
package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/audit"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/inventory"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/money"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/validation"
)

var (
	ErrMissingFields     = errors.New("sku y nombre son requeridos")
	ErrInvalidAmounts    = errors.New("precio y stock no pueden ser negativos")
	ErrZeroDelta         = errors.New("delta debe ser distinto de cero")
	ErrInvalidSKU        = errors.New("SKU inválido: solo mayúsculas, dígitos, '-', '_' o '.'")
	ErrSKUExists         = errors.New("el SKU ya existe")
	ErrNotFound          = errors.New("producto no encontrado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

type Deps struct {
	Products repository.ProductRepository
	Audit    *audit.Recorder
	Money    money.Formatter
}

type Services struct {
	Products ProductService
}

func NewServices(d Deps) Services {
	if d.Money.Symbol == "" {
		d.Money = money.Default
	}
	return Services{Products: &productService{deps: d}}
}

type ProductService interface {
	Create(ctx context.Context, in dto.CreateRequest) (*dto.Product, error)
	List(ctx context.Context, f repository.ListProductsFilter) (*dto.ListResponse, error)
	Get(ctx context.Context, id string) (*dto.Product, error)
	Adjust(ctx context.Context, actorID, id string, in dto.AdjustRequest) (*dto.Product, error)
}

type productService struct {
	deps Deps
}

func (s *productService) Create(ctx context.Context, in dto.CreateRequest) (*dto.Product, error) {
	in.SKU = strings.ToUpper(strings.TrimSpace(in.SKU))
	in.Nombre = strings.TrimSpace(in.Nombre)
	if in.SKU == "" || in.Nombre == "" {
		return nil, ErrMissingFields
	}
	if !validation.ValidSKU(in.SKU) {
		return nil, ErrInvalidSKU
	}
	if in.Precio < 0 || in.Stock < 0 {
		return nil, ErrInvalidAmounts
	}

	p, err := s.deps.Products.Create(ctx, repository.Product{
		SKU:    in.SKU,
		Nombre: in.Nombre,
		Precio: in.Precio,
		Stock:  in.Stock,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, ErrSKUExists
		}
		return nil, err
	}
	return s.toDTO(p), nil
}

func (s *productService) List(ctx context.Context, f repository.ListProductsFilter) (*dto.ListResponse, error) {
	f.Search = strings.TrimSpace(f.Search)
	rows, err := s.deps.Products.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.ListResponse{Items: make([]dto.Product, 0, len(rows))}
	for i := range rows {
		out.Items = append(out.Items, *s.toDTO(&rows[i]))
	}
	out.Count = len(out.Items)
	return out, nil
}

func (s *productService) Get(ctx context.Context, id string) (*dto.Product, error) {
	p, err := s.deps.Products.Get(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.toDTO(p), nil
}

// Adjust nunca deja el stock negativo; la condición la aplica el store.
func (s *productService) Adjust(ctx context.Context, actorID, id string, in dto.AdjustRequest) (*dto.Product, error) {
	if in.Delta == 0 {
		return nil, ErrZeroDelta
	}
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("inventory.Adjust"), logger.ProductID(id))

	p, err := s.deps.Products.AdjustStock(ctx, id, in.Delta)
	if err != nil {
		switch {
		case repository.IsNotFound(err):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrInsufficientStock):
			log.Info("insufficient stock", logger.Int("delta", in.Delta))
			return nil, ErrInsufficientStock
		}
		return nil, err
	}

	s.deps.Audit.Log(ctx, audit.Entry{
		Event:   audit.EventStockAdjusted,
		ActorID: actorID,
		Target:  p.ID,
		Result:  "ok",
		Fields:  map[string]any{"delta": in.Delta, "stock": p.Stock, "motivo": strings.TrimSpace(in.Motivo)},
	})
	return s.toDTO(p), nil
}

func (s *productService) toDTO(p *repository.Product) *dto.Product {
	return &dto.Product{
		ID:              p.ID,
		SKU:             p.SKU,
		Nombre:          p.Nombre,
		Precio:          p.Precio,
		PrecioFormatted: s.deps.Money.Format(p.Precio),
		Stock:           p.Stock,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
