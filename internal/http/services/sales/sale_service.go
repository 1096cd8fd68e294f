package sales

import (
	"context"
	"errors"
	"strings"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/audit"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	dto "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/dto/sales"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/ids"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
)

var (
	ErrEmptySale         = errors.New("la venta debe tener al menos un producto")
	ErrInvalidQuantity   = errors.New("la cantidad debe ser mayor a cero")
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrNotFound          = errors.New("venta no encontrada")
)

type SaleService interface {
	Create(ctx context.Context, vendedorID string, in dto.CreateRequest) (*dto.Sale, error)
	Get(ctx context.Context, id string) (*dto.Sale, error)
	List(ctx context.Context, limit, offset int) (*dto.ListResponse, error)
}

type saleService struct {
	deps     Deps
	payments PaymentService
}

// Create cotiza con los precios actuales, simula el pago y registra la venta.
// El store vuelve a fijar los precios dentro de la transacción.
func (s *saleService) Create(ctx context.Context, vendedorID string, in dto.CreateRequest) (*dto.Sale, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("sales"), logger.Op("Create"))

	lines, err := mergeLines(in.Items)
	if err != nil {
		return nil, err
	}

	var quote int64
	for _, ln := range lines {
		p, err := s.deps.Products.Get(ctx, ln.ProductID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
		if p.Stock < ln.Cantidad {
			return nil, ErrInsufficientStock
		}
		quote += p.Precio * int64(ln.Cantidad)
	}

	pay, err := s.payments.Simulate(ctx, dto.PaymentRequest{Amount: quote, Method: in.MetodoPago})
	if err != nil {
		return nil, err
	}

	sale, err := s.deps.Sales.Create(ctx, repository.NewSale{
		ID:            ids.New(),
		VendedorID:    vendedorID,
		ClienteNombre: strings.TrimSpace(in.ClienteNombre),
		ClienteEmail:  strings.ToLower(strings.TrimSpace(in.ClienteEmail)),
		Lines:         lines,
		MetodoPago:    pay.Method,
		Transaccion:   pay.TransactionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			return nil, ErrInsufficientStock
		case repository.IsNotFound(err):
			return nil, ErrProductNotFound
		}
		log.Error("sale insert failed", logger.Err(err))
		return nil, err
	}

	s.deps.Audit.Log(ctx, audit.Entry{
		Event:   audit.EventSaleCreated,
		ActorID: vendedorID,
		Target:  sale.ID,
		Result:  "ok",
		Fields:  map[string]any{"total": sale.Total, "transaccion": sale.Transaccion},
	})
	log.Info("sale created", logger.SaleID(sale.ID), logger.Count(len(sale.Items)))
	return s.toDTO(sale), nil
}

func (s *saleService) Get(ctx context.Context, id string) (*dto.Sale, error) {
	sale, err := s.deps.Sales.Get(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.toDTO(sale), nil
}

func (s *saleService) List(ctx context.Context, limit, offset int) (*dto.ListResponse, error) {
	rows, err := s.deps.Sales.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ListResponse{Items: make([]dto.Sale, 0, len(rows))}
	for i := range rows {
		out.Items = append(out.Items, *s.toDTO(&rows[i]))
	}
	out.Count = len(out.Items)
	return out, nil
}

// mergeLines valida y agrupa líneas repetidas del mismo producto, conservando el orden.
func mergeLines(items []dto.LineRequest) ([]repository.NewSaleLine, error) {
	if len(items) == 0 {
		return nil, ErrEmptySale
	}
	idx := make(map[string]int, len(items))
	out := make([]repository.NewSaleLine, 0, len(items))
	for _, it := range items {
		id := strings.TrimSpace(it.ProductID)
		if id == "" {
			return nil, ErrProductNotFound
		}
		if it.Cantidad <= 0 {
			return nil, ErrInvalidQuantity
		}
		if i, ok := idx[id]; ok {
			out[i].Cantidad += it.Cantidad
			continue
		}
		idx[id] = len(out)
		out = append(out, repository.NewSaleLine{ProductID: id, Cantidad: it.Cantidad})
	}
	return out, nil
}

func (s *saleService) toDTO(v *repository.Sale) *dto.Sale {
	out := &dto.Sale{
		ID:             v.ID,
		VendedorID:     v.VendedorID,
		ClienteNombre:  v.ClienteNombre,
		ClienteEmail:   v.ClienteEmail,
		Total:          v.Total,
		TotalFormatted: s.deps.Money.Format(v.Total),
		MetodoPago:     v.MetodoPago,
		Transaccion:    v.Transaccion,
		CreatedAt:      v.CreatedAt,
	}
	for _, it := range v.Items {
		out.Items = append(out.Items, dto.Item{
			ProductID: it.ProductID,
			Nombre:    it.Nombre,
			Cantidad:  it.Cantidad,
			Unitario:  it.Unitario,
			Subtotal:  it.Subtotal,
		})
	}
	return out
}
