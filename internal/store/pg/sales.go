package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/ids"
)

// SaleStore implementa repository.SaleRepository.
type SaleStore struct {
	db *sql.DB
}

// Create descuenta el stock línea por línea con un UPDATE condicional, así dos
// ventas simultáneas del último artículo no pueden pasar ambas.
func (s *SaleStore) Create(ctx context.Context, in repository.NewSale) (*repository.Sale, error) {
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("venta sin líneas: %w", repository.ErrInvalidInput)
	}
	if in.ID == "" {
		in.ID = ids.New()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	sale := &repository.Sale{
		ID:            in.ID,
		VendedorID:    in.VendedorID,
		ClienteNombre: in.ClienteNombre,
		ClienteEmail:  in.ClienteEmail,
		MetodoPago:    in.MetodoPago,
		Transaccion:   in.Transaccion,
	}
	for _, ln := range in.Lines {
		if ln.Cantidad <= 0 {
			return nil, fmt.Errorf("cantidad %d: %w", ln.Cantidad, repository.ErrInvalidInput)
		}
		var item repository.SaleItem
		err := tx.QueryRowContext(ctx, `
			UPDATE productos SET stock = stock - $2, updated_at = now()
			WHERE id = $1 AND stock >= $2
			RETURNING nombre, precio`, ln.ProductID, ln.Cantidad).
			Scan(&item.Nombre, &item.Unitario)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return nil, err
			}
			var exists bool
			if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM productos WHERE id = $1)`, ln.ProductID).Scan(&exists); err != nil {
				return nil, err
			}
			if !exists {
				return nil, fmt.Errorf("producto %s: %w", ln.ProductID, repository.ErrNotFound)
			}
			return nil, fmt.Errorf("producto %s: %w", ln.ProductID, repository.ErrInsufficientStock)
		}
		item.ProductID = ln.ProductID
		item.Cantidad = ln.Cantidad
		item.Subtotal = item.Unitario * int64(ln.Cantidad)
		sale.Items = append(sale.Items, item)
		sale.Total += item.Subtotal
	}

	var vendedor sql.NullString
	if in.VendedorID != "" {
		vendedor = sql.NullString{String: in.VendedorID, Valid: true}
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO ventas (id, vendedor_id, cliente_nombre, cliente_email, total, metodo_pago, transaccion)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		sale.ID, vendedor, sale.ClienteNombre, sale.ClienteEmail, sale.Total, sale.MetodoPago, sale.Transaccion).
		Scan(&sale.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		return nil, err
	}

	for i, it := range sale.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO venta_items (venta_id, linea, producto_id, nombre, cantidad, unitario, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			sale.ID, i+1, it.ProductID, it.Nombre, it.Cantidad, it.Unitario, it.Subtotal); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return sale, nil
}

const saleCols = `id, coalesce(vendedor_id::text, ''), cliente_nombre, cliente_email, total, metodo_pago, transaccion, created_at`

func scanSale(row rowScanner) (*repository.Sale, error) {
	var v repository.Sale
	if err := row.Scan(&v.ID, &v.VendedorID, &v.ClienteNombre, &v.ClienteEmail, &v.Total, &v.MetodoPago, &v.Transaccion, &v.CreatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *SaleStore) Get(ctx context.Context, id string) (*repository.Sale, error) {
	v, err := scanSale(s.db.QueryRowContext(ctx, `SELECT `+saleCols+` FROM ventas WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT producto_id, nombre, cantidad, unitario, subtotal
		FROM venta_items WHERE venta_id = $1 ORDER BY linea ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it repository.SaleItem
		if err := rows.Scan(&it.ProductID, &it.Nombre, &it.Cantidad, &it.Unitario, &it.Subtotal); err != nil {
			return nil, err
		}
		v.Items = append(v.Items, it)
	}
	return v, rows.Err()
}

// List devuelve las ventas sin sus líneas, más recientes primero.
func (s *SaleStore) List(ctx context.Context, limit, offset int) ([]repository.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+saleCols+` FROM ventas ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		clampLimit(limit, 50, 200), max(offset, 0))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.Sale
	for rows.Next() {
		v, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}
