package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/ids"
)

const productCols = `id, sku, nombre, precio, stock, created_at, updated_at`

// ProductStore implementa repository.ProductRepository.
type ProductStore struct {
	db *sql.DB
}

func scanProduct(row rowScanner) (*repository.Product, error) {
	var p repository.Product
	if err := row.Scan(&p.ID, &p.SKU, &p.Nombre, &p.Precio, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductStore) Create(ctx context.Context, p repository.Product) (*repository.Product, error) {
	if p.ID == "" {
		p.ID = ids.New()
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO productos (id, sku, nombre, precio, stock)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+productCols,
		p.ID, strings.TrimSpace(p.SKU), p.Nombre, p.Precio, p.Stock)
	out, err := scanProduct(row)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, fmt.Errorf("sku %q: %w", p.SKU, repository.ErrConflict)
		case isCheckViolation(err):
			return nil, repository.ErrInvalidInput
		}
		return nil, err
	}
	return out, nil
}

func (s *ProductStore) Get(ctx context.Context, id string) (*repository.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `SELECT `+productCols+` FROM productos WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *ProductStore) List(ctx context.Context, f repository.ListProductsFilter) ([]repository.Product, error) {
	q := `SELECT ` + productCols + ` FROM productos WHERE 1=1`
	var args []any
	if term := strings.TrimSpace(f.Search); term != "" {
		args = append(args, "%"+strings.ToLower(term)+"%")
		q += fmt.Sprintf(` AND (lower(nombre) LIKE $%d OR lower(sku) LIKE $%d)`, len(args), len(args))
	}
	if f.LowStock != nil {
		args = append(args, *f.LowStock)
		q += fmt.Sprintf(` AND stock <= $%d`, len(args))
	}
	args = append(args, clampLimit(f.Limit, 50, 200), max(f.Offset, 0))
	q += fmt.Sprintf(` ORDER BY nombre ASC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *ProductStore) AdjustStock(ctx context.Context, id string, delta int) (*repository.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE productos SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING `+productCols, id, delta)
	p, err := scanProduct(row)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if _, gerr := s.Get(ctx, id); gerr != nil {
		return nil, gerr
	}
	return nil, repository.ErrInsufficientStock
}
