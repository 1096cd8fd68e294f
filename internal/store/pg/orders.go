package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/ids"
)

const orderCols = `id, cliente_nombre, cliente_tel, cliente_email, equipo, falla, estado,
	tecnico_id, costo_estimado, notas, coalesce(creado_por::text, ''), created_at, updated_at`

// OrderStore implementa repository.OrderRepository.
type OrderStore struct {
	db *sql.DB
}

func scanOrder(row rowScanner) (*repository.RepairOrder, error) {
	var (
		o       repository.RepairOrder
		tecnico sql.NullString
	)
	err := row.Scan(&o.ID, &o.ClienteNombre, &o.ClienteTel, &o.ClienteEmail, &o.Equipo, &o.Falla, &o.Estado,
		&tecnico, &o.CostoEstimado, &o.Notas, &o.CreadoPor, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.TecnicoID = strPtr(tecnico)
	return &o, nil
}

func (s *OrderStore) Create(ctx context.Context, o repository.RepairOrder) (*repository.RepairOrder, error) {
	if o.ID == "" {
		o.ID = ids.New()
	}
	if o.Estado == "" {
		o.Estado = repository.OrderRecibido
	}
	var creadoPor sql.NullString
	if o.CreadoPor != "" {
		if _, err := parseUUID(o.CreadoPor); err != nil {
			return nil, fmt.Errorf("creado_por: %w", repository.ErrInvalidInput)
		}
		creadoPor = sql.NullString{String: o.CreadoPor, Valid: true}
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO ordenes_reparacion
			(id, cliente_nombre, cliente_tel, cliente_email, equipo, falla, estado, tecnico_id, costo_estimado, notas, creado_por)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+orderCols,
		o.ID, o.ClienteNombre, o.ClienteTel, o.ClienteEmail, o.Equipo, o.Falla, string(o.Estado),
		nullString(o.TecnicoID), o.CostoEstimado, o.Notas, creadoPor)
	out, err := scanOrder(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		if isCheckViolation(err) {
			return nil, repository.ErrInvalidInput
		}
		return nil, err
	}
	return out, nil
}

func (s *OrderStore) Get(ctx context.Context, id string) (*repository.RepairOrder, error) {
	o, err := scanOrder(s.db.QueryRowContext(ctx, `SELECT `+orderCols+` FROM ordenes_reparacion WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (s *OrderStore) List(ctx context.Context, f repository.ListOrdersFilter) ([]repository.RepairOrder, error) {
	q := `SELECT ` + orderCols + ` FROM ordenes_reparacion WHERE 1=1`
	var args []any
	if f.Estado != nil {
		args = append(args, string(*f.Estado))
		q += fmt.Sprintf(` AND estado = $%d`, len(args))
	}
	if f.TecnicoID != nil {
		if _, err := parseUUID(*f.TecnicoID); err != nil {
			return nil, nil
		}
		args = append(args, *f.TecnicoID)
		q += fmt.Sprintf(` AND tecnico_id = $%d`, len(args))
	}
	args = append(args, clampLimit(f.Limit, 50, 200), max(f.Offset, 0))
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.RepairOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id string, from, to repository.OrderStatus, notas string) (*repository.RepairOrder, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE ordenes_reparacion
		SET estado = $3,
		    notas = CASE WHEN $4 = '' THEN notas ELSE $4 END,
		    updated_at = now()
		WHERE id = $1 AND estado = $2
		RETURNING `+orderCols, id, string(from), string(to), notas)
	o, err := scanOrder(row)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	// Sin filas: o la orden no existe o alguien cambió el estado antes.
	if _, gerr := s.Get(ctx, id); gerr != nil {
		return nil, gerr
	}
	return nil, repository.ErrConflict
}

func (s *OrderStore) AssignTechnician(ctx context.Context, id, tecnicoID string) (*repository.RepairOrder, error) {
	if _, err := parseUUID(tecnicoID); err != nil {
		return nil, fmt.Errorf("tecnico_id: %w", repository.ErrInvalidInput)
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE ordenes_reparacion SET tecnico_id = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+orderCols, id, tecnicoID)
	o, err := scanOrder(row)
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}
