package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/google/uuid"
)

const userCols = `id, email, nombre, password_hash, rol, activo, created_at, updated_at`

// UserStore implementa repository.UserRepository.
type UserStore struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*repository.User, error) {
	var u repository.User
	var rol sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &u.Nombre, &u.PasswordHash, &rol, &u.Activo, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if rol.Valid {
		// Un rol desconocido en la base se trata como "sin rol".
		if r, ok := access.ParseRole(rol.String); ok {
			u.Role = &r
		}
	}
	return &u, nil
}

func roleArg(r *access.Role) sql.NullString {
	if r == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*r), Valid: true}
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM usuarios WHERE lower(email) = lower($1)`, strings.TrimSpace(email))
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*repository.User, error) {
	uid, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM usuarios WHERE id = $1`, uid.String()))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *UserStore) List(ctx context.Context, f repository.ListUsersFilter) ([]repository.User, error) {
	q := `SELECT ` + userCols + ` FROM usuarios WHERE 1=1`
	var args []any
	if f.Role != nil {
		args = append(args, string(*f.Role))
		q += fmt.Sprintf(` AND rol = $%d`, len(args))
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		args = append(args, "%"+strings.ToLower(term)+"%")
		q += fmt.Sprintf(` AND (lower(email) LIKE $%d OR lower(nombre) LIKE $%d)`, len(args), len(args))
	}
	args = append(args, clampLimit(f.Limit, 50, 200), max(f.Offset, 0))
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (s *UserStore) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	id := uuid.New()
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO usuarios (id, email, nombre, password_hash, rol, activo)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userCols,
		id.String(), strings.TrimSpace(in.Email), in.Nombre, in.PasswordHash, roleArg(in.Role), in.Activo)
	u, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("email %q: %w", in.Email, repository.ErrConflict)
		}
		return nil, err
	}
	return u, nil
}

func (s *UserStore) SetRole(ctx context.Context, id string, role *access.Role) (*repository.User, error) {
	uid, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE usuarios SET rol = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userCols, uid.String(), roleArg(role))
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *UserStore) ToggleActive(ctx context.Context, id string) (*repository.User, error) {
	uid, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE usuarios SET activo = NOT activo, updated_at = now()
		WHERE id = $1
		RETURNING `+userCols, uid.String())
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *UserStore) SetPasswordHash(ctx context.Context, id, hash string) error {
	uid, err := parseUUID(id)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE usuarios SET password_hash = $2, updated_at = now() WHERE id = $1`, uid.String(), hash)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
