package pg

import (
	"context"
	"database/sql"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
)

// ChallengeStore lee y consume desafíos de segundo factor usando la conexión
// de servicio. No depende de la sesión del usuario que se está verificando.
type ChallengeStore struct {
	db *sql.DB
}

func NewChallengeStore(db *sql.DB) *ChallengeStore {
	return &ChallengeStore{db: db}
}

func (s *ChallengeStore) GetChallenge(ctx context.Context, userID string) (*repository.TwoFactorChallenge, error) {
	uid, err := parseUUID(userID)
	if err != nil {
		return nil, err
	}

	var (
		c       repository.TwoFactorChallenge
		code    sql.NullString
		expires sql.NullTime
	)
	err = s.db.QueryRowContext(ctx, `
		SELECT id, email, nombre, activo, codigo_2fa, expira_2fa, verificado_2fa
		FROM usuarios WHERE id = $1`, uid.String()).
		Scan(&c.UserID, &c.Email, &c.Nombre, &c.Activo, &code, &expires, &c.Verified)
	if err != nil {
		return nil, notFound(err)
	}
	c.Code = strPtr(code)
	if expires.Valid {
		t := expires.Time
		c.ExpiresAt = &t
	}
	return &c, nil
}

func (s *ChallengeStore) StoreCode(ctx context.Context, userID, code string, expiresAt time.Time) error {
	uid, err := parseUUID(userID)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE usuarios
		SET codigo_2fa = $2, expira_2fa = $3, verificado_2fa = false, updated_at = now()
		WHERE id = $1`, uid.String(), code, expiresAt.UTC())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ConsumeCode compara y limpia en la misma sentencia. De dos verificaciones
// concurrentes con el mismo código solo una ve filas afectadas.
func (s *ChallengeStore) ConsumeCode(ctx context.Context, userID, code string) (bool, error) {
	uid, err := parseUUID(userID)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE usuarios
		SET codigo_2fa = NULL, expira_2fa = NULL, verificado_2fa = true, updated_at = now()
		WHERE id = $1 AND codigo_2fa = $2`, uid.String(), code)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *ChallengeStore) ConsumeVerification(ctx context.Context, userID string) (bool, error) {
	uid, err := parseUUID(userID)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE usuarios SET verificado_2fa = false, updated_at = now()
		WHERE id = $1 AND verificado_2fa = true`, uid.String())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
