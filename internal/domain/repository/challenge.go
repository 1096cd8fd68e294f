package repository

import (
	"context"
	"time"
)

// TwoFactorChallenge es el desafío pendiente de segundo factor de un usuario.
// Code y ExpiresAt en nil significan "sin código pendiente".
type TwoFactorChallenge struct {
	UserID    string
	Email     string
	Nombre    string
	Activo    bool
	Code      *string
	ExpiresAt *time.Time
	Verified  bool
}

// ChallengeRepository opera con la conexión de servicio (privilegios elevados),
// independiente de los permisos del usuario autenticado.
type ChallengeRepository interface {
	// GetChallenge devuelve el desafío del usuario. ErrNotFound si el usuario no existe.
	GetChallenge(ctx context.Context, userID string) (*TwoFactorChallenge, error)

	// StoreCode guarda un código nuevo, reemplazando cualquier código anterior,
	// y resetea el flag de verificado.
	StoreCode(ctx context.Context, userID, code string, expiresAt time.Time) error

	// ConsumeCode limpia código y expiración y marca verificado en una sola
	// sentencia, solo si el código almacenado sigue siendo code.
	// ok=false si otro request lo consumió o reemplazó primero.
	ConsumeCode(ctx context.Context, userID, code string) (ok bool, err error)

	// ConsumeVerification baja el flag de verificado si estaba en true.
	// Permite canjear una verificación por una sesión una sola vez.
	ConsumeVerification(ctx context.Context, userID string) (ok bool, err error)
}
