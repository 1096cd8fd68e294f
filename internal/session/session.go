// Package session maneja las dos sesiones del back office:
//
//   - la sesión provisional de primer factor (token opaco en cache, TTL corto),
//     que solo existe mientras dura el login o la verificación 2FA;
//   - la sesión confiable, un JWT HS256 emitido después del segundo factor,
//     revocable por jti.
//
// Resolver traduce un bearer token en el access.SessionState que evalúa el guard.
package session

import (
	"errors"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/cache"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
)

var (
	ErrInvalidCredentials = errors.New("session: credenciales inválidas")
	ErrInvalidToken       = errors.New("session: token inválido")
	ErrTokenRevoked       = errors.New("session: token revocado")
	ErrMissingSecret      = errors.New("session: jwt secret vacío")
)

const (
	firstFactorPrefix = "ff:"
	revokedPrefix     = "revoked:"
)

// Deps dependencias del Manager.
type Deps struct {
	Users repository.UserRepository
	Cache cache.Client

	Secret         []byte
	Issuer         string
	AccessTTL      time.Duration
	ProvisionalTTL time.Duration

	// Now permite fijar el reloj en tests. nil = time.Now.
	Now func() time.Time
}

// Manager crea y destruye sesiones.
type Manager struct {
	users          repository.UserRepository
	cache          cache.Client
	secret         []byte
	issuer         string
	accessTTL      time.Duration
	provisionalTTL time.Duration
	now            func() time.Time
}

func NewManager(d Deps) (*Manager, error) {
	if len(d.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	m := &Manager{
		users:          d.Users,
		cache:          d.Cache,
		secret:         d.Secret,
		issuer:         d.Issuer,
		accessTTL:      d.AccessTTL,
		provisionalTTL: d.ProvisionalTTL,
		now:            d.Now,
	}
	if m.accessTTL <= 0 {
		m.accessTTL = 8 * time.Hour
	}
	if m.provisionalTTL <= 0 {
		m.provisionalTTL = 2 * time.Minute
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m, nil
}

// AccessTTL duración de los tokens emitidos.
func (m *Manager) AccessTTL() time.Duration { return m.accessTTL }
