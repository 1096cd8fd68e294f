// Package cache provee un cliente clave/valor con TTL.
//
// Backends:
//   - memory: in-process sobre go-cache (desarrollo, una sola instancia)
//   - redis: compartido entre réplicas
//
// Guarda sesiones provisionales de primer factor y los jti revocados.
package cache

import (
	"context"
	"errors"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe o expiró.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor. ttl == 0 significa sin expiración.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete elimina una key. No falla si no existe.
	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

// Config configuración para crear un cliente de cache.
type Config struct {
	Kind       string // "memory" | "redis"
	Addr       string
	Password   string
	DB         int
	Prefix     string
	DefaultTTL time.Duration
}

var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error es porque la key no existe.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// New crea un cliente de cache según la configuración.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Kind {
	case "redis":
		rc, err := DialRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return NewMemory(cfg.Prefix, cfg.DefaultTTL), nil
	}
}
