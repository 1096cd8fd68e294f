package repository

import (
	"context"
	"time"
)

// AuditEntry es un registro del log de actividad.
type AuditEntry struct {
	ID        string
	ActorID   *string
	Action    string
	Target    string
	Result    string
	Detail    map[string]any
	CreatedAt time.Time
}

type AuditRepository interface {
	Append(ctx context.Context, e AuditEntry) error
	// Latest devuelve las entradas más recientes primero.
	Latest(ctx context.Context, limit int) ([]AuditEntry, error)
}
