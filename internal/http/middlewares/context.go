package middlewares

import (
	"context"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/session"
)

type ctxKey string

const (
	ctxRequestIDKey ctxKey = "request_id"
	ctxIdentityKey  ctxKey = "identity"
	ctxRoleKey      ctxKey = "role"
	ctxClaimsKey    ctxKey = "claims"
)

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// WithSession inyecta identidad, rol y claims. Lo usa el guard después de
// decidir Render, y los tests de controllers.
func WithSession(ctx context.Context, id access.Identity, role access.Role, claims *session.Claims) context.Context {
	ctx = context.WithValue(ctx, ctxIdentityKey, id)
	ctx = context.WithValue(ctx, ctxRoleKey, role)
	if claims != nil {
		ctx = context.WithValue(ctx, ctxClaimsKey, claims)
	}
	return ctx
}

// GetRequestID retorna cadena vacía si no hay request ID.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxRequestIDKey).(string); ok {
		return v
	}
	return ""
}

// GetIdentity devuelve el usuario autenticado por el guard.
func GetIdentity(ctx context.Context) (access.Identity, bool) {
	id, ok := ctx.Value(ctxIdentityKey).(access.Identity)
	return id, ok
}

// GetUserID retorna cadena vacía fuera de rutas protegidas.
func GetUserID(ctx context.Context) string {
	id, _ := GetIdentity(ctx)
	return id.ID
}

func GetRole(ctx context.Context) (access.Role, bool) {
	r, ok := ctx.Value(ctxRoleKey).(access.Role)
	return r, ok
}

// GetClaims retorna nil si el request no pasó por el guard.
func GetClaims(ctx context.Context) *session.Claims {
	c, _ := ctx.Value(ctxClaimsKey).(*session.Claims)
	return c
}
