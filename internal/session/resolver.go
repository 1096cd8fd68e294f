package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"golang.org/x/sync/singleflight"
)

// Resolver arma el estado de sesión que consume access.Evaluate.
type Resolver struct {
	manager *Manager
	users   repository.UserRepository
	timeout time.Duration
	group   singleflight.Group
}

type ResolverDeps struct {
	Manager *Manager
	Users   repository.UserRepository
	// Timeout máximo para resolver el rol. Pasado ese tiempo el estado es Loading.
	Timeout time.Duration
}

func NewResolver(d ResolverDeps) *Resolver {
	t := d.Timeout
	if t <= 0 {
		t = 3 * time.Second
	}
	return &Resolver{manager: d.Manager, users: d.Users, timeout: t}
}

// Resolve devuelve el estado para el bearer token dado junto con sus claims.
// Sin token, token inválido, usuario inexistente o inactivo: estado sin usuario.
// Si el rol no se pudo leer a tiempo: Loading.
func (r *Resolver) Resolve(ctx context.Context, bearer string) (access.SessionState, *Claims) {
	log := logger.From(ctx).With(logger.Layer("session"), logger.Op("Resolve"))

	bearer = strings.TrimSpace(bearer)
	if bearer == "" {
		return access.SessionState{}, nil
	}
	claims, err := r.manager.Parse(ctx, bearer)
	if err != nil {
		if !errors.Is(err, ErrInvalidToken) && !errors.Is(err, ErrTokenRevoked) {
			// no se pudo consultar la deny-list
			log.Warn("token check failed", logger.Err(err))
			return access.SessionState{Loading: true}, nil
		}
		return access.SessionState{}, nil
	}

	u, err := r.lookup(ctx, claims.Subject)
	switch {
	case err == nil:
	case repository.IsNotFound(err):
		return access.SessionState{}, nil
	default:
		log.Warn("role lookup did not complete", logger.UserID(claims.Subject), logger.Err(err))
		return access.SessionState{Loading: true}, claims
	}
	if !u.Activo {
		return access.SessionState{}, nil
	}

	st := access.SessionState{User: &access.Identity{ID: u.ID, Email: u.Email}}
	if u.Role != nil {
		role := *u.Role
		st.Role = &role
	}
	return st, claims
}

// lookup colapsa consultas concurrentes del mismo usuario en una sola.
func (r *Resolver) lookup(ctx context.Context, userID string) (*repository.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ch := r.group.DoChan(userID, func() (any, error) {
		lctx, lcancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer lcancel()
		return r.users.GetByID(lctx, userID)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		u := *res.Val.(*repository.User)
		return &u, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
