package session

import (
	"context"
	"errors"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims del access token.
type Claims struct {
	Email string `json:"email"`
	jwtv5.RegisteredClaims
}

// Issue firma un access token para u.
func (m *Manager) Issue(_ context.Context, u *repository.User) (string, *Claims, error) {
	now := m.now().UTC()
	claims := &Claims{
		Email: u.Email,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   u.ID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.accessTTL)),
		},
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"
	signed, err := tk.SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Parse valida firma, iss, exp/nbf y que el jti no esté revocado.
func (m *Manager) Parse(ctx context.Context, raw string) (*Claims, error) {
	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithTimeFunc(m.now),
		jwtv5.WithLeeway(30 * time.Second),
		jwtv5.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwtv5.WithIssuer(m.issuer))
	}

	claims := &Claims{}
	tok, err := jwtv5.ParseWithClaims(raw, claims, func(*jwtv5.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil || !tok.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	revoked, err := m.cache.Exists(ctx, revokedPrefix+claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke agrega el jti a la deny-list hasta que el token expire por sí solo.
func (m *Manager) Revoke(ctx context.Context, c *Claims) error {
	if c == nil || c.ID == "" {
		return errors.New("session: claims sin jti")
	}
	ttl := time.Minute
	if c.ExpiresAt != nil {
		ttl = c.ExpiresAt.Sub(m.now()) + 30*time.Second
	}
	if ttl <= 0 {
		return nil
	}
	return m.cache.Set(ctx, revokedPrefix+c.ID, "1", ttl)
}
