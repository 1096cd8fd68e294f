package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/security/password"
)

// FirstFactor es una sesión provisional: la contraseña fue verificada pero
// todavía no hay segundo factor.
type FirstFactor struct {
	Token     string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// SignInWithPassword verifica email y contraseña y abre una sesión provisional.
// No mira activo ni rol: esas reglas las aplica quien llama.
func (m *Manager) SignInWithPassword(ctx context.Context, email, plain string) (*FirstFactor, error) {
	log := logger.From(ctx).With(logger.Layer("session"), logger.Op("SignInWithPassword"))

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plain == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Debug("user not found")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.Verify(plain, u.PasswordHash) {
		log.Debug("password mismatch", logger.UserID(u.ID))
		return nil, ErrInvalidCredentials
	}

	tok, err := newProvisionalToken()
	if err != nil {
		return nil, err
	}
	ff := &FirstFactor{
		Token:     tok,
		UserID:    u.ID,
		Email:     u.Email,
		ExpiresAt: m.now().Add(m.provisionalTTL),
	}
	if err := m.cache.Set(ctx, firstFactorKey(tok), u.ID, m.provisionalTTL); err != nil {
		return nil, err
	}
	return ff, nil
}

// SignOut destruye la sesión provisional. Es idempotente y acepta nil.
func (m *Manager) SignOut(ctx context.Context, ff *FirstFactor) error {
	if ff == nil || ff.Token == "" {
		return nil
	}
	return m.cache.Delete(ctx, firstFactorKey(ff.Token))
}

// Active indica si la sesión provisional sigue viva.
func (m *Manager) Active(ctx context.Context, ff *FirstFactor) bool {
	if ff == nil {
		return false
	}
	ok, err := m.cache.Exists(ctx, firstFactorKey(ff.Token))
	return err == nil && ok
}

// newProvisionalToken devuelve 32 bytes aleatorios en base64url.
func newProvisionalToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}

// La cache nunca guarda el token en claro.
func firstFactorKey(tok string) string {
	sum := sha256.Sum256([]byte(tok))
	return firstFactorPrefix + base64.RawURLEncoding.EncodeToString(sum[:])
}
