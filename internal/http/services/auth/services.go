// Package auth contiene el flujo de autenticación en dos pasos:
// login (primer factor + envío del código), verificación del código y
// emisión de la sesión confiable.
package auth

import (
	"context"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/audit"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/email"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/session"
)

// FirstFactor abre y cierra la sesión provisional. *session.Manager lo implementa.
type FirstFactor interface {
	SignInWithPassword(ctx context.Context, email, password string) (*session.FirstFactor, error)
	SignOut(ctx context.Context, ff *session.FirstFactor) error
}

// TokenIssuer emite y revoca la sesión confiable. *session.Manager lo implementa.
type TokenIssuer interface {
	Issue(ctx context.Context, u *repository.User) (string, *session.Claims, error)
	Revoke(ctx context.Context, c *session.Claims) error
	AccessTTL() time.Duration
}

// Deps contiene las dependencias para crear los services auth.
type Deps struct {
	FirstFactor FirstFactor
	Tokens      TokenIssuer
	Users       repository.UserRepository
	// Challenges debe estar construido sobre la conexión de servicio.
	Challenges repository.ChallengeRepository
	Mailer     email.Sender
	Audit      *audit.Recorder

	AppName    string
	CodeTTL    time.Duration
	CodeDigits int

	// Now permite fijar el reloj en tests. nil = time.Now.
	Now func() time.Time
}

// Services agrupa todos los services del dominio auth.
type Services struct {
	Login     LoginService
	TwoFactor TwoFactorService
	Session   SessionService
}

func NewServices(d Deps) Services {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.CodeTTL <= 0 {
		d.CodeTTL = 5 * time.Minute
	}
	if d.CodeDigits == 0 {
		d.CodeDigits = 6
	}
	if d.AppName == "" {
		d.AppName = "MundoComputo"
	}
	return Services{
		Login:     NewLoginService(d),
		TwoFactor: NewTwoFactorService(d),
		Session:   NewSessionService(d),
	}
}

// signOut cierra la sesión provisional aunque el request ya haya sido cancelado.
func signOut(ctx context.Context, ff FirstFactor, s *session.FirstFactor) error {
	return ff.SignOut(context.WithoutCancel(ctx), s)
}
