// Package auth contiene los controllers de autenticación.
package auth

import svc "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/auth"

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Login     *LoginController
	TwoFactor *TwoFactorController
	Session   *SessionController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Login:     NewLoginController(s.Login),
		TwoFactor: NewTwoFactorController(s.TwoFactor),
		Session:   NewSessionController(s.Session),
	}
}
