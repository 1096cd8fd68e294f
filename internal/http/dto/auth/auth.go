// Package auth contiene DTOs para los endpoints de autenticación.
package auth

import "time"

// LoginRequest es el primer paso: email y contraseña.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse indica que se envió un código por email.
type LoginResponse struct {
	MFARequired bool      `json:"mfa_required"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// VerifyRequest es el body de POST /v1/auth/2fa/verify.
type VerifyRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// VerifyResponse es la única respuesta exitosa de la verificación.
type VerifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SessionRequest canjea una verificación por un token de sesión.
type SessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionUser struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Nombre string `json:"nombre"`
	Rol    string `json:"rol,omitempty"`
}

// SessionResponse representa la sesión emitida.
type SessionResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"` // "Bearer"
	ExpiresIn   int64       `json:"expires_in"` // segundos
	User        SessionUser `json:"user"`
}
