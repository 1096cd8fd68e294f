package auth

import "errors"

// Los mensajes son los que ve el usuario en {"error": ...}.
var (
	ErrMissingFields      = errors.New("Email, contraseña y código son requeridos")
	ErrMissingCredentials = errors.New("Email y contraseña son requeridos")
	ErrInvalidCredentials = errors.New("Credenciales inválidas")
	ErrUserNotFound       = errors.New("Usuario no encontrado")
	ErrUserInactive       = errors.New("Usuario inactivo")
	ErrCodeExpired        = errors.New("El código ha expirado")
	ErrCodeIncorrect      = errors.New("Código incorrecto")
	ErrVerifyFailed       = errors.New("Error al verificar el código")
	ErrCodeDelivery       = errors.New("No se pudo enviar el código de verificación")
	ErrMFARequired        = errors.New("Verificación en dos pasos requerida")
	ErrInternal           = errors.New("Error interno")
)
