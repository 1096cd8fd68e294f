package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError es el error estándar de la API REST.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // causa, solo para logs
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(status int, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// FromError convierte cualquier error en un AppError.
// Lo que no sea AppError se reporta como error interno conservando la causa.
func FromError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServerError.WithCause(err)
}

// WithDetail devuelve una COPIA con el detalle.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause devuelve una COPIA con la causa.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// =================================================================================
// ERRORES PREDEFINIDOS
// =================================================================================

// 400
var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "La solicitud contiene sintaxis inválida o parámetros faltantes.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "El cuerpo de la solicitud no es un JSON válido.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrMissingFields = &AppError{
		Code:       "MISSING_FIELDS",
		Message:    "Faltan campos requeridos en la solicitud.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidParameter = &AppError{
		Code:       "INVALID_PARAMETER",
		Message:    "Uno de los parámetros de la URL o Query String es inválido.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidRole = &AppError{
		Code:       "INVALID_ROLE",
		Message:    "El rol indicado no existe.",
		HTTPStatus: http.StatusBadRequest,
	}
)

// 401
var (
	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "No autorizado. Se requiere autenticación.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Las credenciales proporcionadas son inválidas.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrMFARequired = &AppError{
		Code:       "MFA_REQUIRED",
		Message:    "Debe completar la verificación en dos pasos.",
		HTTPStatus: http.StatusUnauthorized,
	}
)

// 403
var (
	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "No tiene permisos para realizar esta acción.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrAccountInactive = &AppError{
		Code:       "ACCOUNT_INACTIVE",
		Message:    "La cuenta está inactiva.",
		HTTPStatus: http.StatusForbidden,
	}
)

// 404
var (
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "El recurso solicitado no fue encontrado.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrUserNotFound = &AppError{
		Code:       "USER_NOT_FOUND",
		Message:    "El usuario especificado no existe.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrRouteNotFound = &AppError{
		Code:       "ROUTE_NOT_FOUND",
		Message:    "La ruta solicitada no existe.",
		HTTPStatus: http.StatusNotFound,
	}
)

// 405
var (
	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "El método HTTP no está permitido para este recurso.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}
)

// 409
var (
	ErrConflict = &AppError{
		Code:       "CONFLICT",
		Message:    "La solicitud entra en conflicto con el estado actual del servidor.",
		HTTPStatus: http.StatusConflict,
	}

	ErrEmailAlreadyInUse = &AppError{
		Code:       "EMAIL_ALREADY_IN_USE",
		Message:    "El correo electrónico ya está registrado.",
		HTTPStatus: http.StatusConflict,
	}

	ErrSKUAlreadyExists = &AppError{
		Code:       "SKU_ALREADY_EXISTS",
		Message:    "Ya existe un producto con ese SKU.",
		HTTPStatus: http.StatusConflict,
	}

	ErrInsufficientStock = &AppError{
		Code:       "INSUFFICIENT_STOCK",
		Message:    "No hay stock suficiente.",
		HTTPStatus: http.StatusConflict,
	}

	ErrInvalidTransition = &AppError{
		Code:       "INVALID_TRANSITION",
		Message:    "El cambio de estado no está permitido.",
		HTTPStatus: http.StatusConflict,
	}
)

// 422
var (
	ErrPasswordTooWeak = &AppError{
		Code:       "PASSWORD_TOO_WEAK",
		Message:    "La contraseña no cumple con los requisitos de seguridad.",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
)

// 429
var (
	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Ha excedido el límite de solicitudes. Intente más tarde.",
		HTTPStatus: http.StatusTooManyRequests,
	}
)

// 500
var (
	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Ocurrió un error interno en el servidor.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
