package repository

import "errors"

var (
	// ErrNotFound indica que el recurso solicitado no existe.
	ErrNotFound = errors.New("not found")

	// ErrConflict indica un conflicto (duplicado, constraint violation, estado concurrente).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indica que los datos de entrada son inválidos.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientStock indica que el stock no alcanza para la operación.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidTransition indica un cambio de estado no permitido.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict verifica si el error es ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
