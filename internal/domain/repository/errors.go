package repository

import "errors"

var (
	// ErrNotFound indica que el recurso requerido por una escritura no existe.
	ErrNotFound = errors.New("not found")

	// ErrConflict indica un conflicto de unicidad (email duplicado,
	// par provider/providerAccountID ya vinculado, etc).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indica que los datos de entrada son inválidos.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTokenExpired indica que el verification token ya expiró.
	ErrTokenExpired = errors.New("token expired")
)

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict verifica si el error es ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
