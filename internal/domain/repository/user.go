package repository

import (
	"context"
	"time"
)

// User representa un registro de identidad.
type User struct {
	ID            string
	Email         string
	EmailVerified *time.Time
	Name          string
	Image         string
	CreatedAt     time.Time
}

// CreateUserInput contiene los datos para crear un usuario.
type CreateUserInput struct {
	Email         string
	EmailVerified *time.Time
	Name          string
	Image         string
}

// UpdateUserInput contiene los campos actualizables de un usuario.
// Campos nil se dejan intactos.
type UpdateUserInput struct {
	Email         *string
	EmailVerified *time.Time
	Name          *string
	Image         *string
}

// UserRepository define operaciones sobre usuarios.
type UserRepository interface {
	// GetByEmail busca un usuario por email exacto.
	// Retorna (nil, nil) si no existe.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID busca un usuario por ID.
	// Retorna (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*User, error)

	// Create crea un nuevo usuario.
	// Retorna ErrConflict si el email ya existe.
	Create(ctx context.Context, input CreateUserInput) (*User, error)

	// Update actualiza campos de un usuario.
	// Retorna ErrNotFound si no existe.
	Update(ctx context.Context, id string, input UpdateUserInput) error

	// Delete elimina un usuario por ID.
	// Retorna ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
}
