package repository

import (
	"context"
	"time"
)

// Session representa un contexto autenticado vivo, identificado por un
// session token opaco.
type Session struct {
	ID           string
	UserID       string
	SessionToken string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// CreateSessionInput contiene los datos para crear una sesión.
type CreateSessionInput struct {
	UserID       string
	SessionToken string
	ExpiresAt    time.Time
}

// SessionRepository define operaciones sobre sesiones.
type SessionRepository interface {
	// GetByToken busca una sesión por su session token.
	// Retorna (nil, nil) si no existe.
	GetByToken(ctx context.Context, sessionToken string) (*Session, error)

	// Create crea una nueva sesión.
	// Retorna ErrConflict si el session token ya existe.
	Create(ctx context.Context, input CreateSessionInput) (*Session, error)

	// UpdateExpiry extiende la expiración de una sesión.
	// Retorna ErrNotFound si no existe.
	UpdateExpiry(ctx context.Context, sessionToken string, expiresAt time.Time) error

	// Delete elimina una sesión por su token.
	// Retorna ErrNotFound si no existe.
	Delete(ctx context.Context, sessionToken string) error

	// DeleteExpired elimina sesiones expiradas (cleanup job).
	// Retorna el número de sesiones eliminadas.
	DeleteExpired(ctx context.Context) (int, error)
}
