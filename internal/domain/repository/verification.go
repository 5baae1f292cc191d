package repository

import (
	"context"
	"time"
)

// VerificationToken representa un challenge de un solo uso para el flujo
// passwordless. No tiene identidad propia más allá de la clave compuesta
// (Identifier, TokenHash); se persiste el hash del secreto, nunca el secreto.
type VerificationToken struct {
	Identifier string
	TokenHash  string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// CreateVerificationTokenInput contiene los datos para crear un token.
type CreateVerificationTokenInput struct {
	Identifier string
	TokenHash  string
	ExpiresAt  time.Time
}

// VerificationTokenRepository define operaciones sobre verification tokens.
type VerificationTokenRepository interface {
	// Get busca un token por (identifier, tokenHash).
	// Retorna (nil, nil) si no existe.
	Get(ctx context.Context, identifier, tokenHash string) (*VerificationToken, error)

	// Create crea un nuevo token. Si ya existe uno con la misma clave
	// compuesta lo reemplaza (re-emitir un challenge es idempotente).
	Create(ctx context.Context, input CreateVerificationTokenInput) (*VerificationToken, error)

	// Consume elimina y retorna el token (one-time use).
	// Retorna ErrNotFound si no existe, ErrTokenExpired si ya expiró
	// (el token expirado también se elimina).
	Consume(ctx context.Context, identifier, tokenHash string) (*VerificationToken, error)

	// DeleteExpired elimina tokens expirados (cleanup job).
	// Retorna el número de tokens eliminados.
	DeleteExpired(ctx context.Context) (int, error)
}
