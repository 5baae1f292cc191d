package repository

import (
	"context"
	"time"
)

// AccountType etiqueta el tipo de vínculo con el provider externo.
type AccountType string

const (
	// AccountTypeOAuth identifica cuentas de authorization delegada.
	AccountTypeOAuth AccountType = "oauth"

	// AccountTypeEmail identifica cuentas del flujo passwordless.
	AccountTypeEmail AccountType = "email"
)

// Account vincula un User con una identidad en un provider externo.
// Invariante: (Provider, ProviderAccountID) identifica a lo sumo una cuenta.
type Account struct {
	ID                string
	UserID            string
	Type              AccountType
	Provider          string
	ProviderAccountID string
	CreatedAt         time.Time
}

// LinkAccountInput contiene los datos para vincular una cuenta.
type LinkAccountInput struct {
	UserID            string
	Type              AccountType
	Provider          string
	ProviderAccountID string
}

// AccountRepository define operaciones sobre cuentas vinculadas.
type AccountRepository interface {
	// GetByProvider busca una cuenta por (provider, providerAccountID).
	// Retorna (nil, nil) si no existe.
	GetByProvider(ctx context.Context, provider, providerAccountID string) (*Account, error)

	// ListByUser lista las cuentas vinculadas a un usuario.
	ListByUser(ctx context.Context, userID string) ([]Account, error)

	// Link vincula una cuenta a un usuario.
	// Retorna ErrConflict si (provider, providerAccountID) ya está vinculado.
	Link(ctx context.Context, input LinkAccountInput) (*Account, error)

	// Unlink elimina el vínculo (provider, providerAccountID).
	// Retorna ErrNotFound si no existe.
	Unlink(ctx context.Context, provider, providerAccountID string) error
}
