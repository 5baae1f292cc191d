// Package memory implementa el adapter in-memory estilo document store.
// Pensado para desarrollo y tests; el contrato es idéntico al de los
// adapters durables.
package memory

import (
	"context"
	"sync"

	store "github.com/dropDatabas3/signon/internal/store"
)

func init() {
	store.RegisterAdapter(&memoryAdapter{})
}

type memoryAdapter struct{}

func (a *memoryAdapter) Name() string { return "memory" }

func (a *memoryAdapter) Connect(_ context.Context, _ store.AdapterConfig) (store.AdapterConnection, error) {
	return NewConnection(), nil
}

// Connection es una conexión al store in-memory.
type Connection struct {
	// writeMu serializa los check-then-put de unicidad (email, session
	// token, par provider/providerAccountID).
	writeMu sync.Mutex

	users    *collection
	accounts *collection
	sessions *collection
	// tokens deriva su identidad de la clave compuesta; el codec excluye
	// el campo ID del documento.
	tokens *collection
}

// NewConnection crea un store vacío. Exportado para tests de otros packages.
func NewConnection() *Connection {
	return &Connection{
		users:    newCollection(codec{}),
		accounts: newCollection(codec{}),
		sessions: newCollection(codec{}),
		tokens:   newCollection(codec{excludeID: true}),
	}
}

func (c *Connection) Name() string                   { return "memory" }
func (c *Connection) Ping(_ context.Context) error   { return nil }
func (c *Connection) Close() error                   { return nil }
