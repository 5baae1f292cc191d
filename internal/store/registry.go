// Package store provee el registry de adapters de persistencia.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dropDatabas3/signon/internal/domain/repository"
)

// Adapter representa un backend de almacenamiento capaz de crear repositorios.
type Adapter interface {
	// Name retorna el nombre del adapter (ej: "postgres", "memory").
	Name() string

	// Connect establece conexión con el almacenamiento.
	Connect(ctx context.Context, cfg AdapterConfig) (AdapterConnection, error)
}

// AdapterConnection representa una conexión activa. Provee acceso a los
// repositorios implementados por el adapter.
//
// El adapter es responsable de la atomicidad de las lecturas/escrituras
// puntuales y de la unicidad de (provider, providerAccountID): duplicados
// concurrentes se rechazan o upsertean de forma determinística.
type AdapterConnection interface {
	// Name retorna el nombre del adapter.
	Name() string

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close cierra la conexión.
	Close() error

	Users() repository.UserRepository
	Accounts() repository.AccountRepository
	Sessions() repository.SessionRepository
	VerificationTokens() repository.VerificationTokenRepository
}

// AdapterConfig configuración para conectar a un almacenamiento.
type AdapterConfig struct {
	// Name del adapter: "postgres", "memory"
	Name string

	// DSN connection string (para DBs)
	DSN string

	// Pool settings (para DBs)
	MaxConns int
}

// ─── Registry Global ───

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// RegisterAdapter registra un adapter en el registry global.
// Llamar en init() de cada adapter.
func RegisterAdapter(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := strings.ToLower(a.Name())
	if _, dup := adapters[name]; dup {
		panic(fmt.Sprintf("store: adapter %q registered twice", name))
	}
	adapters[name] = a
}

// Open busca el adapter por nombre y abre una conexión.
func Open(ctx context.Context, cfg AdapterConfig) (AdapterConnection, error) {
	registryMu.RLock()
	a, ok := adapters[strings.ToLower(cfg.Name)]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("store: unsupported driver %q", cfg.Name)
	}
	conn, err := a.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store: connect %s: %w", cfg.Name, err)
	}
	return conn, nil
}
