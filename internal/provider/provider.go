// Package provider describe los identity providers configurados.
package provider

import "strings"

// Kind es el tipo de flujo de un provider. Variante cerrada: el orquestador
// ramifica por Kind, nunca por comparación de strings arbitrarios.
type Kind int

const (
	// KindUnknown es el zero value: provider sin tipo declarado.
	// Es un error de configuración, no un estado válido.
	KindUnknown Kind = iota

	// KindOAuth identifica providers de authorization delegada.
	KindOAuth

	// KindEmail identifica providers passwordless por magic link.
	KindEmail
)

func (k Kind) String() string {
	switch k {
	case KindOAuth:
		return "oauth"
	case KindEmail:
		return "email"
	default:
		return "unknown"
	}
}

// ParseKind convierte el tag de configuración a Kind.
// Valores no reconocidos (incluido vacío) retornan KindUnknown.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "oauth":
		return KindOAuth
	case "email":
		return KindEmail
	default:
		return KindUnknown
	}
}

// Provider describe un identity provider configurado.
// Los campos OAuth* solo aplican a KindOAuth.
type Provider struct {
	ID   string
	Name string
	Kind Kind

	// OAuth: endpoint de autorización y credenciales del client.
	AuthorizationEndpoint string
	ClientID              string
	ClientSecret          string
	Scopes                []string
}
