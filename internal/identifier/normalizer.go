// Package identifier canonicaliza identificadores de usuario (emails)
// en claves de identidad comparables.
package identifier

import (
	"fmt"
	"strings"
)

// Normalizer convierte un identificador crudo en su forma canónica.
// Debe ser puro y determinístico: normalize(normalize(x)) == normalize(x).
type Normalizer interface {
	Normalize(raw string) (string, error)
}

// NormalizerFunc adapta una función al contrato Normalizer.
type NormalizerFunc func(raw string) (string, error)

func (f NormalizerFunc) Normalize(raw string) (string, error) { return f(raw) }

// NormalizationError envuelve cualquier fallo de normalización. El
// orquestador lo captura y lo mapea a un redirect seguro; nunca se propaga
// al transporte.
type NormalizationError struct {
	Err error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize identifier: %v", e.Err)
}

func (e *NormalizationError) Unwrap() error { return e.Err }

// Default retorna el normalizer por defecto:
//   - lowercase y trim de todo el input
//   - split en "@": primer segmento es local-part, segundo es dominio
//   - si el dominio contiene una coma (artefacto de pegar varias
//     direcciones), se conserva solo el segmento antes de la coma
func Default() Normalizer {
	return NormalizerFunc(func(raw string) (string, error) {
		s := strings.TrimSpace(strings.ToLower(raw))
		parts := strings.Split(s, "@")
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return "", &NormalizationError{Err: fmt.Errorf("malformed email %q", raw)}
		}
		local, domain := parts[0], parts[1]
		if i := strings.Index(domain, ","); i >= 0 {
			domain = domain[:i]
		}
		if domain == "" {
			return "", &NormalizationError{Err: fmt.Errorf("malformed email %q", raw)}
		}
		return local + "@" + domain, nil
	})
}
