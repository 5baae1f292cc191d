// Package repository define las interfaces del adapter de persistencia.
//
// Estas interfaces representan contratos de negocio, independientes del
// almacenamiento subyacente (PostgreSQL, memoria, document stores, etc.).
//
// Las implementaciones concretas viven en internal/store/adapters/.
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - Las lecturas puntuales (Get*) retornan (nil, nil) cuando el registro
//     no existe; nunca un error por ausencia
//   - Las operaciones de escritura usan los sentinel errors de errors.go
//     (ErrConflict, ErrNotFound, ErrTokenExpired)
package repository
