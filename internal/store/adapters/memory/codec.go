package memory

import (
	"encoding/json"
	"sync"
)

// codec convierte entidades de dominio a/desde la representación nativa de
// la colección (documentos map[string]any), al estilo de un document store.
// excludeID omite el campo identificador cuando la colección deriva la
// identidad implícitamente de su clave (caso VerificationToken, que no tiene
// identidad propia más allá de su clave compuesta).
type codec struct {
	excludeID bool
}

func (c codec) encode(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if c.excludeID {
		delete(doc, "ID")
	}
	return doc, nil
}

func (c codec) decode(doc map[string]any, out any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// collection es una colección de documentos indexada por clave primaria.
// Las escrituras toman el lock exclusivo: la unicidad de los índices
// secundarios se verifica y aplica bajo el mismo lock (punto de atomicidad
// que el contrato del adapter exige al store).
type collection struct {
	mu   sync.RWMutex
	cod  codec
	docs map[string]map[string]any
}

func newCollection(cod codec) *collection {
	return &collection{cod: cod, docs: make(map[string]map[string]any)}
}

func (c *collection) put(key string, v any) error {
	doc, err := c.cod.encode(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.docs[key] = doc
	c.mu.Unlock()
	return nil
}

func (c *collection) get(key string, out any) (bool, error) {
	c.mu.RLock()
	doc, ok := c.docs[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, c.cod.decode(doc, out)
}

// take elimina y decodifica el documento en una sola operación atómica
// (semántica one-time use).
func (c *collection) take(key string, out any) (bool, error) {
	c.mu.Lock()
	doc, ok := c.docs[key]
	if ok {
		delete(c.docs, key)
	}
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, c.cod.decode(doc, out)
}

func (c *collection) delete(key string) bool {
	c.mu.Lock()
	_, ok := c.docs[key]
	delete(c.docs, key)
	c.mu.Unlock()
	return ok
}

// findOne retorna el primer documento que matchea todos los filtros por
// igualdad exacta (equivalente a query(where(..., "==", ...), limit(1))).
func (c *collection) findOne(filter map[string]any, out any) (key string, ok bool, err error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, doc := range c.docs {
		if matches(doc, filter) {
			return k, true, c.cod.decode(doc, out)
		}
	}
	return "", false, nil
}

// findDocs retorna copias de todos los documentos que matchean.
func (c *collection) findDocs(filter map[string]any) []map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []map[string]any
	for _, doc := range c.docs {
		if matches(doc, filter) {
			out = append(out, doc)
		}
	}
	return out
}

// deleteWhere elimina atómicamente los documentos que el predicado acepta.
func (c *collection) deleteWhere(fn func(doc map[string]any) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, doc := range c.docs {
		if fn(doc) {
			delete(c.docs, k)
			n++
		}
	}
	return n
}

func matches(doc, filter map[string]any) bool {
	for k, v := range filter {
		if doc[k] != v {
			return false
		}
	}
	return true
}
