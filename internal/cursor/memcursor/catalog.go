package memcursor

import (
	"context"
	"fmt"
	"sync"

	"rowengine/internal/field"
)

// Catalog is a trivial in-process table registry implementing
// internal/ctas.Catalog, used by ctas's unit tests in place of a real
// storage engine's DDL layer. Tables are keyed by name; CreateTable
// fails if the name is already registered, and a fresh primary-key-keyed
// Cursor is handed back for the caller to drive writes through.
type Catalog struct {
	mu     sync.Mutex
	tables map[string]*Cursor
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{tables: make(map[string]*Cursor)}
}

// CreateTable registers schema.Name and returns a Cursor keyed on the
// byte ranges of schema's primary-key fields (each field's Offset and
// PackLength within the packed row — valid because a declared primary
// key is always NOT NULL, so its bytes sit at a fixed offset with no
// null-bitmap indirection to resolve).
func (c *Catalog) CreateTable(ctx context.Context, schema *field.Table) (*Cursor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.tables[schema.Name]; exists {
		return nil, fmt.Errorf("memcursor: table %q already exists", schema.Name)
	}

	var keyFns []KeyFunc
	if len(schema.PrimaryKey) > 0 {
		type span struct{ offset, length int }
		spans := make([]span, len(schema.PrimaryKey))
		for i, f := range schema.PrimaryKey {
			spans[i] = span{f.Offset, f.PackLength()}
		}
		keyFns = append(keyFns, func(row []byte) ([]byte, bool) {
			var key []byte
			for _, sp := range spans {
				if sp.offset+sp.length > len(row) {
					return nil, false
				}
				key = append(key, row[sp.offset:sp.offset+sp.length]...)
			}
			return key, true
		})
	}

	cur := New(keyFns...)
	c.tables[schema.Name] = cur
	return cur, nil
}

// DropTable removes a previously created table.
func (c *Catalog) DropTable(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tables, name)
	return nil
}
