// Package memcursor is an in-memory reference implementation of
// internal/cursor.Cursor, used by internal/writer's unit tests in place
// of a real storage engine. It is grounded on the same
// "open/connect/ping" shape internal/apply.Applier uses for *sql.DB, cut
// down to the pure in-process bookkeeping a duplicate-key/autoincrement
// test needs.
package memcursor

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"rowengine/internal/cursor"
)

// KeyFunc extracts a unique-key's byte representation from a row; ok is
// false when the key's columns are NULL (NULL never conflicts with
// anything, including another NULL).
type KeyFunc func(row []byte) (key []byte, ok bool)

// Cursor is a single-table, single-process, mutex-guarded row store.
type Cursor struct {
	mu sync.Mutex

	keyFns []KeyFunc
	rows   map[int64][]byte
	nextID int64

	autoIncrementNext int64
	autoIncReserved   bool

	bulkDepth  int
	extraHints map[cursor.ExtraHint]bool

	hasTransactions bool
	referencedByFK  bool
}

// New builds a Cursor with one KeyFunc per unique key (index 0 is
// conventionally the primary key).
func New(keyFns ...KeyFunc) *Cursor {
	return &Cursor{
		keyFns:            keyFns,
		rows:              make(map[int64][]byte),
		autoIncrementNext: 1,
		extraHints:        make(map[cursor.ExtraHint]bool),
	}
}

// SetHasTransactions configures HasTransactions()'s return value (tests
// exercise both engine flavors).
func (c *Cursor) SetHasTransactions(v bool) { c.hasTransactions = v }

// SetReferencedByForeignKey configures ReferencedByForeignKey().
func (c *Cursor) SetReferencedByForeignKey(v bool) { c.referencedByFK = v }

// Rows returns a snapshot of all stored rows, for test assertions.
func (c *Cursor) Rows() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, 0, len(c.rows))
	for _, r := range c.rows {
		out = append(out, r)
	}
	return out
}

func (c *Cursor) BeginBulkInsert(ctx context.Context, rowHint int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bulkDepth++
	return nil
}

func (c *Cursor) EndBulkInsert(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bulkDepth > 0 {
		c.bulkDepth--
	}
	return nil
}

func (c *Cursor) conflictingKey(buf []byte, excludeID int64) int {
	for i, fn := range c.keyFns {
		key, ok := fn(buf)
		if !ok {
			continue
		}
		for id, row := range c.rows {
			if id == excludeID {
				continue
			}
			if otherKey, ok2 := fn(row); ok2 && bytes.Equal(key, otherKey) {
				return i
			}
		}
	}
	return -1
}

func (c *Cursor) WriteRow(ctx context.Context, buf []byte) (cursor.WriteOutcome, *cursor.ErrDuplicateKey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if idx := c.conflictingKey(buf, -1); idx >= 0 {
		return cursor.WriteDuplicateKey, &cursor.ErrDuplicateKey{KeyIndex: idx}, nil
	}
	id := c.nextID
	c.nextID++
	stored := append([]byte(nil), buf...)
	c.rows[id] = stored
	return cursor.WriteOK, nil, nil
}

func (c *Cursor) findRowID(buf []byte) (int64, bool) {
	for id, row := range c.rows {
		if bytes.Equal(row, buf) {
			return id, true
		}
	}
	return 0, false
}

func (c *Cursor) UpdateRow(ctx context.Context, oldBuf, newBuf []byte) (cursor.UpdateOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.findRowID(oldBuf)
	if !ok {
		return cursor.UpdateFatal, fmt.Errorf("memcursor: update_row: no matching row")
	}
	if bytes.Equal(oldBuf, newBuf) {
		return cursor.UpdateRecordIsTheSame, nil
	}
	if idx := c.conflictingKey(newBuf, id); idx >= 0 {
		return cursor.UpdateFatal, &cursor.ErrDuplicateKey{KeyIndex: idx}
	}
	c.rows[id] = append([]byte(nil), newBuf...)
	return cursor.UpdateOK, nil
}

func (c *Cursor) DeleteRow(ctx context.Context, buf []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.findRowID(buf)
	if !ok {
		return fmt.Errorf("memcursor: delete_row: no matching row")
	}
	delete(c.rows, id)
	return nil
}

// IndexReadIdx returns the stored row's own bytes, not an opaque
// position: this store keeps no separate position/ref space, so the row
// itself doubles as its own reference for RndPos.
func (c *Cursor) IndexReadIdx(ctx context.Context, keyNr int, key []byte, exact bool) (cursor.ReadOutcome, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if keyNr < 0 || keyNr >= len(c.keyFns) {
		return cursor.ReadFatal, nil, fmt.Errorf("memcursor: index %d out of range", keyNr)
	}
	fn := c.keyFns[keyNr]
	for _, row := range c.rows {
		if rowKey, ok := fn(row); ok && bytes.Equal(rowKey, key) {
			return cursor.ReadOK, append([]byte(nil), row...), nil
		}
	}
	return cursor.ReadNotFound, nil, nil
}

// RndPos re-reads a row previously handed out by IndexReadIdx, looking
// it up by its current stored bytes.
func (c *Cursor) RndPos(ctx context.Context, rowRef []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.findRowID(rowRef)
	if !ok {
		return nil, fmt.Errorf("memcursor: row reference no longer exists")
	}
	return append([]byte(nil), c.rows[id]...), nil
}

func (c *Cursor) Extra(hint cursor.ExtraHint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch hint {
	case cursor.ExtraWriteCanReplaceReset, cursor.ExtraInsertWithUpdateReset, cursor.ExtraIgnoreDupKeyReset:
		delete(c.extraHints, resetToSet(hint))
	default:
		c.extraHints[hint] = true
	}
}

func resetToSet(hint cursor.ExtraHint) cursor.ExtraHint {
	switch hint {
	case cursor.ExtraWriteCanReplaceReset:
		return cursor.ExtraWriteCanReplace
	case cursor.ExtraInsertWithUpdateReset:
		return cursor.ExtraInsertWithUpdate
	case cursor.ExtraIgnoreDupKeyReset:
		return cursor.ExtraIgnoreDupKey
	default:
		return hint
	}
}

func (c *Cursor) ReserveAutoIncrement(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.autoIncrementNext
	c.autoIncrementNext++
	c.autoIncReserved = true
	return v, nil
}

func (c *Cursor) ReleaseAutoIncrement() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoIncReserved = false
}

func (c *Cursor) HasTransactions() bool        { return c.hasTransactions }
func (c *Cursor) ReferencedByForeignKey() bool { return c.referencedByFK }

func (c *Cursor) TableFlags() cursor.TableFlag {
	return cursor.FlagDuplicatePos
}

var _ cursor.Cursor = (*Cursor)(nil)
