package field

import "rowengine/internal/session"

// ColumnBitmap is a per-column read/write membership set, indexed by
// field ordinal (Table.Fields index). spec.md §4.5's "column bitmap
// discipline" saves, temporarily replaces, and restores one of these
// around duplicate-key handling.
type ColumnBitmap struct {
	bits []bool
}

// NewColumnBitmap returns a bitmap sized for n columns, all set.
func NewColumnBitmap(n int) ColumnBitmap {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = true
	}
	return ColumnBitmap{bits: bits}
}

func (c ColumnBitmap) Get(i int) bool { return c.bits[i] }
func (c ColumnBitmap) Set(i int, v bool) { c.bits[i] = v }
func (c ColumnBitmap) Len() int { return len(c.bits) }

// Clone returns an independent copy, used when saving the current bitmap
// before temporarily overwriting it.
func (c ColumnBitmap) Clone() ColumnBitmap {
	out := make([]bool, len(c.bits))
	copy(out, c.bits)
	return ColumnBitmap{bits: out}
}

// SetAll sets every bit to v.
func (c ColumnBitmap) SetAll(v bool) {
	for i := range c.bits {
		c.bits[i] = v
	}
}

// Table owns its Fields, the row buffer they're bound to, a parallel
// "default values" buffer used to reset a row, and the null bitmap and
// read/write column sets every Field operation consults. This is the
// Table↔Field↔Session cycle §9 calls out, resolved per its redesign
// note: Table owns Fields outright, Fields hold a non-owning
// back-reference, and the session is threaded in by the caller rather
// than captured.
type Table struct {
	Name   string
	Fields []*Field

	Row      *RowBuffer
	Defaults *RowBuffer
	Nulls    NullBitmap

	ReadSet  ColumnBitmap
	WriteSet ColumnBitmap

	// NextInsertID is the autoincrement reservation cell described in
	// spec.md §4.5; the writer reads and writes it directly.
	NextInsertID int64
	HaveReserved bool

	AutoIncrementField *Field

	// PrimaryKey holds the fields making up the table's primary key, in
	// declared order, for writers that need to locate a conflicting row
	// without engine-side key extraction.
	PrimaryKey []*Field
}

// NewTable lays out a Table's row buffer from already-constructed Field
// descriptors: it assigns each field's Offset and NullBit, then sizes
// Row/Defaults/Nulls to fit. Fields passed in must not yet have Table
// set; NewTable sets it.
func NewTable(name string, fields []*Field) *Table {
	t := &Table{Name: name, Fields: fields}

	nullable := 0
	offset := 0
	for _, f := range fields {
		f.Table = t
		f.Offset = offset
		offset += f.PackLength()
		if !f.Flags.Has(FlagNotNull) {
			f.NullBit = nullable
			nullable++
		} else {
			f.NullBit = -1
		}
		if f.Flags.Has(FlagAutoIncrement) {
			t.AutoIncrementField = f
		}
		if f.Flags.Has(FlagPrimaryKey) {
			t.PrimaryKey = append(t.PrimaryKey, f)
		}
	}

	t.Nulls = NewNullBitmap(nullable)
	t.Row = NewRowBuffer(offset)
	t.Defaults = NewRowBuffer(offset)
	t.ReadSet = NewColumnBitmap(len(fields))
	t.WriteSet = NewColumnBitmap(len(fields))
	return t
}

// CloneEmpty builds a second Table with the same schema (same field
// names/kinds/flags/collations, freshly allocated buffers) but no Table
// back-reference shared with the original. The row-write state machine
// uses this for the "secondary row buffer" spec.md §4.5 swaps a
// conflicting row into.
func (t *Table) CloneEmpty() *Table {
	fields := make([]*Field, len(t.Fields))
	for i, f := range t.Fields {
		fields[i] = NewField(f.Name, f.Kind, f.DeclaredLength, f.Precision, f.Scale, f.Flags, f.Collation, f.Labels)
	}
	return NewTable(t.Name, fields)
}

// PrimaryKeyBytes concatenates the current row's packed primary-key
// field bytes, the identity a cursor's index 0 lookup is keyed on. It
// returns false if the table declares no primary key.
func (t *Table) PrimaryKeyBytes() ([]byte, bool) {
	if len(t.PrimaryKey) == 0 {
		return nil, false
	}
	var out []byte
	for _, f := range t.PrimaryKey {
		out = append(out, f.bytes(t.Row)...)
	}
	return out, true
}

// FieldByName looks up a field by its declared name.
func (t *Table) FieldByName(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// ResetRow copies the defaults buffer back into the live row, the per-row
// reset spec.md §3 describes as "reused for every row." Only the row
// bytes are reset; the null bitmap keeps its current bits.
func (t *Table) ResetRow() {
	t.Row.CopyFrom(t.Defaults)
}

// SaveColumnBitmaps returns a snapshot of the current read/write sets,
// to be restored via RestoreColumnBitmaps on every exit path including
// error (spec.md §4.5's column-bitmap discipline).
func (t *Table) SaveColumnBitmaps() (read, write ColumnBitmap) {
	return t.ReadSet.Clone(), t.WriteSet.Clone()
}

// RestoreColumnBitmaps installs a previously saved snapshot.
func (t *Table) RestoreColumnBitmaps(read, write ColumnBitmap) {
	t.ReadSet = read
	t.WriteSet = write
}

// UseAllColumns temporarily marks every column readable and writable,
// the "full row must be read to compute update expressions" step of
// §4.5's UPDATE branch.
func (t *Table) UseAllColumns() {
	t.ReadSet.SetAll(true)
	t.WriteSet.SetAll(true)
}

// ReserveAutoIncrement asks for and records the next autoincrement
// value, preserved across duplicate-key retries per §4.5.
func (t *Table) ReserveAutoIncrement(next func() int64) int64 {
	if !t.HaveReserved {
		t.NextInsertID = next()
		t.HaveReserved = true
	}
	return t.NextInsertID
}

// ReleaseAutoIncrement clears the reservation, used on cancellation or
// fatal abort (spec.md §5's cancellation contract).
func (t *Table) ReleaseAutoIncrement() {
	t.HaveReserved = false
	t.NextInsertID = 0
}

// PromoteInsertID publishes the reserved value to the session exactly
// once per statement, per §4.5: "promoted to the session's 'last
// successfully inserted id' exactly once per statement."
func (t *Table) PromoteInsertID(sink session.Sink) {
	if t.HaveReserved {
		sink.RecordFirstSuccessfulInsertID(t.NextInsertID)
	}
}
