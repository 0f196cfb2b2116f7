// Package field implements the polymorphic column abstraction of
// spec.md §4.1, grounded on
// _examples/original_source/drizzled/field.cc and
// drizzled/item/field.h for the contract, re-expressed per §9's redesign
// note as a single tagged-variant struct ("FieldKind + union of
// variant-specific state") with dispatch through a switch keyed on the
// tag, rather than a twelve-type interface hierarchy. The struct-layout
// idiom (exported fields, back-reference to the owning Table) follows
// _examples/Pieczasz-smf/internal/core/schema.go's Table/Column shapes.
package field

import (
	"rowengine/internal/collation"
	"rowengine/internal/decimal"
	"rowengine/internal/session"
	"rowengine/internal/types"
)

// Flag is the per-column attribute bitset of spec.md §3.
type Flag uint16

const (
	FlagNotNull Flag = 1 << iota
	FlagUnsigned
	FlagBlob
	FlagEnum
	FlagAutoIncrement
	FlagNoDefault
	FlagPrimaryKey
)

func (f Flag) Has(bit Flag) bool { return f&bit != 0 }

// StoreResult is the outcome of every store() variant (spec.md §4.1 and
// §7's error-kind list, restricted to the subset store() itself can
// produce).
type StoreResult uint8

const (
	StoreOK StoreResult = iota
	StoreTruncatedSpacesOnly
	StoreTruncatedData
	StoreOutOfRange
	StoreBadValue
	StoreNullToNotNull
	StoreMissingDefault
)

func (r StoreResult) String() string {
	switch r {
	case StoreOK:
		return "OK"
	case StoreTruncatedSpacesOnly:
		return "TRUNCATED_SPACES_ONLY"
	case StoreTruncatedData:
		return "TRUNCATED_DATA"
	case StoreOutOfRange:
		return "OUT_OF_RANGE"
	case StoreBadValue:
		return "BAD_VALUE"
	case StoreNullToNotNull:
		return "NULL_TO_NOT_NULL"
	case StoreMissingDefault:
		return "MISSING_DEFAULT"
	default:
		return "UNKNOWN"
	}
}

// IsWarning reports whether r should raise a warning through the session
// sink when it is not silently ignored. TRUNCATED_SPACES_ONLY is the one
// result spec.md §4.1 calls out as silent.
func (r StoreResult) IsWarning() bool {
	return r != StoreOK && r != StoreTruncatedSpacesOnly
}

// Field is a descriptor bound to a byte range of its owning Table's row
// buffer. It never owns row bytes (spec.md §3's first invariant); its
// lifetime must not outlive the Table.
type Field struct {
	Name  string
	Kind  types.FieldKind
	Table *Table // weak back-reference; Table owns its Fields

	// Offset is the byte offset into Table.Row (and Table.Defaults) this
	// field's packed bytes occupy. PackLength() gives the length.
	Offset int

	// DeclaredLength is the logical column width (field_length);
	// Precision/Scale apply to DECIMAL only.
	DeclaredLength int
	Precision      int
	Scale          int

	// NullBit indexes Table.Nulls; -1 means this field carries
	// FlagNotNull and is never null (spec.md §3: "null_ptr == nullptr is
	// NOT NULL").
	NullBit int

	Flags     Flag
	Collation collation.Collation // string/enum variants only

	// Labels is the ordered ENUM label list; label index is 1-based on
	// the wire and on-row (0 means NULL/empty).
	Labels []string

	// blobData holds a BLOB/TEXT field's actual bytes. The on-row window
	// only carries a 4-byte length plus a placeholder for the
	// engine-supplied out-of-row pointer (spec.md §6); this core has no
	// storage engine to own that pointer, so it keeps the bytes here
	// instead.
	blobData []byte
}

// NewField builds an unbound Field descriptor; NewTable assigns its
// Table, Offset, and NullBit when the table is laid out.
func NewField(name string, kind types.FieldKind, declaredLength, precision, scale int, flags Flag, coll collation.Collation, labels []string) *Field {
	return &Field{
		Name:           name,
		Kind:           kind,
		DeclaredLength: declaredLength,
		Precision:      precision,
		Scale:          scale,
		Flags:          flags,
		Collation:      coll,
		Labels:         labels,
	}
}

// IsNull reports the field's current null state.
func (f *Field) IsNull() bool {
	if f.NullBit < 0 {
		return false
	}
	return f.Table.Nulls.IsNull(f.NullBit)
}

// SetNull sets or clears the null bit. Calling it on a NOT NULL field is
// a no-op (there is no bit to set).
func (f *Field) SetNull(null bool) {
	if f.NullBit < 0 {
		return
	}
	f.Table.Nulls.SetNull(f.NullBit, null)
}

// bytes returns the packed on-row bytes for this field in buf (Table.Row
// by default; callers pass Table.Defaults to read/write the reset
// values).
func (f *Field) bytes(buf *RowBuffer) []byte {
	return buf.Slice(f.Offset, f.PackLength())
}

// PackLength is the on-row byte cost of this field (spec.md §3:
// "pack_length() is the on-row byte cost").
func (f *Field) PackLength() int {
	switch f.Kind {
	case types.KindVarchar:
		if f.DeclaredLength < 256 {
			return 1 + f.DeclaredLength
		}
		return 2 + f.DeclaredLength
	case types.KindBlob:
		return 4 + 8 // 4-byte length prefix + an 8-byte out-of-row pointer placeholder
	case types.KindDecimal:
		return decimal.BinSize(f.Precision, f.Scale)
	case types.KindEnum:
		if len(f.Labels) < 256 {
			return 1
		}
		return 2
	default:
		n, _ := f.Kind.FixedPackLength()
		return n
	}
}

// Reset zeroes the field's packed bytes to its variant-specific default
// (spec.md §4.1: "numeric→0, temporal→all-zero which is the sentinel
// 'zero date'").
func (f *Field) Reset() {
	b := f.bytes(f.Table.Row)
	for i := range b {
		b[i] = 0
	}
	if f.Kind == types.KindEnum {
		// label index 0 is "no label" / empty, the ENUM zero default.
	}
}

// CloneForOffset returns a copy of f rebound to a different Table and
// byte offset, used when materializing temporary-table fields from an
// existing Field descriptor (spec.md §3's Lifecycle: "cloned with a
// row-offset when used in temporary tables").
func (f *Field) CloneForOffset(t *Table, offset int, nullBit int) *Field {
	clone := *f
	clone.Table = t
	clone.Offset = offset
	clone.NullBit = nullBit
	return &clone
}

// warn reports a store()-time diagnostic through the caller-supplied
// session sink, following spec.md §7's propagation rule: a recoverable
// error raises a warning and returns a result kind to the caller.
func (f *Field) warn(sink session.Sink, result StoreResult, text string) {
	if !result.IsWarning() {
		return
	}
	level := session.LevelWarn
	if sink.ReallyAbortOnWarning(level) {
		level = session.LevelError
	}
	sink.PushWarning(level, int(result), f.Name+": "+text)
	sink.BumpCutFields()
}
