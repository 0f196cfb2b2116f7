package field

// RowBuffer is the contiguous byte array described in spec.md §3, sized
// to hold one row's packed field bytes. The null bitmap is not stored
// here: Table keeps it as a separate NullBitmap. No Field owns these bytes; every Field holds only an offset
// into a RowBuffer its Table points at (the (buffer_id, byte_offset,
// length) handle of §9's redesign notes — here the RowBuffer itself
// stands in for the buffer_id).
type RowBuffer struct {
	Bytes []byte
}

// NewRowBuffer allocates a zeroed buffer of size bytes.
func NewRowBuffer(size int) *RowBuffer {
	return &RowBuffer{Bytes: make([]byte, size)}
}

// Slice returns the bounds-checked window [offset, offset+length) of the
// buffer. It panics on an out-of-range request rather than silently
// truncating — a Field descriptor built against the wrong Table is a
// programming error, not a runtime data condition.
func (r *RowBuffer) Slice(offset, length int) []byte {
	return r.Bytes[offset : offset+length]
}

// CopyFrom overwrites r's contents with src's, growing r if src is
// longer. Used when cloning a row buffer for duplicate-key secondary
// storage (spec.md §4.5: "swap in the conflicting row into a secondary
// row buffer").
func (r *RowBuffer) CopyFrom(src *RowBuffer) {
	if cap(r.Bytes) < len(src.Bytes) {
		r.Bytes = make([]byte, len(src.Bytes))
	} else {
		r.Bytes = r.Bytes[:len(src.Bytes)]
	}
	copy(r.Bytes, src.Bytes)
}

// SetBytes overwrites r's contents with raw bytes read back from a
// cursor, growing r if necessary.
func (r *RowBuffer) SetBytes(raw []byte) {
	if cap(r.Bytes) < len(raw) {
		r.Bytes = make([]byte, len(raw))
	} else {
		r.Bytes = r.Bytes[:len(raw)]
	}
	copy(r.Bytes, raw)
}

// Clone returns an independent copy of r.
func (r *RowBuffer) Clone() *RowBuffer {
	out := make([]byte, len(r.Bytes))
	copy(out, r.Bytes)
	return &RowBuffer{Bytes: out}
}
