// Package strbuf implements the growable, collation-bound byte buffer of
// spec.md §4.4, grounded on
// _examples/original_source/drizzled/sql_string.cc.
package strbuf

import (
	"strings"

	"rowengine/internal/collation"
)

// Buffer is a growable byte container bound to a collation. A Buffer
// constructed over caller-owned bytes (View) never reallocates those
// bytes in place — growth always goes through a fresh allocation, and the
// "owns its storage" bit tracks whether append may extend in place.
type Buffer struct {
	data      []byte
	collation collation.Collation
	owned     bool
}

// New returns an empty, storage-owning Buffer bound to c.
func New(c collation.Collation) *Buffer {
	return &Buffer{collation: c, owned: true}
}

// View wraps existing bytes without copying; the returned Buffer does not
// own its storage, so the first mutating call reallocates (§4.4:
// "a non-owning view bit is preserved").
func View(b []byte, c collation.Collation) *Buffer {
	return &Buffer{data: b, collation: c, owned: false}
}

func (b *Buffer) Bytes() []byte           { return b.data }
func (b *Buffer) Len() int                { return len(b.data) }
func (b *Buffer) Collation() collation.Collation { return b.collation }

// ensureOwned reallocates into owned storage before any mutation, if
// necessary, amortizing growth by doubling.
func (b *Buffer) ensureOwned(extra int) {
	if b.owned && cap(b.data)-len(b.data) >= extra {
		return
	}
	needed := len(b.data) + extra
	newCap := cap(b.data)
	if newCap == 0 {
		newCap = 16
	}
	for newCap < needed {
		newCap *= 2
	}
	fresh := make([]byte, len(b.data), newCap)
	copy(fresh, b.data)
	b.data = fresh
	b.owned = true
}

// AppendBytes appends raw bytes already in this buffer's collation.
func (b *Buffer) AppendBytes(p []byte) {
	b.ensureOwned(len(p))
	b.data = append(b.data, p...)
}

// Append appends other's bytes, converting from srcCollation to this
// buffer's collation when they differ (§4.4). Bytes pass through
// unchanged when both collations have the same name or either is nil;
// otherwise every non-ASCII byte is substituted with '?' and the
// substitution count is returned so the caller can raise a warning.
func (b *Buffer) Append(other []byte, srcCollation collation.Collation) (substitutions int) {
	if srcCollation == nil || b.collation == nil || srcCollation.Name() == b.collation.Name() {
		b.AppendBytes(other)
		return 0
	}
	// This core does not implement real mb_wc/wc_mb conversion tables
	// (§1 non-goal); it approximates by only transcoding on a
	// byte-for-byte basis and substituting any byte that is not valid
	// ASCII when crossing between a multi-byte and the binary collation.
	out := make([]byte, 0, len(other))
	for _, c := range other {
		if c < 0x80 {
			out = append(out, c)
			continue
		}
		out = append(out, '?')
		substitutions++
	}
	b.AppendBytes(out)
	return substitutions
}

// WellFormedCopyNChars copies at most nchars well-formed characters of src
// (interpreted under fromCS) into a freshly allocated []byte no longer
// than dstLen bytes, returning the copied bytes and the byte offset in src
// of the first ill-formed sequence (-1 if src is entirely well-formed);
// copying always stops at or before that offset — the contract every
// string-typed Field.store uses (§4.4).
func WellFormedCopyNChars(toCS, fromCS collation.Collation, src []byte, dstLen, nchars int) (copied []byte, illFormedAt int) {
	illFormedAt = -1
	wellFormedLen := fromCS.WellFormedPrefixLen(src)
	if wellFormedLen < len(src) {
		illFormedAt = wellFormedLen
	}
	limit := src[:wellFormedLen]
	if dstLen >= 0 && len(limit) > dstLen {
		limit = limit[:dstLen]
	}

	// Further bound by nchars (character count, not byte count).
	if nchars >= 0 {
		limit = boundByChars(limit, fromCS, nchars)
	}

	if toCS != nil && fromCS != nil && toCS.Name() != fromCS.Name() {
		tmp := New(toCS)
		tmp.Append(limit, fromCS)
		return tmp.Bytes(), illFormedAt
	}
	out := make([]byte, len(limit))
	copy(out, limit)
	return out, illFormedAt
}

func boundByChars(b []byte, cs collation.Collation, nchars int) []byte {
	count := 0
	i := 0
	for i < len(b) && count < nchars {
		prefix := cs.WellFormedPrefixLen(b[i:])
		if prefix == 0 {
			break
		}
		// Advance by exactly one character's worth of bytes.
		step := 1
		if mb, ok := cs.(interface{ MaxLenPerChar() int }); ok {
			_ = mb
		}
		step = firstCharLen(b[i:], prefix)
		i += step
		count++
	}
	return b[:i]
}

func firstCharLen(b []byte, wellFormedLen int) int {
	if len(b) == 0 {
		return 0
	}
	// Single-byte fast path; multi-byte collations override via their own
	// WellFormedPrefixLen semantics which this helper approximates by
	// reusing the UTF-8 rune-length table (good enough for the
	// collations this core ships, per the §1 non-goal on real charset
	// tables).
	switch {
	case b[0]&0x80 == 0:
		return 1
	case b[0]&0xE0 == 0xC0 && wellFormedLen >= 2:
		return 2
	case b[0]&0xF0 == 0xE0 && wellFormedLen >= 3:
		return 3
	case b[0]&0xF8 == 0xF0 && wellFormedLen >= 4:
		return 4
	default:
		return 1
	}
}

// Escape renders the buffer contents as a single-quoted, SQL-escaped
// literal: quoteChar is doubled, and \0, \n, \r, \\ are backslash-escaped
// (§4.4).
func (b *Buffer) Escape(quoteChar byte) string {
	return Escape(string(b.data), quoteChar)
}

// Escape is the free-function form, used by internal/transform on values
// that never pass through a Buffer.
func Escape(s string, quoteChar byte) string {
	var out strings.Builder
	out.WriteByte(quoteChar)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == quoteChar:
			out.WriteByte(quoteChar)
			out.WriteByte(quoteChar)
		case c == '\\':
			out.WriteString(`\\`)
		case c == 0:
			out.WriteString(`\0`)
		case c == '\n':
			out.WriteString(`\n`)
		case c == '\r':
			out.WriteString(`\r`)
		default:
			out.WriteByte(c)
		}
	}
	out.WriteByte(quoteChar)
	return out.String()
}
