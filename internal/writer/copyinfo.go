// Package writer drives a single row through the insert/replace/update/
// ignore state machine a statement executor uses to apply one row at a
// time against a cursor.Cursor, grounded on
// _examples/original_source/drizzled/sql_insert.cc's write_record and on
// _examples/Pieczasz-smf/internal/apply/apply.go's options-struct style
// of picking a conflict policy up front rather than branching on syntax
// mid-loop.
package writer

import (
	"rowengine/internal/field"
)

// DuplicatePolicy selects how WriteRow reacts to a unique-key conflict.
type DuplicatePolicy uint8

const (
	// PolicyError fails the row and stops the statement (plain INSERT).
	PolicyError DuplicatePolicy = iota
	// PolicyReplace deletes the conflicting row and re-inserts (REPLACE).
	PolicyReplace
	// PolicyUpdate runs Assignments against the conflicting row (ON
	// DUPLICATE KEY UPDATE).
	PolicyUpdate
	// PolicyIgnore drops the row silently, counted but not written
	// (INSERT IGNORE).
	PolicyIgnore
)

// Assignment is one "col = expr" pair of an ON DUPLICATE KEY UPDATE
// clause. Expression evaluation itself is out of scope; Eval is a
// caller-supplied callback that computes the new text value given the
// row that was about to be inserted, so the writer never has to parse
// or evaluate SQL expressions.
type Assignment struct {
	// Field is the column on the conflicting (already-stored) row that
	// gets assigned.
	Field *field.Field
	// Eval computes the new value, with newRow holding the values the
	// caller attempted to insert (the VALUES() pseudo-row).
	Eval func(newRow *field.Table) string
}

// CopyInfo accumulates one statement's counters and carries the
// duplicate-key policy and its update assignments, the role
// COPY_INFO plays across a whole multi-row INSERT.
type CopyInfo struct {
	Policy      DuplicatePolicy
	Assignments []Assignment

	Records int
	Copied  int
	Updated int
	Deleted int
	Touched int
	Ignored int

	LastError error
}

// RowsAffected is the client-visible affected-row count, which differs
// depending on whether the session negotiated CLIENT_FOUND_ROWS: with
// it, a row left unchanged by ON DUPLICATE KEY UPDATE still counts;
// without it, only genuinely touched rows count.
func (ci *CopyInfo) RowsAffected(foundRows bool) int {
	if foundRows {
		return ci.Copied + ci.Deleted + ci.Touched
	}
	return ci.Copied + ci.Deleted + ci.Updated
}
