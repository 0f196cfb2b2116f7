// Package cursor defines the narrow storage-engine contract spec.md §6
// lists as "consumed, not implemented, by this core" — B-tree pages,
// buffer pools, and redo logs are out of scope; only this interface is.
// internal/cursor/memcursor gives an in-memory reference implementation
// for unit tests; internal/cursor/mysqlcursor drives a real MySQL server
// through github.com/go-sql-driver/mysql, grounded on
// internal/apply.Applier's *sql.DB/DSN handling.
package cursor

import "context"

// WriteOutcome is write_row/update_row's result (spec.md §6).
type WriteOutcome uint8

const (
	WriteOK WriteOutcome = iota
	WriteDuplicateKey
	WriteFatal
)

// ReadOutcome is index_read_idx's result.
type ReadOutcome uint8

const (
	ReadOK ReadOutcome = iota
	ReadNotFound
	ReadFatal
)

// UpdateOutcome is update_row's result, distinguishing a genuine mutation
// from a record the engine reports as byte-identical (spec.md §4.5:
// "'record is the same', no byte change").
type UpdateOutcome uint8

const (
	UpdateOK UpdateOutcome = iota
	UpdateRecordIsTheSame
	UpdateFatal
)

// TableFlag is the table_flags() bitset of spec.md §6.
type TableFlag uint8

const (
	FlagDuplicatePos TableFlag = 1 << iota
	FlagPartialColumnRead
)

// ErrDuplicateKey is returned by WriteRow/UpdateRow alongside the
// conflicting key's index.
type ErrDuplicateKey struct {
	KeyIndex int
}

func (e *ErrDuplicateKey) Error() string { return "cursor: duplicate key" }

// ErrFatal wraps an unrecoverable engine error (spec.md §7: "abort the
// row and the statement; propagate upward").
type ErrFatal struct {
	Err error
}

func (e *ErrFatal) Error() string { return "cursor: fatal: " + e.Err.Error() }
func (e *ErrFatal) Unwrap() error { return e.Err }

// Cursor is the positioned-access contract a storage engine exposes to
// the row-write state machine (spec.md §6).
type Cursor interface {
	BeginBulkInsert(ctx context.Context, rowHint int) error
	EndBulkInsert(ctx context.Context) error

	WriteRow(ctx context.Context, buf []byte) (WriteOutcome, *ErrDuplicateKey, error)
	UpdateRow(ctx context.Context, oldBuf, newBuf []byte) (UpdateOutcome, error)
	DeleteRow(ctx context.Context, buf []byte) error

	// IndexReadIdx returns the matching row's packed bytes directly (not
	// an opaque position) on ReadOK.
	IndexReadIdx(ctx context.Context, keyNr int, key []byte, exact bool) (ReadOutcome, []byte, error)
	// RndPos re-reads a row previously returned by IndexReadIdx, given
	// back as rowRef, confirming it is still current.
	RndPos(ctx context.Context, rowRef []byte) ([]byte, error)

	Extra(hint ExtraHint)

	ReserveAutoIncrement(ctx context.Context) (int64, error)
	ReleaseAutoIncrement()

	HasTransactions() bool
	ReferencedByForeignKey() bool
	TableFlags() TableFlag
}

// ExtraHint is the opaque optimizer hint set of spec.md §6 and §4.5's
// bulk-insert framing ("WRITE_CAN_REPLACE, INSERT_WITH_UPDATE,
// IGNORE_DUP_KEY, and their resets").
type ExtraHint uint8

const (
	ExtraWriteCanReplace ExtraHint = iota
	ExtraWriteCanReplaceReset
	ExtraInsertWithUpdate
	ExtraInsertWithUpdateReset
	ExtraIgnoreDupKey
	ExtraIgnoreDupKeyReset
)
