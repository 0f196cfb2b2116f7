package writer

import (
	"context"
	"fmt"

	"rowengine/internal/cursor"
	"rowengine/internal/field"
	"rowengine/internal/session"
)

// Writer drives one Table's current row through the conflict-policy
// state machine against a Cursor, reporting results through a session
// Sink. A Writer is reusable across every row of a single statement;
// callers reset the row (Table.ResetRow, field stores) between calls to
// WriteRow.
type Writer struct {
	Table  *field.Table
	Cursor cursor.Cursor
	Sink   session.Sink

	bulkPolicy DuplicatePolicy
	inBulk     bool
}

// New binds a Writer to a table, cursor, and warning sink.
func New(t *field.Table, c cursor.Cursor, sink session.Sink) *Writer {
	return &Writer{Table: t, Cursor: c, Sink: sink}
}

// BeginBulk opens a bulk-insert bracket and communicates the statement's
// conflict policy to the cursor through its optimizer hints, mirroring
// write_record's "set the extra flag for the whole statement, not per
// row" framing.
func (w *Writer) BeginBulk(ctx context.Context, rowHint int, policy DuplicatePolicy) error {
	if err := w.Cursor.BeginBulkInsert(ctx, rowHint); err != nil {
		return err
	}
	w.bulkPolicy = policy
	w.inBulk = true
	switch policy {
	case PolicyReplace:
		w.Cursor.Extra(cursor.ExtraWriteCanReplace)
	case PolicyUpdate:
		w.Cursor.Extra(cursor.ExtraInsertWithUpdate)
	case PolicyIgnore:
		w.Cursor.Extra(cursor.ExtraIgnoreDupKey)
	}
	return nil
}

// EndBulk resets whatever optimizer hint BeginBulk set and closes the
// bulk-insert bracket.
func (w *Writer) EndBulk(ctx context.Context) error {
	if !w.inBulk {
		return w.Cursor.EndBulkInsert(ctx)
	}
	switch w.bulkPolicy {
	case PolicyReplace:
		w.Cursor.Extra(cursor.ExtraWriteCanReplaceReset)
	case PolicyUpdate:
		w.Cursor.Extra(cursor.ExtraInsertWithUpdateReset)
	case PolicyIgnore:
		w.Cursor.Extra(cursor.ExtraIgnoreDupKeyReset)
	}
	w.inBulk = false
	return w.Cursor.EndBulkInsert(ctx)
}

// WriteRow writes the table's current row, following ci.Policy on a
// unique-key conflict, and updates ci's counters. The row's bytes
// (w.Table.Row) must already hold the values to write; WriteRow fills
// in a reserved autoincrement value first if the column is unset.
func (w *Writer) WriteRow(ctx context.Context, ci *CopyInfo) error {
	ci.Records++

	savedRead, savedWrite := w.Table.SaveColumnBitmaps()
	defer w.Table.RestoreColumnBitmaps(savedRead, savedWrite)

	if err := ctx.Err(); err != nil {
		w.Table.ReleaseAutoIncrement()
		return err
	}

	if af := w.Table.AutoIncrementField; af != nil && af.IsNull() {
		id := w.Table.ReserveAutoIncrement(func() int64 {
			v, err := w.Cursor.ReserveAutoIncrement(ctx)
			if err != nil {
				return 0
			}
			return v
		})
		af.SetNull(false)
		af.StoreInt(id, false, w.Sink)
	}

	for {
		if err := ctx.Err(); err != nil {
			w.Table.ReleaseAutoIncrement()
			return err
		}

		outcome, dup, err := w.Cursor.WriteRow(ctx, w.Table.Row.Bytes)
		switch outcome {
		case cursor.WriteOK:
			ci.Copied++
			w.Table.PromoteInsertID(w.Sink)
			if !w.Cursor.HasTransactions() {
				w.Sink.SetModifiedNonTransTable()
			}
			return nil

		case cursor.WriteDuplicateKey:
			retry, err := w.onDuplicate(ctx, ci, dup)
			if err != nil {
				w.Table.ReleaseAutoIncrement()
				ci.LastError = err
				return err
			}
			if retry {
				continue
			}
			return nil

		default: // cursor.WriteFatal
			w.Table.ReleaseAutoIncrement()
			ci.LastError = err
			return &cursor.ErrFatal{Err: err}
		}
	}
}

// onDuplicate resolves one WriteDuplicateKey outcome per ci.Policy.
// retry is true only for PolicyReplace, once the conflicting row has
// been deleted and the insert should be attempted again.
func (w *Writer) onDuplicate(ctx context.Context, ci *CopyInfo, dup *cursor.ErrDuplicateKey) (retry bool, err error) {
	switch ci.Policy {
	case PolicyError:
		return false, dup

	case PolicyIgnore:
		ci.Ignored++
		return false, nil

	case PolicyReplace:
		oldRow, err := w.findConflict(ctx)
		if err != nil {
			return false, err
		}
		if err := w.Cursor.DeleteRow(ctx, oldRow); err != nil {
			return false, err
		}
		ci.Deleted++
		return true, nil

	case PolicyUpdate:
		return false, w.applyUpdate(ctx, ci)

	default:
		return false, fmt.Errorf("writer: unknown duplicate policy %d", ci.Policy)
	}
}

// findConflict locates the row already stored under the new row's
// primary key, the "rnd_pos/index_read_idx on the duplicate key" step
// write_record performs before a REPLACE or ON DUPLICATE KEY UPDATE.
func (w *Writer) findConflict(ctx context.Context) ([]byte, error) {
	key, ok := w.Table.PrimaryKeyBytes()
	if !ok {
		return nil, fmt.Errorf("writer: table %q has no primary key to resolve a duplicate against", w.Table.Name)
	}
	outcome, row, err := w.Cursor.IndexReadIdx(ctx, 0, key, true)
	if err != nil {
		return nil, err
	}
	if outcome != cursor.ReadOK {
		return nil, fmt.Errorf("writer: duplicate key reported but conflicting row not found")
	}
	return row, nil
}

// applyUpdate swaps the conflicting row into a secondary table sharing
// the same schema, evaluates every assignment against it, and writes it
// back through UpdateRow.
func (w *Writer) applyUpdate(ctx context.Context, ci *CopyInfo) error {
	oldRow, err := w.findConflict(ctx)
	if err != nil {
		return err
	}

	secondary := w.Table.CloneEmpty()
	secondary.Row.SetBytes(oldRow)
	secondary.UseAllColumns()

	for _, a := range ci.Assignments {
		target := secondary.FieldByName(a.Field.Name)
		if target == nil {
			return fmt.Errorf("writer: update assignment references unknown column %q", a.Field.Name)
		}
		text := a.Eval(w.Table)
		target.Store(text, target.Collation, w.Sink)
	}

	outcome, err := w.Cursor.UpdateRow(ctx, oldRow, secondary.Row.Bytes)
	if err != nil {
		return err
	}
	switch outcome {
	case cursor.UpdateOK:
		ci.Updated++
		ci.Touched++
		if !w.Cursor.HasTransactions() {
			w.Sink.SetModifiedNonTransTable()
		}
		return nil
	case cursor.UpdateRecordIsTheSame:
		ci.Touched++
		return nil
	default:
		return fmt.Errorf("writer: update_row fatal outcome")
	}
}
