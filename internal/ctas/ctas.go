// Package ctas implements the create-table-as-select bridge of spec.md
// §4.6: it synthesizes a new table's schema from a SELECT's projected
// column list (widening types through internal/types.Merge across the
// rows actually seen, exactly as a UNION's output column is typed),
// creates the table, and streams rows into it through internal/writer's
// state machine. Grounded on
// _examples/original_source/drizzled/sql_insert.cc's select_insert class
// and on _examples/Pieczasz-smf/internal/core/schema.go's Table
// construction helpers for the Go idiom.
package ctas

import (
	"context"
	"fmt"

	"rowengine/internal/collation"
	"rowengine/internal/cursor"
	"rowengine/internal/field"
	"rowengine/internal/session"
	"rowengine/internal/types"
	"rowengine/internal/writer"
)

// ProjectedColumn describes one column of a SELECT's result set before a
// table schema exists for it: a name and the variant the expression
// evaluator assigned it for a single row. Widen folds a sequence
// of per-row ProjectedColumn slices into a final schema via
// internal/types.Merge, the same lattice a UNION or CASE output column
// uses (§4.1.1).
type ProjectedColumn struct {
	Name string
	Kind types.FieldKind

	// Flags carries forward declared-column attributes that survive a
	// projection unchanged (e.g. field.FlagPrimaryKey for "SELECT * FROM
	// t" copying t's own key, field.FlagNotNull); Widen does not merge
	// this field across rows, since it describes the destination
	// column's declaration, not a per-row observation.
	Flags field.Flag

	// DeclaredLength/Precision/Scale size the synthesized column;
	// widening keeps the widest of any two rows' values for the same
	// position.
	DeclaredLength int
	Precision      int
	Scale          int
	Collation      collation.Collation
}

// Catalog is the narrow table-lifecycle contract this bridge needs from
// the storage layer beyond the per-row Cursor contract (§6): creating
// and, on abort, dropping the table this statement itself created. It is
// deliberately not part of internal/cursor.Cursor, which is scoped to
// positioned row access only.
type Catalog interface {
	// CreateTable materializes schema as a new table and returns a
	// Cursor bound to it.
	CreateTable(ctx context.Context, schema *field.Table) (cursor.Cursor, error)
	// DropTable removes a table this statement created, called only on
	// abort and only for a table CreateTable itself returned (§4.6:
	// "never drop a pre-existing table").
	DropTable(ctx context.Context, name string) error
}

// Bridge drives one CREATE TABLE ... AS SELECT statement.
type Bridge struct {
	Catalog Catalog
	Sink    session.Sink
}

// New binds a Bridge to a catalog and warning sink.
func New(cat Catalog, sink session.Sink) *Bridge {
	return &Bridge{Catalog: cat, Sink: sink}
}

// Widen folds the per-row projected column lists of a SELECT's result
// set into one final schema, widening each column position across rows
// with internal/types.Merge (§4.6 step 1: "synthesize a sequence of
// Field descriptors ... to widen across rows, e.g. INT + DOUBLE => DOUBLE").
// rows must be non-empty and every row must have the same column count;
// callers with a statically-typed projection (the common case) can pass
// a single-row slice.
func Widen(rows [][]ProjectedColumn) ([]ProjectedColumn, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("ctas: no projected rows to widen")
	}
	out := make([]ProjectedColumn, len(rows[0]))
	copy(out, rows[0])

	for _, row := range rows[1:] {
		if len(row) != len(out) {
			return nil, fmt.Errorf("ctas: projected row has %d columns, want %d", len(row), len(out))
		}
		for i, col := range row {
			out[i].Kind = types.Merge(out[i].Kind, col.Kind)
			if col.DeclaredLength > out[i].DeclaredLength {
				out[i].DeclaredLength = col.DeclaredLength
			}
			if col.Precision > out[i].Precision {
				out[i].Precision = col.Precision
			}
			if col.Scale > out[i].Scale {
				out[i].Scale = col.Scale
			}
			if out[i].Collation == nil {
				out[i].Collation = col.Collation
			}
		}
	}
	return out, nil
}

// buildSchema turns a widened projected-column list into Field
// descriptors and a Table, the materialized schema CreateTable persists.
func buildSchema(tableName string, cols []ProjectedColumn) *field.Table {
	fields := make([]*field.Field, len(cols))
	for i, c := range cols {
		fields[i] = field.NewField(c.Name, c.Kind, c.DeclaredLength, c.Precision, c.Scale, c.Flags, c.Collation, nil)
	}
	return field.NewTable(tableName, fields)
}

// Result is CreateTableAsSelect's outcome: the counters the underlying
// writer.CopyInfo accumulated across every source row.
type Result struct {
	CopyInfo *writer.CopyInfo
}

// RowSource supplies one source row at a time as already-rendered text
// values parallel to the destination schema's column order; Next
// returns (nil, false) once exhausted. Expression evaluation and
// SELECT execution are out of scope (§1); the caller is responsible for
// running the query and handing back rendered values.
type RowSource interface {
	Next(ctx context.Context) (values []string, isNull []bool, ok bool, err error)
}

// CreateTableAsSelect implements §4.6 end to end: materialize tableName
// from the widened projected column list, then drive every row of src
// through internal/writer under policy (ERROR by default; callers that
// want CREATE TABLE ... IGNORE AS SELECT pass writer.PolicyIgnore). On
// any row or creation failure, the table is dropped if this statement
// created it — a pre-existing table (CreateTable failing because the
// name already exists) is never torn down.
func (b *Bridge) CreateTableAsSelect(ctx context.Context, tableName string, cols []ProjectedColumn, src RowSource, policy writer.DuplicatePolicy) (*Result, error) {
	schema := buildSchema(tableName, cols)

	cur, err := b.Catalog.CreateTable(ctx, schema)
	if err != nil {
		return nil, fmt.Errorf("ctas: create table %q: %w", tableName, err)
	}
	created := true

	abort := func(cause error) (*Result, error) {
		if created {
			if dropErr := b.Catalog.DropTable(ctx, tableName); dropErr != nil {
				return nil, fmt.Errorf("%w (also failed to drop %q: %v)", cause, tableName, dropErr)
			}
		}
		return nil, cause
	}

	w := writer.New(schema, cur, b.Sink)
	ci := &writer.CopyInfo{Policy: policy}

	if err := w.BeginBulk(ctx, 0, policy); err != nil {
		return abort(fmt.Errorf("ctas: begin bulk insert: %w", err))
	}

	for {
		if err := ctx.Err(); err != nil {
			_ = w.EndBulk(ctx)
			return abort(err)
		}

		values, isNull, ok, err := src.Next(ctx)
		if err != nil {
			_ = w.EndBulk(ctx)
			return abort(fmt.Errorf("ctas: reading source row: %w", err))
		}
		if !ok {
			break
		}

		schema.ResetRow()
		for i, f := range schema.Fields {
			if i < len(isNull) && isNull[i] {
				f.SetNull(true)
				continue
			}
			var text string
			if i < len(values) {
				text = values[i]
			}
			f.Store(text, f.Collation, b.Sink)
		}

		if err := w.WriteRow(ctx, ci); err != nil {
			_ = w.EndBulk(ctx)
			return abort(fmt.Errorf("ctas: writing row: %w", err))
		}
	}

	if err := w.EndBulk(ctx); err != nil {
		return abort(fmt.Errorf("ctas: end bulk insert: %w", err))
	}

	return &Result{CopyInfo: ci}, nil
}
