package ctas

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"rowengine/internal/cursor"
	"rowengine/internal/cursor/memcursor"
	"rowengine/internal/field"
	"rowengine/internal/session"
	"rowengine/internal/types"
	"rowengine/internal/writer"
)

// catalogAdapter narrows memcursor.Catalog's concrete *memcursor.Cursor
// return to the cursor.Cursor interface ctas.Catalog expects.
type catalogAdapter struct {
	*memcursor.Catalog
}

func (a catalogAdapter) CreateTable(ctx context.Context, schema *field.Table) (cursor.Cursor, error) {
	return a.Catalog.CreateTable(ctx, schema)
}

type sliceSource struct {
	rows [][]string
	i    int
}

func (s *sliceSource) Next(ctx context.Context) ([]string, []bool, bool, error) {
	if s.i >= len(s.rows) {
		return nil, nil, false, nil
	}
	row := s.rows[s.i]
	s.i++
	isNull := make([]bool, len(row))
	return row, isNull, true, nil
}

func newSink() *session.Default {
	return session.NewDefault(0, session.CutWarn, zap.NewNop())
}

func TestWidenMergesAcrossRows(t *testing.T) {
	rows := [][]ProjectedColumn{
		{{Name: "c", Kind: types.KindLong}},
		{{Name: "c", Kind: types.KindDouble}},
	}
	out, err := Widen(rows)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Kind != types.KindDouble {
		t.Fatalf("got %v, want DOUBLE (INT merged with DOUBLE)", out[0].Kind)
	}
}

func TestWidenRejectsMismatchedColumnCount(t *testing.T) {
	rows := [][]ProjectedColumn{
		{{Name: "a", Kind: types.KindLong}},
		{{Name: "a", Kind: types.KindLong}, {Name: "b", Kind: types.KindLong}},
	}
	if _, err := Widen(rows); err == nil {
		t.Fatal("expected an error for mismatched column counts")
	}
}

func TestCreateTableAsSelectMaterializesAndWritesRows(t *testing.T) {
	ctx := context.Background()
	cat := catalogAdapter{memcursor.NewCatalog()}
	sink := newSink()
	bridge := New(cat, sink)

	cols := []ProjectedColumn{
		{Name: "id", Kind: types.KindLong},
		{Name: "name", Kind: types.KindVarchar, DeclaredLength: 16},
	}
	src := &sliceSource{rows: [][]string{{"1", "alice"}, {"2", "bob"}}}

	result, err := bridge.CreateTableAsSelect(ctx, "people_copy", cols, src, writer.PolicyError)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CopyInfo.Copied != 2 {
		t.Fatalf("got Copied=%d, want 2", result.CopyInfo.Copied)
	}
}

func TestCreateTableAsSelectDropsTableOnFailure(t *testing.T) {
	ctx := context.Background()
	memCat := memcursor.NewCatalog()
	cat := catalogAdapter{memCat}
	sink := newSink()
	bridge := New(cat, sink)

	cols := []ProjectedColumn{{Name: "id", Kind: types.KindLong, Flags: field.FlagNotNull | field.FlagPrimaryKey}}

	// Two rows with the same primary key: the second WriteRow hits a
	// duplicate key under PolicyError and aborts the whole statement.
	src := &sliceSource{rows: [][]string{{"1"}, {"1"}}}

	_, err := bridge.CreateTableAsSelect(ctx, "dup_table", cols, src, writer.PolicyError)
	if err == nil {
		t.Fatal("expected an error from the duplicate-key row")
	}

	// The table this statement created must have been dropped on abort.
	if _, err := memCat.CreateTable(ctx, field.NewTable("dup_table", []*field.Field{
		field.NewField("id", types.KindLong, 0, 0, 0, field.FlagNotNull|field.FlagPrimaryKey, nil, nil),
	})); err != nil {
		t.Fatalf("expected dup_table to have been dropped so it can be recreated, got: %v", err)
	}
}
