package writer

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"rowengine/internal/collation"
	"rowengine/internal/cursor/memcursor"
	"rowengine/internal/field"
	"rowengine/internal/session"
	"rowengine/internal/types"
)

func newSink() *session.Default {
	return session.NewDefault(0, session.CutWarn, zap.NewNop())
}

func idKey(row []byte) ([]byte, bool) {
	if len(row) < 4 {
		return nil, false
	}
	return row[:4], true
}

func newPeopleTable() *field.Table {
	id := field.NewField("id", types.KindLong, 0, 0, 0, field.FlagNotNull|field.FlagPrimaryKey, nil, nil)
	name := field.NewField("name", types.KindVarchar, 16, 0, 0, 0, collation.Binary{}, nil)
	return field.NewTable("people", []*field.Field{id, name})
}

func storeRow(t *testing.T, tbl *field.Table, sink session.Sink, id int64, name string) {
	t.Helper()
	tbl.FieldByName("id").StoreInt(id, false, sink)
	tbl.FieldByName("name").Store(name, collation.Binary{}, sink)
}

// Scenario B: REPLACE over an existing row deletes the old one and
// inserts the new, leaving records=1, deleted=1, copied=1.
func TestWriteRowReplacePolicy(t *testing.T) {
	ctx := context.Background()
	cur := memcursor.New(idKey)
	sink := newSink()

	tbl := newPeopleTable()
	storeRow(t, tbl, sink, 1, "alice")
	w := New(tbl, cur, sink)
	ci := &CopyInfo{Policy: PolicyError}
	if err := w.WriteRow(ctx, ci); err != nil {
		t.Fatalf("initial insert: %v", err)
	}

	tbl2 := newPeopleTable()
	storeRow(t, tbl2, sink, 1, "alice2")
	w2 := New(tbl2, cur, sink)
	ci2 := &CopyInfo{Policy: PolicyReplace}
	if err := w2.WriteRow(ctx, ci2); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if ci2.Records != 1 || ci2.Deleted != 1 || ci2.Copied != 1 {
		t.Fatalf("got records=%d deleted=%d copied=%d, want 1/1/1", ci2.Records, ci2.Deleted, ci2.Copied)
	}
	if len(cur.Rows()) != 1 {
		t.Fatalf("expected exactly one stored row after replace, got %d", len(cur.Rows()))
	}
}

// Scenario C: ON DUPLICATE KEY UPDATE against a conflicting row updates
// it in place, leaving records=1, updated=1, touched=1, copied=0.
func TestWriteRowUpdatePolicy(t *testing.T) {
	ctx := context.Background()
	cur := memcursor.New(idKey)
	sink := newSink()

	tbl := newPeopleTable()
	storeRow(t, tbl, sink, 1, "alice")
	w := New(tbl, cur, sink)
	if err := w.WriteRow(ctx, &CopyInfo{Policy: PolicyError}); err != nil {
		t.Fatalf("initial insert: %v", err)
	}

	tbl2 := newPeopleTable()
	storeRow(t, tbl2, sink, 1, "alice-new")
	w2 := New(tbl2, cur, sink)
	ci := &CopyInfo{
		Policy: PolicyUpdate,
		Assignments: []Assignment{
			{
				Field: tbl2.FieldByName("name"),
				Eval: func(newRow *field.Table) string {
					return newRow.FieldByName("name").ValStr()
				},
			},
		},
	}
	if err := w2.WriteRow(ctx, ci); err != nil {
		t.Fatalf("update: %v", err)
	}
	if ci.Records != 1 || ci.Updated != 1 || ci.Touched != 1 || ci.Copied != 0 {
		t.Fatalf("got records=%d updated=%d touched=%d copied=%d, want 1/1/1/0",
			ci.Records, ci.Updated, ci.Touched, ci.Copied)
	}

	rows := cur.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected exactly one stored row, got %d", len(rows))
	}
	verify := newPeopleTable()
	verify.Row.SetBytes(rows[0])
	if got := verify.FieldByName("name").ValStr(); got != "alice-new" {
		t.Fatalf("got name %q, want alice-new", got)
	}
}

// An ON DUPLICATE KEY UPDATE that assigns the row's existing value
// leaves the underlying bytes unchanged; the cursor reports
// UpdateRecordIsTheSame, which counts as touched but not updated.
func TestWriteRowUpdatePolicyRecordIsTheSame(t *testing.T) {
	ctx := context.Background()
	cur := memcursor.New(idKey)
	sink := newSink()

	tbl := newPeopleTable()
	storeRow(t, tbl, sink, 1, "alice")
	w := New(tbl, cur, sink)
	if err := w.WriteRow(ctx, &CopyInfo{Policy: PolicyError}); err != nil {
		t.Fatalf("initial insert: %v", err)
	}

	tbl2 := newPeopleTable()
	storeRow(t, tbl2, sink, 1, "alice")
	w2 := New(tbl2, cur, sink)
	ci := &CopyInfo{
		Policy: PolicyUpdate,
		Assignments: []Assignment{
			{
				Field: tbl2.FieldByName("name"),
				Eval: func(newRow *field.Table) string {
					return newRow.FieldByName("name").ValStr()
				},
			},
		},
	}
	if err := w2.WriteRow(ctx, ci); err != nil {
		t.Fatalf("update: %v", err)
	}
	if ci.Updated != 0 || ci.Touched != 1 {
		t.Fatalf("got updated=%d touched=%d, want 0/1", ci.Updated, ci.Touched)
	}
}

func TestWriteRowIgnorePolicy(t *testing.T) {
	ctx := context.Background()
	cur := memcursor.New(idKey)
	sink := newSink()

	tbl := newPeopleTable()
	storeRow(t, tbl, sink, 1, "alice")
	w := New(tbl, cur, sink)
	if err := w.WriteRow(ctx, &CopyInfo{Policy: PolicyError}); err != nil {
		t.Fatalf("initial insert: %v", err)
	}

	tbl2 := newPeopleTable()
	storeRow(t, tbl2, sink, 1, "bob")
	w2 := New(tbl2, cur, sink)
	ci := &CopyInfo{Policy: PolicyIgnore}
	if err := w2.WriteRow(ctx, ci); err != nil {
		t.Fatalf("ignore: %v", err)
	}
	if ci.Ignored != 1 || ci.Copied != 0 {
		t.Fatalf("got ignored=%d copied=%d, want 1/0", ci.Ignored, ci.Copied)
	}
	if len(cur.Rows()) != 1 {
		t.Fatalf("expected the original row to survive untouched")
	}
}

func TestWriteRowErrorPolicyFails(t *testing.T) {
	ctx := context.Background()
	cur := memcursor.New(idKey)
	sink := newSink()

	tbl := newPeopleTable()
	storeRow(t, tbl, sink, 1, "alice")
	w := New(tbl, cur, sink)
	if err := w.WriteRow(ctx, &CopyInfo{Policy: PolicyError}); err != nil {
		t.Fatalf("initial insert: %v", err)
	}

	tbl2 := newPeopleTable()
	storeRow(t, tbl2, sink, 1, "bob")
	w2 := New(tbl2, cur, sink)
	ci := &CopyInfo{Policy: PolicyError}
	if err := w2.WriteRow(ctx, ci); err == nil {
		t.Fatalf("expected a duplicate-key error")
	}
}

func TestBeginEndBulkSetsExtraHints(t *testing.T) {
	ctx := context.Background()
	cur := memcursor.New(idKey)
	sink := newSink()
	tbl := newPeopleTable()
	w := New(tbl, cur, sink)

	if err := w.BeginBulk(ctx, 10, PolicyReplace); err != nil {
		t.Fatalf("begin bulk: %v", err)
	}
	if err := w.EndBulk(ctx); err != nil {
		t.Fatalf("end bulk: %v", err)
	}
}

func TestWriteRowAutoIncrementReservation(t *testing.T) {
	ctx := context.Background()
	cur := memcursor.New(idKey)
	sink := newSink()

	id := field.NewField("id", types.KindLong, 0, 0, 0, field.FlagPrimaryKey|field.FlagAutoIncrement, nil, nil)
	name := field.NewField("name", types.KindVarchar, 16, 0, 0, 0, collation.Binary{}, nil)
	tbl := field.NewTable("people", []*field.Field{id, name})
	tbl.FieldByName("name").Store("alice", collation.Binary{}, sink)
	tbl.FieldByName("id").SetNull(true)

	w := New(tbl, cur, sink)
	ci := &CopyInfo{Policy: PolicyError}
	if err := w.WriteRow(ctx, ci); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if tbl.FieldByName("id").ValInt() == 0 {
		t.Fatalf("expected a reserved autoincrement value to be stored")
	}
	if sink.LastInsertID() != tbl.FieldByName("id").ValInt() {
		t.Fatalf("expected the reserved id to be promoted to the session")
	}
}
