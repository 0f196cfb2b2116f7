package memcursor

import (
	"bytes"
	"context"
	"testing"

	"rowengine/internal/cursor"
)

func idKey(row []byte) ([]byte, bool) {
	if len(row) < 4 {
		return nil, false
	}
	return row[:4], true
}

func TestWriteRowDetectsDuplicate(t *testing.T) {
	ctx := context.Background()
	c := New(idKey)

	outcome, dup, err := c.WriteRow(ctx, []byte{0, 0, 0, 1, 'a'})
	if err != nil || outcome != cursor.WriteOK || dup != nil {
		t.Fatalf("first insert: %v %v %v", outcome, dup, err)
	}

	outcome, dup, err = c.WriteRow(ctx, []byte{0, 0, 0, 1, 'b'})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != cursor.WriteDuplicateKey || dup == nil || dup.KeyIndex != 0 {
		t.Fatalf("expected duplicate key on key 0, got %v %v", outcome, dup)
	}
}

func TestUpdateRowRecordIsTheSame(t *testing.T) {
	ctx := context.Background()
	c := New(idKey)
	row := []byte{0, 0, 0, 1, 'a'}
	c.WriteRow(ctx, row)

	outcome, err := c.UpdateRow(ctx, row, row)
	if err != nil || outcome != cursor.UpdateRecordIsTheSame {
		t.Fatalf("got %v %v", outcome, err)
	}

	newRow := []byte{0, 0, 0, 1, 'b'}
	outcome, err = c.UpdateRow(ctx, row, newRow)
	if err != nil || outcome != cursor.UpdateOK {
		t.Fatalf("got %v %v", outcome, err)
	}
}

func TestDeleteRow(t *testing.T) {
	ctx := context.Background()
	c := New(idKey)
	row := []byte{0, 0, 0, 1, 'a'}
	c.WriteRow(ctx, row)
	if err := c.DeleteRow(ctx, row); err != nil {
		t.Fatal(err)
	}
	if len(c.Rows()) != 0 {
		t.Fatalf("expected row store empty after delete")
	}
}

func TestIndexReadIdxAndRndPos(t *testing.T) {
	ctx := context.Background()
	c := New(idKey)
	row := []byte{0, 0, 0, 7, 'x'}
	c.WriteRow(ctx, row)

	outcome, ref, err := c.IndexReadIdx(ctx, 0, []byte{0, 0, 0, 7}, true)
	if err != nil || outcome != cursor.ReadOK {
		t.Fatalf("got %v %v", outcome, err)
	}
	got, err := c.RndPos(ctx, ref)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, row) {
		t.Fatalf("got %v want %v", got, row)
	}

	_, _, err = c.IndexReadIdx(ctx, 0, []byte{9, 9, 9, 9}, true)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReserveAutoIncrement(t *testing.T) {
	ctx := context.Background()
	c := New(idKey)
	a, _ := c.ReserveAutoIncrement(ctx)
	b, _ := c.ReserveAutoIncrement(ctx)
	if b != a+1 {
		t.Fatalf("expected monotonic reservation, got %d then %d", a, b)
	}
}

func TestBeginEndBulkInsert(t *testing.T) {
	ctx := context.Background()
	c := New(idKey)
	if err := c.BeginBulkInsert(ctx, 100); err != nil {
		t.Fatal(err)
	}
	if err := c.EndBulkInsert(ctx); err != nil {
		t.Fatal(err)
	}
}
