package field

import (
	"testing"

	"go.uber.org/zap"

	"rowengine/internal/collation"
	"rowengine/internal/session"
	"rowengine/internal/types"
)

func newSink(opts session.Options) *session.Default {
	return session.NewDefault(opts, session.CutWarn, zap.NewNop())
}

// Scenario A (spec.md §8): CREATE TABLE t(c INT); INSERT INTO t VALUES
// ('42abc'). Expected: one row with c=42, one warning of kind
// TruncatedData.
func TestScenarioATypeCoercion(t *testing.T) {
	f := NewField("c", types.KindLong, 0, 0, 0, 0, nil, nil)
	tbl := NewTable("t", []*Field{f})
	sink := newSink(0)

	res := f.Store("42abc", collation.Binary{}, sink)
	if res != StoreTruncatedData {
		t.Fatalf("got %v, want TruncatedData", res)
	}
	if got := f.ValInt(); got != 42 {
		t.Fatalf("got c=%d, want 42", got)
	}
	if len(sink.Warnings()) != 1 {
		t.Fatalf("want exactly one warning, got %d", len(sink.Warnings()))
	}
	_ = tbl
}

func TestScenarioATypeCoercionStrictFails(t *testing.T) {
	f := NewField("c", types.KindLong, 0, 0, 0, 0, nil, nil)
	NewTable("t", []*Field{f})
	sink := newSink(session.OptStrictTransTables)

	res := f.Store("42abc", collation.Binary{}, sink)
	if res != StoreTruncatedData {
		t.Fatalf("got %v", res)
	}
	if !sink.ReallyAbortOnWarning(session.LevelWarn) {
		t.Fatalf("expected strict mode to escalate the warning to an abort")
	}
}

func TestVarcharStoreAndReadRoundTrip(t *testing.T) {
	f := NewField("s", types.KindVarchar, 8, 0, 0, 0, collation.Binary{}, nil)
	NewTable("t", []*Field{f})
	sink := newSink(0)

	if res := f.Store("hello", collation.Binary{}, sink); res != StoreOK {
		t.Fatalf("got %v", res)
	}
	if got := f.ValStr(); got != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestVarcharTruncation(t *testing.T) {
	f := NewField("s", types.KindVarchar, 4, 0, 0, 0, collation.Binary{}, nil)
	NewTable("t", []*Field{f})
	sink := newSink(0)

	res := f.Store("hello", collation.Binary{}, sink)
	if res != StoreTruncatedData {
		t.Fatalf("got %v", res)
	}
	if got := f.ValStr(); got != "hell" {
		t.Fatalf("got %q", got)
	}
}

func TestVarcharTruncationSpacesOnlyIsSilent(t *testing.T) {
	f := NewField("s", types.KindVarchar, 4, 0, 0, 0, collation.Binary{}, nil)
	NewTable("t", []*Field{f})
	sink := newSink(0)

	res := f.Store("ab  ", collation.Binary{}, sink)
	if res != StoreOK {
		t.Fatalf("got %v, want OK (fits exactly)", res)
	}
	res = f.Store("ab   ", collation.Binary{}, sink)
	if res != StoreTruncatedSpacesOnly {
		t.Fatalf("got %v, want TruncatedSpacesOnly", res)
	}
	if len(sink.Warnings()) != 0 {
		t.Fatalf("spaces-only truncation must not raise a warning")
	}
}

func TestNullField(t *testing.T) {
	f := NewField("c", types.KindLong, 0, 0, 0, 0, nil, nil)
	NewTable("t", []*Field{f})

	if f.IsNull() {
		t.Fatalf("expected default NOT NULL state")
	}
	f.SetNull(true)
	if !f.IsNull() {
		t.Fatalf("expected null after SetNull(true)")
	}
	if f.ValInt() != 0 {
		t.Fatalf("null int field must read back 0")
	}
}

func TestNotNullFieldIgnoresSetNull(t *testing.T) {
	f := NewField("c", types.KindLong, 0, 0, 0, FlagNotNull, nil, nil)
	NewTable("t", []*Field{f})
	f.SetNull(true)
	if f.IsNull() {
		t.Fatalf("NOT NULL field must never report null")
	}
}

func TestIntRangeClamp(t *testing.T) {
	f := NewField("tiny", types.KindTiny, 0, 0, 0, 0, nil, nil)
	NewTable("t", []*Field{f})
	sink := newSink(0)

	res := f.StoreInt(200, false, sink)
	if res != StoreOutOfRange {
		t.Fatalf("got %v", res)
	}
	if got := f.ValInt(); got != 127 {
		t.Fatalf("got %d, want clamp to 127", got)
	}
}

func TestUnsignedIntRange(t *testing.T) {
	f := NewField("u", types.KindTiny, 0, 0, 0, FlagUnsigned, nil, nil)
	NewTable("t", []*Field{f})
	sink := newSink(0)

	if res := f.StoreInt(200, false, sink); res != StoreOK {
		t.Fatalf("got %v", res)
	}
	if got := f.ValUint(); got != 200 {
		t.Fatalf("got %d", got)
	}
	res := f.StoreInt(-1, false, sink)
	if res != StoreOutOfRange {
		t.Fatalf("negative into unsigned column must clamp: got %v", res)
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	f := NewField("v", types.KindVarchar, 16, 0, 0, 0, collation.Binary{}, nil)
	NewTable("t", []*Field{f})
	sink := newSink(0)
	f.Store("hi there", collation.Binary{}, sink)

	buf := make([]byte, f.PackLength())
	n := f.Pack(buf)

	g := NewField("v", types.KindVarchar, 16, 0, 0, 0, collation.Binary{}, nil)
	NewTable("u", []*Field{g})
	g.Unpack(buf[:n], types.KindVarchar)
	if got := g.ValStr(); got != "hi there" {
		t.Fatalf("got %q", got)
	}
}

func TestCmpNumeric(t *testing.T) {
	a := NewField("a", types.KindLong, 0, 0, 0, 0, nil, nil)
	b := NewField("b", types.KindLong, 0, 0, 0, 0, nil, nil)
	NewTable("t", []*Field{a, b})
	sink := newSink(0)
	a.StoreInt(5, false, sink)
	b.StoreInt(9, false, sink)
	if a.Cmp(b) != -1 || b.Cmp(a) != 1 || a.Cmp(a) != 0 {
		t.Fatalf("numeric Cmp ordering broken")
	}
}

func TestDecimalFieldStore(t *testing.T) {
	f := NewField("d", types.KindDecimal, 0, 5, 2, 0, nil, nil)
	NewTable("t", []*Field{f})
	sink := newSink(0)

	res := f.Store("123.456", collation.Binary{}, sink)
	if res != StoreTruncatedData {
		t.Fatalf("got %v", res)
	}
	if got := f.ValStr(); got != "123.46" {
		t.Fatalf("got %q", got)
	}
}

func TestEnumField(t *testing.T) {
	f := NewField("e", types.KindEnum, 0, 0, 0, 0, nil, []string{"small", "medium", "large"})
	NewTable("t", []*Field{f})
	sink := newSink(0)
	if res := f.Store("Medium", collation.Binary{}, sink); res != StoreOK {
		t.Fatalf("got %v", res)
	}
	if got := f.ValStr(); got != "medium" {
		t.Fatalf("got %q", got)
	}
}
