package types

import "testing"

func TestMergeNullIsIdentity(t *testing.T) {
	for _, k := range []FieldKind{KindTiny, KindLong, KindLongLong, KindDouble, KindDecimal, KindDate, KindDateTime, KindTimestamp, KindVarchar, KindBlob, KindEnum} {
		if got := Merge(KindNull, k); got != k {
			t.Errorf("Merge(NULL, %v) = %v, want %v", k, got, k)
		}
		if got := Merge(k, KindNull); got != k {
			t.Errorf("Merge(%v, NULL) = %v, want %v", k, got, k)
		}
	}
}

func TestMergeIdempotent(t *testing.T) {
	for _, k := range []FieldKind{KindTiny, KindLong, KindLongLong, KindDouble, KindDecimal, KindDate, KindDateTime, KindTimestamp, KindVarchar, KindBlob, KindEnum} {
		if got := Merge(k, k); got != k {
			t.Errorf("Merge(%v, %v) = %v, want %v", k, k, got, k)
		}
	}
}

func TestMergeTable(t *testing.T) {
	cases := []struct {
		a, b, want FieldKind
	}{
		{KindTiny, KindLongLong, KindLongLong},
		{KindTiny, KindDouble, KindDouble},
		{KindLong, KindDecimal, KindDecimal},
		{KindDouble, KindDecimal, KindDouble},
		{KindTimestamp, KindDateTime, KindDateTime},
		{KindTimestamp, KindDate, KindDate},
		{KindDateTime, KindDate, KindDate},
		// TS/DATE is asymmetric, mirroring the LONGLONG/DATE entry below:
		// row TS, column DATE yields DATE, but row DATE, column TS yields
		// DATETIME.
		{KindDate, KindTimestamp, KindDateTime},
		{KindDateTime, KindTimestamp, KindDateTime},
		{KindTiny, KindDate, KindVarchar},
		{KindVarchar, KindEnum, KindVarchar},
		{KindVarchar, KindBlob, KindBlob},
		{KindDecimal, KindBlob, KindBlob},
		// The asymmetric legacy entry called out in spec.md §9.
		{KindLongLong, KindDate, KindDate},
		{KindDate, KindLongLong, KindVarchar},
	}
	for _, c := range cases {
		if got := Merge(c.a, c.b); got != c.want {
			t.Errorf("Merge(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestWireTypeCodeRoundTrip(t *testing.T) {
	for _, k := range []FieldKind{KindTiny, KindLong, KindLongLong, KindDouble, KindDecimal, KindDate, KindDateTime, KindTimestamp, KindVarchar, KindBlob, KindEnum, KindNull} {
		code := WireTypeCode(k)
		got, ok := KindFromWireTypeCode(code)
		if !ok {
			t.Fatalf("KindFromWireTypeCode(%d) not ok for %v", code, k)
		}
		if got != k {
			t.Errorf("round-trip %v -> %d -> %v", k, code, got)
		}
	}
}
