package decimal

import "testing"

func TestParseStringBasic(t *testing.T) {
	d, res := ParseString("123.456", -1)
	if res != OK {
		t.Fatalf("res = %v, want OK", res)
	}
	if got := d.String(-1, 3, 0); got != "123.456" {
		t.Fatalf("got %q", got)
	}
}

func TestParseStringTruncatedTrailingGarbage(t *testing.T) {
	_, res := ParseString("42abc", -1)
	if res != Truncated {
		t.Fatalf("res = %v, want Truncated", res)
	}
}

func TestParseStringBadNum(t *testing.T) {
	_, res := ParseString("abc", -1)
	if res != BadNum {
		t.Fatalf("res = %v, want BadNum", res)
	}
}

// Scenario F (spec.md §8): DECIMAL(5,2), store "123.456" -> 123.46, Truncated.
func TestScenarioFDecimalScaleTruncation(t *testing.T) {
	d, _ := ParseString("123.456", -1)
	fit, res := d.FitTo(5, 2)
	if res != Truncated {
		t.Fatalf("res = %v, want Truncated", res)
	}
	if got := fit.String(5, 2, 0); got != "123.46" {
		t.Fatalf("got %q, want 123.46", got)
	}
}

// Scenario F continued: DECIMAL(5,2), store "99999.9" -> OutOfRange, clamp
// to 999.99.
func TestScenarioFDecimalOverflowClamp(t *testing.T) {
	d, _ := ParseString("99999.9", -1)
	fit, res := d.FitTo(5, 2)
	if res != Overflow {
		t.Fatalf("res = %v, want Overflow", res)
	}
	if got := fit.String(5, 2, 0); got != "999.99" {
		t.Fatalf("got %q, want 999.99", got)
	}
}

func TestRoundHalfUp(t *testing.T) {
	d, _ := ParseString("1.5", -1)
	r, _ := d.Round(0, HalfUp)
	if got := r.PlainString(); got != "2" {
		t.Fatalf("got %q, want 2", got)
	}

	d2, _ := ParseString("9.99", -1)
	r2, _ := d2.Round(1, HalfUp)
	if got := r2.String(-1, 1, 0); got != "10.0" {
		t.Fatalf("got %q, want 10.0", got)
	}
}

func TestToInt64Overflow(t *testing.T) {
	d, _ := ParseString("99999999999999999999", -1)
	v, res := d.ToInt64()
	if res != Overflow {
		t.Fatalf("res = %v, want Overflow", res)
	}
	if v != 9223372036854775807 {
		t.Fatalf("v = %d, want max int64", v)
	}
}

func TestCompare(t *testing.T) {
	a, _ := ParseString("1.5", -1)
	b, _ := ParseString("1.50", -1)
	if Compare(a, b) != 0 {
		t.Fatalf("expected equal")
	}
	c, _ := ParseString("-1.5", -1)
	if Compare(c, a) != -1 {
		t.Fatalf("expected -1.5 < 1.5")
	}
	d, _ := ParseString("2", -1)
	if Compare(d, a) != 1 {
		t.Fatalf("expected 2 > 1.5")
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	cases := []string{"0", "123.46", "-123.46", "999.99", "-0.01", "100000"}
	for _, s := range cases {
		d, _ := ParseString(s, -1)
		fit, _ := d.FitTo(8, 2)
		buf, res := fit.EncodeBinary(8, 2)
		if res == OOM {
			t.Fatalf("encode failed for %s", s)
		}
		got, err := DecodeBinary(buf, 8, 2)
		if err != nil {
			t.Fatalf("decode error for %s: %v", s, err)
		}
		if got.String(8, 2, 0) != fit.String(8, 2, 0) {
			t.Errorf("round-trip %s: got %s want %s", s, got.String(8, 2, 0), fit.String(8, 2, 0))
		}
	}
}

func TestBinaryOrderPreserving(t *testing.T) {
	vals := []string{"-100.00", "-0.01", "0", "0.01", "99.99"}
	var prev []byte
	for _, s := range vals {
		d, _ := ParseString(s, -1)
		fit, _ := d.FitTo(5, 2)
		buf, _ := fit.EncodeBinary(5, 2)
		if prev != nil && bytesCompare(prev, buf) >= 0 {
			t.Fatalf("binary order broken at %s", s)
		}
		prev = buf
	}
}

func bytesCompare(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
