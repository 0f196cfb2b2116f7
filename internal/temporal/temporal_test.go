package temporal

import "testing"

func TestJulianDayRoundTrip(t *testing.T) {
	cases := []Date{{2000, 1, 1}, {1970, 1, 1}, {2007, 6, 9}, {9999, 12, 31}, {1, 1, 1}}
	for _, d := range cases {
		got := FromJDN(d.JDN())
		if got != d {
			t.Errorf("round-trip %v -> jdn -> %v", d, got)
		}
	}
}

func TestDatePack3RoundTrip(t *testing.T) {
	d := Date{Year: 2024, Month: 3, Day: 15}
	got := UnpackDate3(d.Pack3())
	if got != d {
		t.Fatalf("got %v, want %v", got, d)
	}
}

func TestDateTimePack8RoundTrip(t *testing.T) {
	dt := DateTime{Date: Date{2024, 3, 15}, Time: Time{9, 30, 45, 0}}
	got := UnpackDateTime8(dt.Pack8())
	if got.Date != dt.Date || got.Time != dt.Time {
		t.Fatalf("got %v, want %v", got, dt)
	}
}

// Scenario D (spec.md §8): DateTime("2007-06-09 09:30:00") - Time("16:30:00")
// -> DateTime("2007-06-08 17:00:00").
func TestScenarioDDateTimeMinusTime(t *testing.T) {
	dt, err := ParseDateTime("2007-06-09 09:30:00")
	if err != nil {
		t.Fatal(err)
	}
	tm, err := ParseTime("16:30:00")
	if err != nil {
		t.Fatal(err)
	}
	got := dt.SubTime(tm)
	want, _ := ParseDateTime("2007-06-08 17:00:00")
	if CompareDateTime(got, want) != 0 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// §8 property 5: (a+b)-b == a.
func TestAddSubRoundTrip(t *testing.T) {
	dt, _ := ParseDateTime("2020-02-28 23:59:00")
	tm := Time{Hour: 1, Minute: 30, Second: 15}
	got := dt.AddTime(tm).SubTime(tm)
	if CompareDateTime(got, dt) != 0 {
		t.Fatalf("got %v, want %v", got, dt)
	}
}

func TestParseDateTimeRoundTrip(t *testing.T) {
	cases := []string{"2024-03-15 09:30:45", "2024-03-15 09:30:45.123456"}
	for _, s := range cases {
		dt, err := ParseDateTime(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if got := dt.String(); got != s {
			t.Errorf("String() = %q, want %q", got, s)
		}
	}
}

func TestParseDateOnly(t *testing.T) {
	dt, err := ParseDateTime("2024-03-15")
	if err != nil {
		t.Fatal(err)
	}
	if got := dt.Date.String(); got != "2024-03-15" {
		t.Fatalf("got %q", got)
	}
	if dt.Time != (Time{}) {
		t.Fatalf("expected zero time-of-day, got %v", dt.Time)
	}
}

func TestFromHeuristicIntYYMMDDWindow(t *testing.T) {
	dt, ok := FromHeuristicInt(700101)
	if !ok || dt.Date.Year != 1970 {
		t.Fatalf("70-window: got %v ok=%v", dt, ok)
	}
	dt2, ok := FromHeuristicInt(690101)
	if !ok || dt2.Date.Year != 2069 {
		t.Fatalf("69-window: got %v ok=%v", dt2, ok)
	}
}

func TestFromHeuristicIntRejectsSmall(t *testing.T) {
	if _, ok := FromHeuristicInt(42); ok {
		t.Fatalf("expected reject for n<100")
	}
}

func TestFromHeuristicIntYYYYMMDDHHMMSS(t *testing.T) {
	dt, ok := FromHeuristicInt(20240315093045)
	if !ok {
		t.Fatalf("expected ok")
	}
	want := DateTime{Date: Date{2024, 3, 15}, Time: Time{9, 30, 45, 0}}
	if CompareDateTime(dt, want) != 0 {
		t.Fatalf("got %v want %v", dt, want)
	}
}

func TestCompareDate(t *testing.T) {
	a := Date{2024, 1, 1}
	b := Date{2024, 1, 2}
	if CompareDate(a, b) != -1 || CompareDate(b, a) != 1 || CompareDate(a, a) != 0 {
		t.Fatalf("CompareDate ordering broken")
	}
}

func TestOffsetZoneRange(t *testing.T) {
	if _, err := NewOffsetZone(13*3600 + 1); err == nil {
		t.Fatalf("expected range error above +13:00")
	}
	if _, err := NewOffsetZone(-(12*3600 + 60*60)); err == nil {
		t.Fatalf("expected range error below -12:59")
	}
	if _, err := NewOffsetZone(13 * 3600); err != nil {
		t.Fatalf("expected +13:00 to be accepted: %v", err)
	}
}

func TestTimestampRoundTripThroughZone(t *testing.T) {
	dt, _ := ParseDateTime("2024-03-15 09:30:45")
	ts, err := FromDateTime(dt, UTCZone{})
	if err != nil {
		t.Fatal(err)
	}
	got := ts.ToDateTime(UTCZone{})
	if CompareDateTime(got, dt) != 0 {
		t.Fatalf("got %v want %v", got, dt)
	}
}
