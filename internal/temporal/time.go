package temporal

import "fmt"

// Time is an elapsed time-of-day value (§3: "Time: hours∈[0,23],
// minutes∈[0,59], seconds∈[0,59] (no leap seconds in Time; elapsed
// semantics only)").
type Time struct {
	Hour, Minute, Second int
	Microsecond          int
}

// IsValid checks the Time invariants. Unlike DateTime, Time never accepts
// second==60/61 (§3, §9 Open Question: "the Time branch explicitly
// disallows 60/61").
func (t Time) IsValid() bool {
	return t.Hour >= 0 && t.Hour <= 23 &&
		t.Minute >= 0 && t.Minute <= 59 &&
		t.Second >= 0 && t.Second <= 59 &&
		t.Microsecond >= 0 && t.Microsecond < 1000000
}

// ElapsedSeconds returns the time-of-day as a count of seconds since
// midnight, used for comparison (§4.2: "Time compares via elapsed
// seconds").
func (t Time) ElapsedSeconds() int { return t.Hour*3600 + t.Minute*60 + t.Second }

// CompareTime orders by elapsed seconds, then microseconds.
func CompareTime(a, b Time) int {
	ae, be := a.ElapsedSeconds(), b.ElapsedSeconds()
	switch {
	case ae < be:
		return -1
	case ae > be:
		return 1
	case a.Microsecond < b.Microsecond:
		return -1
	case a.Microsecond > b.Microsecond:
		return 1
	default:
		return 0
	}
}

// FromElapsedSeconds builds a Time from a total elapsed-seconds count in
// [0, 86400) plus a microsecond remainder.
func FromElapsedSeconds(total int, microsecond int) Time {
	return Time{Hour: total / 3600, Minute: (total / 60) % 60, Second: total % 60, Microsecond: microsecond}
}

func (t Time) String() string {
	if t.Microsecond == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%06d", t.Hour, t.Minute, t.Second, t.Microsecond)
}
