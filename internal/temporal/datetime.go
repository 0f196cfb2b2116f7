package temporal

import "fmt"

// DateTime combines a Date and a Time. Unlike Time, DateTime's Second may
// be 60 or 61 when representing a leap-second moment (§3: "DateTime: Date
// invariants AND Time invariants, but seconds may be 60/61").
type DateTime struct {
	Date        Date
	Time        Time
	Microsecond int
}

// IsValid checks Date validity and a DateTime-relaxed Time validity that
// additionally accepts Second in {60,61}.
func (dt DateTime) IsValid() bool {
	if !dt.Date.IsValid() {
		return false
	}
	if dt.Time.Hour < 0 || dt.Time.Hour > 23 || dt.Time.Minute < 0 || dt.Time.Minute > 59 {
		return false
	}
	return dt.Time.Second >= 0 && dt.Time.Second <= 61
}

// IsZero reports the all-zero sentinel "zero datetime".
func (dt DateTime) IsZero() bool {
	return dt.Date.IsZero() && dt.Time == Time{} && dt.Microsecond == 0
}

// CompareDateTime orders by day, then elapsed seconds, then
// microseconds (§4.2: "DateTime compares by day then by elapsed seconds
// then by fractional seconds").
func CompareDateTime(a, b DateTime) int {
	if c := CompareDate(a.Date, b.Date); c != 0 {
		return c
	}
	ae := a.Time.ElapsedSeconds()
	be := b.Time.ElapsedSeconds()
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

// toAbsoluteSeconds folds dt to (days since JDN epoch 0, seconds within
// day, microseconds), normalizing a leap-second 60/61 to the 0/1-second
// instant of the following minute before doing day-boundary math — the
// decision recorded in SPEC_FULL.md's Open Questions log for the one
// documented leap-second discontinuity spec.md §9 warns about.
func (dt DateTime) toAbsoluteSeconds() (days int64, secOfDay int, micro int) {
	sec := dt.Time.Second
	minuteCarry := 0
	if sec >= 60 {
		minuteCarry = sec - 59
		sec = 59
	}
	total := dt.Time.Hour*3600 + dt.Time.Minute*60 + sec + minuteCarry
	days = dt.Date.JDN()
	secOfDay = total
	micro = dt.Microsecond
	for secOfDay >= 86400 {
		secOfDay -= 86400
		days++
	}
	for secOfDay < 0 {
		secOfDay += 86400
		days--
	}
	return
}

func fromAbsoluteSeconds(days int64, secOfDay int, micro int) DateTime {
	for micro >= 1000000 {
		micro -= 1000000
		secOfDay++
	}
	for micro < 0 {
		micro += 1000000
		secOfDay--
	}
	for secOfDay >= 86400 {
		secOfDay -= 86400
		days++
	}
	for secOfDay < 0 {
		secOfDay += 86400
		days--
	}
	return DateTime{
		Date:        FromJDN(days),
		Time:        FromElapsedSeconds(secOfDay, 0),
		Microsecond: micro,
	}
}

// AddTime returns dt shifted forward by the elapsed duration represented
// by t (§4.2 "DateTime±Time→DateTime"). Underflowing/overflowing seconds
// carry to/borrow from days; microsecond borrow/carry follows the same
// rule.
func (dt DateTime) AddTime(t Time) DateTime {
	days, sec, micro := dt.toAbsoluteSeconds()
	sec += t.ElapsedSeconds()
	micro += t.Microsecond
	return fromAbsoluteSeconds(days, sec, micro)
}

// SubTime returns dt shifted backward by t (Scenario D, spec.md §8).
func (dt DateTime) SubTime(t Time) DateTime {
	days, sec, micro := dt.toAbsoluteSeconds()
	sec -= t.ElapsedSeconds()
	micro -= t.Microsecond
	return fromAbsoluteSeconds(days, sec, micro)
}

// AddDateTime returns dt shifted by the elapsed duration (days-as-date +
// time-of-day) of delta, with delta's date counted as days since Julian
// Day Number 0, the form SubDateTime returns (§4.2
// "DateTime±DateTime→DateTime").
func (dt DateTime) AddDateTime(delta DateTime) DateTime {
	days, sec, micro := dt.toAbsoluteSeconds()
	ddays, dsec, dmicro := delta.toAbsoluteSeconds()
	return fromAbsoluteSeconds(days+ddays, sec+dsec, micro+dmicro)
}

// SubDateTime returns a - b expressed as a DateTime whose date is the day
// difference counted from Julian Day Number 0 (a same-day difference
// yields the date of JDN 0, -4713-11-24) plus the elapsed time-of-day
// difference (used by callers that need an elapsed duration in
// DateTime-shaped form).
func SubDateTime(a, b DateTime) DateTime {
	adays, asec, amicro := a.toAbsoluteSeconds()
	bdays, bsec, bmicro := b.toAbsoluteSeconds()
	return fromAbsoluteSeconds(adays-bdays, asec-bsec, amicro-bmicro)
}

func (dt DateTime) String() string {
	if dt.Microsecond == 0 {
		return fmt.Sprintf("%s %s", dt.Date.String(), dt.Time.String())
	}
	return fmt.Sprintf("%s %02d:%02d:%02d.%06d", dt.Date.String(), dt.Time.Hour, dt.Time.Minute, dt.Time.Second, dt.Microsecond)
}

// Pack8 packs dt into the 8-byte on-row signed-integer form
// YYYYMMDDHHMMSS (§6).
func (dt DateTime) Pack8() [8]byte {
	v := int64(dt.Date.Year)*10000000000 +
		int64(dt.Date.Month)*100000000 +
		int64(dt.Date.Day)*1000000 +
		int64(dt.Time.Hour)*10000 +
		int64(dt.Time.Minute)*100 +
		int64(dt.Time.Second)
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
	return b
}

// UnpackDateTime8 is the inverse of Pack8.
func UnpackDateTime8(b [8]byte) DateTime {
	var v int64
	for i := 7; i >= 0; i-- {
		v = v<<8 | int64(b[i])
	}
	sec := int(v % 100)
	v /= 100
	min := int(v % 100)
	v /= 100
	hour := int(v % 100)
	v /= 100
	day := int(v % 100)
	v /= 100
	month := int(v % 100)
	v /= 100
	year := int(v)
	return DateTime{Date: Date{Year: year, Month: month, Day: day}, Time: Time{Hour: hour, Minute: min, Second: sec}}
}
