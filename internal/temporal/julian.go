// Package temporal implements the Date/Time/DateTime/Timestamp value
// objects of spec.md §4.2, grounded on
// _examples/original_source/drizzled/temporal.cc and
// drizzled/field/date.cc/.h: a proleptic (no 1582 Gregorian-cutover gap)
// Julian Day Number calendar core, format-table-driven string parsing, and
// the heuristic integer-to-temporal dispatch described in §4.2.
package temporal

// ToJulianDayNumber converts a proleptic-Gregorian civil date to a Julian
// Day Number using the standard Fliegel & Van Flandern algorithm. No 1582
// cutover gap is modeled — spec.md §4.2 requires a calendar core that
// naive Date/DateTime arithmetic can use without consulting the TZ
// service (only Timestamp, via the TZ service, deals with real-world
// calendar discontinuities).
func ToJulianDayNumber(year, month, day int) int64 {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	jdn := int64(day) + int64((153*m+2)/5) + int64(365*y) + int64(y/4) - int64(y/100) + int64(y/400) - 32045
	return jdn
}

// FromJulianDayNumber is the inverse of ToJulianDayNumber.
func FromJulianDayNumber(jdn int64) (year, month, day int) {
	a := jdn + 32044
	b := (4*a + 3) / 146097
	c := a - (146097*b)/4
	d := (4*c + 3) / 1461
	e := c - (1461*d)/4
	m := (5*e + 2) / 153
	day = int(e - (153*m+2)/5 + 1)
	month = int(m + 3 - 12*(m/10))
	year = int(100*b + d - 4800 + m/10)
	return
}

// DaysInMonth returns the number of days in (year, month), honoring leap
// years (month must be 1..12).
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// IsLeapYear reports whether year is a leap year in the proleptic
// Gregorian calendar.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
