package temporal

// FromHeuristicInt implements the integer-to-temporal dispatch of §4.2:
// "values < 100 reject; < 1_000_000 treated as 6-digit YYMMDD with window
// 70-99→19xx, 00-69→20xx; larger values interpreted as YYYYMMDD or
// YYYYMMDDHHMMSS". Returns ok==false for a value this dispatch rejects
// (§7 InvalidDateTime / BadValue territory — callers decide which).
func FromHeuristicInt(n int64) (DateTime, bool) {
	if n < 0 {
		return DateTime{}, false
	}
	if n == 0 {
		// The "zero date" sentinel is only accepted by Field.store's
		// FUZZY_DATE/NO_ZERO_DATE handling, not by this bare heuristic —
		// see the "REDESIGN FLAG applied" note on the zero-int special
		// case under temporal.cc in SPEC_FULL.md.
		return DateTime{}, false
	}
	if n < 100 {
		return DateTime{}, false
	}
	if n < 1000000 {
		yy := int(n / 10000)
		mm := int((n / 100) % 100)
		dd := int(n % 100)
		year := pivotYear(yy)
		return DateTime{Date: Date{Year: year, Month: mm, Day: dd}}, true
	}
	if n < 100000000 {
		// YYYYMMDD
		year := int(n / 10000)
		mm := int((n / 100) % 100)
		dd := int(n % 100)
		return DateTime{Date: Date{Year: year, Month: mm, Day: dd}}, true
	}
	// YYYYMMDDHHMMSS
	sec := int(n % 100)
	n /= 100
	minute := int(n % 100)
	n /= 100
	hour := int(n % 100)
	n /= 100
	day := int(n % 100)
	n /= 100
	month := int(n % 100)
	n /= 100
	year := int(n)
	return DateTime{
		Date: Date{Year: year, Month: month, Day: day},
		Time: Time{Hour: hour, Minute: minute, Second: sec},
	}, true
}

// pivotYear applies the 70/69 two-digit-year window (§4.2).
func pivotYear(yy int) int {
	if yy >= 70 && yy <= 99 {
		return 1900 + yy
	}
	return 2000 + yy
}

// FromHeuristicFloat rounds v to the nearest integer and re-dispatches
// through FromHeuristicInt (§4.2: "double (rounded then re-dispatched as
// integer)").
func FromHeuristicFloat(v float64) (DateTime, bool) {
	n := int64(v + 0.5)
	if v < 0 {
		n = int64(v - 0.5)
	}
	return FromHeuristicInt(n)
}
