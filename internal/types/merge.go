package types

// mergeClass groups a FieldKind into the coarse class the lattice table in
// spec.md §4.1.1 is keyed on (NUM/DOUBLE/DECIMAL/temporal/STRING/BLOB).
type mergeClass uint8

const (
	classNum mergeClass = iota
	classDouble
	classDecimal
	classTemporal
	classString
	classBlob
)

func isNum(k FieldKind) bool {
	return k == KindTiny || k == KindLong || k == KindLongLong
}

func isTemporal(k FieldKind) bool {
	return k == KindDate || k == KindDateTime || k == KindTimestamp
}

func classify(k FieldKind) mergeClass {
	switch {
	case isNum(k):
		return classNum
	case k == KindDouble:
		return classDouble
	case k == KindDecimal:
		return classDecimal
	case isTemporal(k):
		return classTemporal
	case k == KindBlob:
		return classBlob
	default:
		return classString
	}
}

// Merge returns the least-upper-bound variant for combining values of a and
// b (§4.1.1), consulted when typing the output column of a UNION, CASE, or
// the create-table-as-select bridge's projected column list (§4.6).
//
// NULL is the identity element. NUM merged with NUM widens toward
// LONGLONG; the (LONGLONG, DATE) entry is intentionally asymmetric —
// LONGLONG merged with DATE yields DATE, not STRING, while DATE merged
// with LONGLONG yields STRING — preserved for source
// compatibility per spec.md §9's Open Questions rather than "fixed" to the
// symmetric STRING result a naive table would predict.
func Merge(a, b FieldKind) FieldKind {
	if a == KindNull {
		return b
	}
	if b == KindNull {
		return a
	}
	if a == b {
		return a
	}

	ca, cb := classify(a), classify(b)

	// BLOB absorbs everything else.
	if ca == classBlob || cb == classBlob {
		return KindBlob
	}

	// LONGLONG merged with DATE: asymmetric legacy entry (see doc comment
	// above). Checked before the general numeric/temporal rules below so
	// it takes precedence; the reverse order falls through to STRING.
	if a == KindLongLong && b == KindDate {
		return KindDate
	}

	switch {
	case ca == classNum && cb == classNum:
		return widestNum(a, b)
	case ca == classNum && cb == classDouble, ca == classDouble && cb == classNum:
		return KindDouble
	case ca == classNum && cb == classDecimal, ca == classDecimal && cb == classNum:
		return KindDecimal
	case ca == classDouble && cb == classDouble:
		return KindDouble
	case ca == classDouble && cb == classDecimal, ca == classDecimal && cb == classDouble:
		return KindDouble
	case ca == classDecimal && cb == classDecimal:
		return KindDecimal
	case ca == classTemporal && cb == classTemporal:
		return mergeTemporal(a, b)
	}

	// Everything else (NUM/DOUBLE/DECIMAL mixed with STRING/ENUM/temporal,
	// or STRING with temporal, or ENUM with anything non-blob) degrades to
	// STRING (VARCHAR is the STRING family's representative kind here).
	return KindVarchar
}

// mergeTemporal implements the TS/DT/DATE sub-lattice: TS×DT -> DT,
// TS×DATE -> DATE, DATE×TS -> DT, DT×DATE -> DATE.
//
// The DATE/TS pair is asymmetric exactly like the (LONGLONG, DATE) entry
// in Merge: spec.md §4.1.1's table has row TS, column DATE yield DATE, but
// row DATE, column TS yield DT. That direction is special-cased here
// before the commutative fallthrough below, which would otherwise collapse
// both orderings to the same result.
func mergeTemporal(a, b FieldKind) FieldKind {
	if a == KindDate && b == KindTimestamp {
		return KindDateTime
	}
	if a == KindTimestamp && b == KindDate {
		return KindDate
	}

	set := map[FieldKind]bool{a: true, b: true}
	if set[KindDate] {
		return KindDate
	}
	if set[KindDateTime] {
		return KindDateTime
	}
	return KindTimestamp
}

// widestNum widens two integer kinds toward LONGLONG (§4.1.1: "NUM merged
// with NUM widens toward LONGLONG").
func widestNum(a, b FieldKind) FieldKind {
	rank := func(k FieldKind) int {
		switch k {
		case KindTiny:
			return 1
		case KindLong:
			return 2
		case KindLongLong:
			return 3
		default:
			return 0
		}
	}
	if rank(a) >= rank(b) {
		return a
	}
	return b
}
