package decimal

import (
	"strconv"
	"strings"
)

// Round rounds the value to scale fraction digits using mode (§4.3:
// "HALF_UP (default on round-to-fit), TRUNCATE (used for scale-reduction
// inside store)"). It reports Truncated when any discarded digit was
// nonzero.
func (d Decimal) Round(scale int, mode RoundMode) (Decimal, Result) {
	if scale < 0 {
		scale = 0
	}
	intPart, fracPart := d.digitStrings()

	if scale >= len(fracPart) {
		newFrac := fracPart + strings.Repeat("0", scale-len(fracPart))
		return buildDecimal(d.Negative, intPart, newFrac), OK
	}

	kept := fracPart[:scale]
	discarded := fracPart[scale:]
	res := OK
	if hasNonZeroDigit(discarded) {
		res = Truncated
	}

	roundUp := mode == HalfUp && len(discarded) > 0 && discarded[0] >= '5'

	if roundUp {
		combined := incrementDigitString(intPart + kept)
		if len(combined) > len(intPart)+len(kept) {
			// carried out of the integer part, e.g. 9.99 -> 10.0
			intPart = combined[:len(combined)-len(kept)]
		} else {
			intPart = combined[:len(combined)-len(kept)]
		}
		kept = combined[len(combined)-len(kept):]
	}

	return buildDecimal(d.Negative, intPart, kept), res
}

func hasNonZeroDigit(s string) bool {
	for _, c := range s {
		if c != '0' {
			return true
		}
	}
	return false
}

// incrementDigitString adds 1 to an unsigned decimal digit string,
// growing it by one digit on carry-out (e.g. "999" -> "1000").
func incrementDigitString(s string) string {
	b := []byte(s)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < '9' {
			b[i]++
			return string(b)
		}
		b[i] = '0'
	}
	return "1" + string(b)
}

// buildDecimal constructs a Decimal from sign-free integer and fraction
// digit strings, deriving IntDigits/FracDigits from them.
func buildDecimal(neg bool, intPart, fracPart string) Decimal {
	trimmedInt := strings.TrimLeft(intPart, "0")
	intDigits := len(trimmedInt)
	d := fromDigitStrings(neg, intPart, fracPart)
	_ = intDigits
	return d
}

// FitTo clamps the value to a declared (precision, scale), per §4.3:
// overflow clamps to the declared precision's max magnitude and raises
// Overflow; a scale reduction that discards nonzero digits raises
// Truncated (not Overflow).
func (d Decimal) FitTo(precision, scale int) (Decimal, Result) {
	rounded, roundRes := d.Round(scale, HalfUp)
	maxIntDigits := precision - scale
	if maxIntDigits < 0 {
		maxIntDigits = 0
	}
	intPart, _ := rounded.digitStrings()
	trimmed := strings.TrimLeft(intPart, "0")
	if len(trimmed) > maxIntDigits {
		max := strings.Repeat("9", maxIntDigits)
		clamped := buildDecimal(rounded.Negative, max, strings.Repeat("9", scale))
		return clamped, Overflow
	}
	return rounded, roundRes
}

// NewFromInt64 builds a Decimal from a signed integer.
func NewFromInt64(v int64) Decimal {
	neg := v < 0
	var digits string
	if v == -9223372036854775808 {
		digits = "9223372036854775808"
	} else {
		u := v
		if neg {
			u = -u
		}
		digits = strconv.FormatInt(u, 10)
	}
	return buildDecimal(neg, digits, "")
}

// NewFromUint64 builds a Decimal from an unsigned integer (§4.1: UNSIGNED
// columns store values Field.store(i64, unsigned) cannot represent as a
// plain int64, e.g. BIGINT UNSIGNED values above 2^63-1).
func NewFromUint64(v uint64) Decimal {
	return buildDecimal(false, strconv.FormatUint(v, 10), "")
}

// NewFromFloat64 builds a Decimal from a double by formatting it with
// enough fractional precision to round-trip, then parsing (§4.2's "double
// (rounded then re-dispatched)" pattern, applied here to decimals instead
// of temporals).
func NewFromFloat64(v float64) Decimal {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	d, _ := ParseString(s, -1)
	return d
}

// ToInt64 decodes the value as a signed integer, rounding half-up toward
// zero per §4.3; on overflow it clamps to INT64_MIN/MAX and returns
// Overflow (the "fatal-overflow flag").
func (d Decimal) ToInt64() (int64, Result) {
	rounded, _ := d.Round(0, HalfUp)
	intPart, _ := rounded.digitStrings()
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}

	const maxPos = "9223372036854775807"
	const maxNeg = "9223372036854775808"
	limit := maxPos
	if rounded.Negative {
		limit = maxNeg
	}
	if len(intPart) > len(limit) || (len(intPart) == len(limit) && intPart > limit) {
		if rounded.Negative {
			return -9223372036854775808, Overflow
		}
		return 9223372036854775807, Overflow
	}

	v, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		if rounded.Negative {
			return -9223372036854775808, Overflow
		}
		return 9223372036854775807, Overflow
	}
	if rounded.Negative {
		v = -v
	}
	return v, OK
}

// ToFloat64 decodes the value as an IEEE-754 double. Precision beyond a
// double's ~15-17 significant digits is lost silently, matching §4.1's
// val_real() extractor contract (no warning is raised for this class of
// imprecision — only BAD_VALUE on an uninterpretable string is).
func (d Decimal) ToFloat64() (float64, Result) {
	s := d.PlainString()
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, BadNum
	}
	return v, OK
}

// Compare returns -1, 0, or 1 following numeric order (§8 property 3).
func Compare(a, b Decimal) int {
	if a.isZero() && b.isZero() {
		return 0
	}
	if a.Negative != b.Negative {
		if a.Negative {
			return -1
		}
		return 1
	}
	ai, af := a.digitStrings()
	bi, bf := b.digitStrings()
	ai = strings.TrimLeft(ai, "0")
	bi = strings.TrimLeft(bi, "0")
	cmp := 0
	switch {
	case len(ai) != len(bi):
		if len(ai) < len(bi) {
			cmp = -1
		} else {
			cmp = 1
		}
	case ai != bi:
		if ai < bi {
			cmp = -1
		} else {
			cmp = 1
		}
	default:
		n := len(af)
		if len(bf) > n {
			n = len(bf)
		}
		for len(af) < n {
			af += "0"
		}
		for len(bf) < n {
			bf += "0"
		}
		switch {
		case af < bf:
			cmp = -1
		case af > bf:
			cmp = 1
		}
	}
	if a.Negative {
		cmp = -cmp
	}
	return cmp
}
