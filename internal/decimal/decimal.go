// Package decimal implements the arbitrary-precision fixed-point value
// described in spec.md §4.3, grounded on
// _examples/original_source/drizzled/my_decimal.cc: a sign, an integer-digit
// count, a fraction-digit count, and a little-endian array of base-10^9
// limbs, plus the OK/TRUNCATED/OVERFLOW/DIV_ZERO/BAD_NUM/OOM result kinds
// spec.md §3 requires every decimal operation to report.
package decimal

import (
	"strings"
)

// digitsPerWord is how many base-10 digits one limb holds (10^9 fits a
// uint32 with room for carries during addition).
const digitsPerWord = 9

const wordMax = 1000000000 // 10^9

// maxDigits bounds the precision this implementation accepts, matching the
// DECIMAL(65,30) ceiling MySQL-family servers use.
const maxDigits = 65

// Result is the outcome of a decimal operation (§3: "every operation
// reports one of OK, TRUNCATED, OVERFLOW, DIV_ZERO, BAD_NUM, OOM").
type Result uint8

const (
	OK Result = iota
	Truncated
	Overflow
	DivZero
	BadNum
	OOM
)

func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case Truncated:
		return "TRUNCATED"
	case Overflow:
		return "OVERFLOW"
	case DivZero:
		return "DIV_ZERO"
	case BadNum:
		return "BAD_NUM"
	case OOM:
		return "OOM"
	default:
		return "UNKNOWN"
	}
}

// RoundMode selects how Round handles the discarded digits (§4.3).
type RoundMode uint8

const (
	HalfUp RoundMode = iota
	Truncate
)

// Decimal is a sign-magnitude fixed-point value stored as little-endian
// base-10^9 limbs: limbs[0] holds the least-significant 9 digits.
// IntDigits/FracDigits record the logical digit counts (which may be less
// than 9*len(limbs) — the most- and least-significant limbs are not
// necessarily full).
type Decimal struct {
	Negative   bool
	IntDigits  int
	FracDigits int
	limbs      []uint32 // little-endian, base 10^9
}

// Zero is the decimal value 0 with zero precision and scale.
func Zero() Decimal { return Decimal{} }

// limbsNeeded returns how many base-10^9 limbs are needed to hold intDigits
// integer digits and fracDigits fraction digits.
func limbsNeeded(intDigits, fracDigits int) int {
	return ceilDiv(intDigits, digitsPerWord) + ceilDiv(fracDigits, digitsPerWord)
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// fracLimbCount is how many limbs the fractional part occupies.
func (d Decimal) fracLimbCount() int { return ceilDiv(d.FracDigits, digitsPerWord) }

// ParseString parses text under the rules of §4.3: leading whitespace,
// optional sign, integer digits, optional '.' and fraction digits.
// Trailing non-space content after a well-formed number causes Truncated;
// a string with no recognizable digits at all returns BadNum and a zero
// value. scale, when >= 0, additionally rounds the fractional part to
// that many digits (used by Field.store for a DECIMAL(p,s) column);
// pass scale < 0 to keep the value unrounded.
func ParseString(text string, scale int) (Decimal, Result) {
	s := text
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	start := i

	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	intStart := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	intDigits := s[intStart:i]

	fracDigits := ""
	if i < len(s) && s[i] == '.' {
		i++
		fracStart := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		fracDigits = s[fracStart:i]
	}

	if intDigits == "" && fracDigits == "" {
		return Zero(), BadNum
	}
	if i == start {
		return Zero(), BadNum
	}

	res := OK
	rest := s[i:]
	if strings.TrimSpace(rest) != "" {
		res = Truncated
	}

	d := fromDigitStrings(neg, intDigits, fracDigits)
	if scale >= 0 && d.FracDigits > scale {
		rounded, rr := d.Round(scale, HalfUp)
		d = rounded
		if rr != OK && res == OK {
			res = rr
		} else if rr == Truncated {
			res = Truncated
		}
	}
	return d, res
}

// fromDigitStrings builds a Decimal from raw (unrounded) integer and
// fraction digit strings, stripping leading zeros from the integer part
// and trailing zeros from the fraction part's storage cost (but not its
// logical FracDigits, which is fixed by the caller's column scale at
// store time — here it simply reflects how many fraction digits were
// actually written).
func fromDigitStrings(neg bool, intPart, fracPart string) Decimal {
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	intDigits := len(intPart)
	if intPart == "0" {
		intDigits = 0
	}
	fracDigits := len(fracPart)

	d := Decimal{Negative: neg, IntDigits: intDigits, FracDigits: fracDigits}
	if intDigits == 0 && fracDigits == 0 {
		d.Negative = false
		return d
	}
	d.limbs = make([]uint32, limbsNeeded(intDigits, fracDigits))
	d.assignDigits(intPart[len(intPart)-minInt(intDigits, len(intPart)):], fracPart)
	if d.isZero() {
		d.Negative = false
	}
	return d
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// assignDigits packs intPart (no leading zeros, may be "" for zero) and
// fracPart (may be "") into d.limbs, least-significant limb first.
func (d *Decimal) assignDigits(intPart, fracPart string) {
	// Fractional limbs: pad fracPart on the right to a multiple of 9.
	fracLimbs := d.fracLimbCount()
	padded := fracPart
	for len(padded)%digitsPerWord != 0 && len(padded) > 0 {
		padded += "0"
	}
	for len(padded) < fracLimbs*digitsPerWord {
		padded += "0"
	}
	for i := 0; i < fracLimbs; i++ {
		chunk := padded[i*digitsPerWord : (i+1)*digitsPerWord]
		d.limbs[fracLimbs-1-i] = atoiSafe(chunk)
	}

	// Integer limbs: pad intPart on the left to a multiple of 9.
	intLimbs := len(d.limbs) - fracLimbs
	padded = intPart
	for len(padded)%digitsPerWord != 0 {
		padded = "0" + padded
	}
	for len(padded) < intLimbs*digitsPerWord {
		padded = "0" + padded
	}
	for i := 0; i < intLimbs; i++ {
		chunk := padded[len(padded)-(i+1)*digitsPerWord : len(padded)-i*digitsPerWord]
		d.limbs[fracLimbs+i] = atoiSafe(chunk)
	}
}

func atoiSafe(s string) uint32 {
	var v uint32
	for _, c := range s {
		if c < '0' || c > '9' {
			continue
		}
		v = v*10 + uint32(c-'0')
	}
	return v
}

func (d Decimal) isZero() bool {
	for _, w := range d.limbs {
		if w != 0 {
			return false
		}
	}
	return true
}

// digitStrings renders the integer and fractional digit strings (no sign,
// no leading/trailing zero trimming beyond what the limb layout implies).
func (d Decimal) digitStrings() (intPart, fracPart string) {
	fracLimbs := d.fracLimbCount()
	intLimbs := len(d.limbs) - fracLimbs

	var ib strings.Builder
	for i := intLimbs - 1; i >= 0; i-- {
		ib.WriteString(pad9(d.limbs[fracLimbs+i]))
	}
	intPart = strings.TrimLeft(ib.String(), "0")
	if intPart == "" {
		intPart = "0"
	}
	// Trim to the logical digit count if the caller stored fewer than a
	// full limb's worth (leading zeros from limb padding already removed
	// above; IntDigits==0 means the value is purely fractional).
	if d.IntDigits == 0 {
		intPart = "0"
	}

	var fb strings.Builder
	for i := fracLimbs - 1; i >= 0; i-- {
		fb.WriteString(pad9(d.limbs[i]))
	}
	frac := fb.String()
	if d.FracDigits < len(frac) {
		frac = frac[:d.FracDigits]
	}
	for len(frac) < d.FracDigits {
		frac += "0"
	}
	fracPart = frac
	return
}

func pad9(w uint32) string {
	s := itoa(w)
	for len(s) < digitsPerWord {
		s = "0" + s
	}
	return s
}

func itoa(w uint32) string {
	if w == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for w > 0 {
		i--
		buf[i] = byte('0' + w%10)
		w /= 10
	}
	return string(buf[i:])
}

// String renders the decimal using a fixed (precision, scale) with
// ZEROFILL-style padding: the integer part always emits at least one
// digit and is left-padded with fillChar to reach the declared integer
// width (precision-scale). Pass fillChar==0 to disable padding.
func (d Decimal) String(precision, scale int, fillChar byte) string {
	intPart, fracPart := d.digitStrings()
	if scale >= 0 && scale != d.FracDigits {
		rd, _ := d.Round(scale, HalfUp)
		intPart, fracPart = rd.digitStrings()
		d = rd
	}

	width := precision - scale
	if fillChar != 0 && width > 0 {
		for len(intPart) < width {
			intPart = string(fillChar) + intPart
		}
	}

	var b strings.Builder
	if d.Negative && !d.isZero() {
		b.WriteByte('-')
	}
	b.WriteString(intPart)
	if scale > 0 {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

// PlainString is String with no fixed precision/scale (renders the value's
// own IntDigits/FracDigits, no ZEROFILL padding).
func (d Decimal) PlainString() string { return d.String(-1, d.FracDigits, 0) }
