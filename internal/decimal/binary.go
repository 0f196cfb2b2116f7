package decimal

import "fmt"

// dig2bytes is the number of bytes needed to hold 0..8 leftover digits in a
// partial word, mirroring MySQL/Drizzle's decimal binary format table.
var dig2bytes = [digitsPerWord]int{0, 1, 1, 2, 2, 3, 3, 4, 4}

// powers10 is 10^i for i in [0,9], used to mask partial-word values.
var powers10 = [digitsPerWord + 1]uint32{
	1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000, 1000000000,
}

// BinSize returns the on-row byte cost for a DECIMAL(precision, scale)
// column (§6: "precision-dependent (compact base-10^9)").
func BinSize(precision, scale int) int {
	intg := precision - scale
	intg0 := intg / digitsPerWord
	frac0 := scale / digitsPerWord
	intg0x := intg - intg0*digitsPerWord
	frac0x := scale - frac0*digitsPerWord
	return intg0*4 + dig2bytes[intg0x] + frac0*4 + dig2bytes[frac0x]
}

// EncodeBinary packs d, fit to (precision, scale), into the compact
// big-endian binary form used on-row and on-wire. The encoding is
// memcmp-comparable: two encodings of the same (precision, scale) order
// the same as the decimal values they represent (§8 property 3).
func (d Decimal) EncodeBinary(precision, scale int) ([]byte, Result) {
	fit, res := d.FitTo(precision, scale)
	if res == OOM {
		return nil, OOM
	}

	intg := precision - scale
	intg0 := intg / digitsPerWord
	frac0 := scale / digitsPerWord
	intg0x := intg - intg0*digitsPerWord
	frac0x := scale - frac0*digitsPerWord

	intPart, fracPart := fit.digitStrings()
	intPart = padLeft(intPart, intg0*digitsPerWord+intg0x)
	fracPart = padRight(fracPart, frac0*digitsPerWord+frac0x)

	buf := make([]byte, 0, BinSize(precision, scale))

	if intg0x > 0 {
		v := atoiSafe(intPart[:intg0x])
		buf = appendPartial(buf, v, intg0x)
		intPart = intPart[intg0x:]
	}
	for i := 0; i < intg0; i++ {
		v := atoiSafe(intPart[i*digitsPerWord : (i+1)*digitsPerWord])
		buf = appendWord(buf, v)
	}
	for i := 0; i < frac0; i++ {
		v := atoiSafe(fracPart[i*digitsPerWord : (i+1)*digitsPerWord])
		buf = appendWord(buf, v)
	}
	if frac0x > 0 {
		v := atoiSafe(fracPart[frac0*digitsPerWord:])
		buf = appendPartial(buf, v, frac0x)
	}

	if fit.Negative {
		for i := range buf {
			buf[i] = ^buf[i]
		}
	}
	if len(buf) > 0 {
		buf[0] ^= 0x80
	}
	return buf, res
}

// DecodeBinary is the inverse of EncodeBinary.
func DecodeBinary(buf []byte, precision, scale int) (Decimal, error) {
	want := BinSize(precision, scale)
	if len(buf) != want {
		return Zero(), fmt.Errorf("decimal: binary length %d, want %d for DECIMAL(%d,%d)", len(buf), want, precision, scale)
	}
	work := append([]byte(nil), buf...)
	neg := work[0]&0x80 == 0
	work[0] ^= 0x80
	if neg {
		for i := range work {
			work[i] = ^work[i]
		}
	}

	intg := precision - scale
	intg0 := intg / digitsPerWord
	frac0 := scale / digitsPerWord
	intg0x := intg - intg0*digitsPerWord
	frac0x := scale - frac0*digitsPerWord

	pos := 0
	var intPart string
	if intg0x > 0 {
		n := dig2bytes[intg0x]
		v := readPartial(work[pos:pos+n], intg0x)
		intPart += pad(itoa(v), intg0x)
		pos += n
	}
	for i := 0; i < intg0; i++ {
		v := readWord(work[pos : pos+4])
		intPart += pad9(v)
		pos += 4
	}
	var fracPart string
	for i := 0; i < frac0; i++ {
		v := readWord(work[pos : pos+4])
		fracPart += pad9(v)
		pos += 4
	}
	if frac0x > 0 {
		n := dig2bytes[frac0x]
		v := readPartial(work[pos:pos+n], frac0x)
		fracPart += pad(itoa(v), frac0x)
		pos += n
	}

	d := buildDecimal(neg, intPart, fracPart)
	d.IntDigits = intg
	d.FracDigits = scale
	if d.isZero() {
		d.Negative = false
	}
	return d, nil
}

func pad(s string, n int) string {
	for len(s) < n {
		s = "0" + s
	}
	return s
}

func padLeft(s string, n int) string {
	for len(s) < n {
		s = "0" + s
	}
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}

func padRight(s string, n int) string {
	for len(s) < n {
		s = s + "0"
	}
	if len(s) > n {
		s = s[:n]
	}
	return s
}

func appendWord(buf []byte, v uint32) []byte {
	return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func appendPartial(buf []byte, v uint32, digits int) []byte {
	n := dig2bytes[digits]
	full := appendWord(nil, v)
	return append(buf, full[4-n:]...)
}

func readWord(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func readPartial(b []byte, digits int) uint32 {
	var full [4]byte
	n := dig2bytes[digits]
	copy(full[4-n:], b)
	return readWord(full[:])
}
