package field

import (
	"math"
	"strconv"
	"strings"

	"rowengine/internal/collation"
	"rowengine/internal/decimal"
	"rowengine/internal/session"
	"rowengine/internal/strbuf"
	"rowengine/internal/temporal"
	"rowengine/internal/types"
)

// rawWidth returns the fixed byte width of the numeric/temporal variants
// that have one; 0 for variable-length variants.
func (f *Field) rawWidth() int {
	n, _ := f.Kind.FixedPackLength()
	return n
}

func putIntLE(buf []byte, v uint64, width int) {
	for i := 0; i < width; i++ {
		buf[i] = byte(v)
		v >>= 8
	}
}

func getIntLE(buf []byte, width int) uint64 {
	var v uint64
	for i := width - 1; i >= 0; i-- {
		v = v<<8 | uint64(buf[i])
	}
	return v
}

func signedRange(width int) (min int64, max int64) {
	switch width {
	case 1:
		return math.MinInt8, math.MaxInt8
	case 4:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

func unsignedMax(width int) uint64 {
	switch width {
	case 1:
		return math.MaxUint8
	case 4:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

// clampInt fits v (interpreted as unsigned if srcUnsigned) into width
// bytes at the destination's signedness, clamping and reporting
// OutOfRange on overflow (spec.md §7: "OutOfRange — warning; in strict
// mode becomes error").
func clampInt(v int64, srcUnsigned bool, width int, dstUnsigned bool) (uint64, StoreResult) {
	smin, smax := signedRange(width)
	if !dstUnsigned {
		if srcUnsigned {
			u := uint64(v)
			if u > uint64(smax) {
				return uint64(smax), StoreOutOfRange
			}
			return u, StoreOK
		}
		if v > smax {
			return uint64(smax), StoreOutOfRange
		}
		if v < smin {
			return uint64(smin), StoreOutOfRange
		}
		return uint64(v), StoreOK
	}

	umax := unsignedMax(width)
	if srcUnsigned {
		u := uint64(v)
		if u > umax {
			return umax, StoreOutOfRange
		}
		return u, StoreOK
	}
	if v < 0 {
		return 0, StoreOutOfRange
	}
	u := uint64(v)
	if u > umax {
		return umax, StoreOutOfRange
	}
	return u, StoreOK
}

// StoreInt implements store(i64, unsigned) for the INT-family variants
// (spec.md §4.1). DOUBLE and DECIMAL fields accept it too, widening.
func (f *Field) StoreInt(v int64, srcUnsigned bool, sink session.Sink) StoreResult {
	switch f.Kind {
	case types.KindTiny, types.KindLong, types.KindLongLong:
		width := f.rawWidth()
		u, res := clampInt(v, srcUnsigned, width, f.Flags.Has(FlagUnsigned))
		putIntLE(f.bytes(f.Table.Row), u, width)
		f.warn(sink, res, "integer out of range")
		return res
	case types.KindDouble:
		fv := float64(v)
		if srcUnsigned && v < 0 {
			fv = float64(uint64(v))
		}
		return f.StoreFloat(fv, sink)
	case types.KindDecimal:
		var d decimal.Decimal
		if srcUnsigned {
			d = decimal.NewFromUint64(uint64(v))
		} else {
			d = decimal.NewFromInt64(v)
		}
		return f.StoreDecimal(d, sink)
	default:
		return f.Store(strconv.FormatInt(v, 10), collation.Binary{}, sink)
	}
}

// StoreFloat implements store(double).
func (f *Field) StoreFloat(v float64, sink session.Sink) StoreResult {
	switch f.Kind {
	case types.KindDouble:
		putIntLE(f.bytes(f.Table.Row), math.Float64bits(v), 8)
		return StoreOK
	case types.KindDecimal:
		return f.StoreDecimal(decimal.NewFromFloat64(v), sink)
	case types.KindTiny, types.KindLong, types.KindLongLong:
		return f.StoreInt(int64(math.Round(v)), v >= 0, sink)
	default:
		return f.Store(strconv.FormatFloat(v, 'g', -1, 64), collation.Binary{}, sink)
	}
}

// StoreDecimal implements the DECIMAL path of store(), fitting to the
// field's declared (precision, scale) (spec.md §4.3/§6).
func (f *Field) StoreDecimal(d decimal.Decimal, sink session.Sink) StoreResult {
	if f.Kind != types.KindDecimal {
		iv, decRes := d.ToInt64()
		res := f.StoreInt(iv, false, sink)
		if decRes == decimal.Overflow {
			res = StoreOutOfRange
			f.warn(sink, res, "decimal overflow on int coercion")
		}
		return res
	}
	fit, decRes := d.FitTo(f.Precision, f.Scale)
	buf, encRes := fit.EncodeBinary(f.Precision, f.Scale)
	copy(f.bytes(f.Table.Row), buf)

	res := StoreOK
	switch {
	case decRes == decimal.Overflow || encRes == decimal.Overflow:
		res = StoreOutOfRange
	case decRes == decimal.Truncated:
		res = StoreTruncatedData
	case decRes == decimal.BadNum:
		res = StoreBadValue
	}
	f.warn(sink, res, "decimal does not fit declared precision/scale")
	return res
}

// StoreDate implements store(temporal) for DATE columns.
func (f *Field) StoreDate(d temporal.Date, sink session.Sink) StoreResult {
	res := f.validateTemporalDate(d, sink)
	b := d.Pack3()
	copy(f.bytes(f.Table.Row), b[:])
	f.warn(sink, res, "invalid date")
	return res
}

// StoreDateTime implements store(temporal) for DATETIME columns.
func (f *Field) StoreDateTime(dt temporal.DateTime, sink session.Sink) StoreResult {
	res := f.validateTemporalDate(dt.Date, sink)
	b := dt.Pack8()
	copy(f.bytes(f.Table.Row), b[:])
	f.warn(sink, res, "invalid datetime")
	return res
}

// StoreTimestamp implements store(temporal) for TIMESTAMP columns. The
// Timestamp value is assumed already resolved against the session's
// time zone (spec.md §9: TIMESTAMP conversion is Zone's job, not
// Field's).
func (f *Field) StoreTimestamp(ts temporal.Timestamp, sink session.Sink) StoreResult {
	b := ts.Pack4()
	copy(f.bytes(f.Table.Row), b[:])
	return StoreOK
}

func (f *Field) validateTemporalDate(d temporal.Date, sink session.Sink) StoreResult {
	if d.IsZero() {
		if sink.Options().Has(session.OptNoZeroDate) {
			return StoreBadValue
		}
		return StoreOK
	}
	if d.IsValid() {
		return StoreOK
	}
	if d.IsFuzzyValid() && sink.Options().Has(session.OptFuzzyDate) {
		return StoreOK
	}
	return StoreBadValue
}

// Store implements store(text, length, src_collation) for the
// string-family variants (VARCHAR, BLOB, ENUM) and re-dispatches to the
// numeric/temporal stores for everything else by parsing text (spec.md
// §4.1: "parses text under the source collation... checks
// well-formedness, fits to the packed representation, and writes
// bytes").
func (f *Field) Store(text string, srcCollation collation.Collation, sink session.Sink) StoreResult {
	switch f.Kind {
	case types.KindVarchar, types.KindBlob:
		return f.storeString([]byte(text), srcCollation, sink)
	case types.KindEnum:
		return f.storeEnum(text, sink)
	case types.KindTiny, types.KindLong, types.KindLongLong:
		trimmed := strings.TrimSpace(text)
		n, consumed := leadingInt(trimmed)
		if consumed == 0 {
			f.warn(sink, StoreBadValue, "not a number: "+text)
			return StoreBadValue
		}
		iv, _ := strconv.ParseInt(n, 10, 64)
		res := f.StoreInt(iv, false, sink)
		if consumed < len(trimmed) && res == StoreOK {
			res = StoreTruncatedData
			f.warn(sink, res, "partial numeric conversion: "+text)
		}
		return res
	case types.KindDouble:
		trimmed := strings.TrimSpace(text)
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			f.warn(sink, StoreBadValue, "not a float: "+text)
			return StoreBadValue
		}
		return f.StoreFloat(v, sink)
	case types.KindDecimal:
		d, decRes := decimal.ParseString(text, f.Scale)
		if decRes == decimal.BadNum {
			f.warn(sink, StoreBadValue, "not a decimal: "+text)
			return StoreBadValue
		}
		res := f.StoreDecimal(d, sink)
		if decRes == decimal.Truncated && res == StoreOK {
			res = StoreTruncatedData
			f.warn(sink, res, "decimal truncated: "+text)
		}
		return res
	case types.KindDate:
		d, err := temporal.ParseDateTime(text)
		if err != nil {
			f.warn(sink, StoreBadValue, "invalid date literal: "+text)
			return StoreBadValue
		}
		return f.StoreDate(d.Date, sink)
	case types.KindDateTime:
		dt, err := temporal.ParseDateTime(text)
		if err != nil {
			f.warn(sink, StoreBadValue, "invalid datetime literal: "+text)
			return StoreBadValue
		}
		return f.StoreDateTime(dt, sink)
	case types.KindTimestamp:
		dt, err := temporal.ParseDateTime(text)
		if err != nil {
			f.warn(sink, StoreBadValue, "invalid timestamp literal: "+text)
			return StoreBadValue
		}
		ts, err := temporal.FromDateTime(dt, temporal.UTCZone{})
		if err != nil {
			f.warn(sink, StoreOutOfRange, "timestamp out of range: "+text)
			return StoreOutOfRange
		}
		return f.StoreTimestamp(ts, sink)
	default:
		return StoreOK
	}
}

// leadingInt scans the longest numeric prefix of s (spec.md §4.1:
// "'42abc' stores 42, warns TruncatedData" — Scenario A), returning the
// digit text (with an optional leading sign) and how much of s it
// consumed.
func leadingInt(s string) (digits string, consumed int) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return "", 0
	}
	if s[0] == '+' || s[0] == '-' {
		return s[:i], i
	}
	return s[:i], i
}

func (f *Field) storeString(text []byte, srcCollation collation.Collation, sink session.Sink) StoreResult {
	if srcCollation == nil {
		srcCollation = collation.Binary{}
	}
	dstCollation := f.Collation
	if dstCollation == nil {
		dstCollation = collation.Binary{}
	}

	maxLen := f.DeclaredLength
	if f.Kind == types.KindBlob {
		maxLen = -1
	}
	copied, illFormedAt := strbuf.WellFormedCopyNChars(dstCollation, srcCollation, text, maxLen, -1)

	res := StoreOK
	switch {
	case illFormedAt >= 0 && illFormedAt < len(copied):
		res = StoreBadValue
	case len(copied) < len(text):
		if allSpaces(text[len(copied):]) {
			res = StoreTruncatedSpacesOnly
		} else {
			res = StoreTruncatedData
		}
	}

	if f.Kind == types.KindBlob {
		f.writeBlob(copied)
	} else {
		f.writeVarchar(copied)
	}
	f.warn(sink, res, "string truncated storing into "+f.Name)
	return res
}

func allSpaces(b []byte) bool {
	for _, c := range b {
		if c != ' ' {
			return false
		}
	}
	return true
}

func (f *Field) lengthPrefixWidth() int {
	if f.DeclaredLength < 256 {
		return 1
	}
	return 2
}

func (f *Field) writeVarchar(content []byte) {
	buf := f.bytes(f.Table.Row)
	for i := range buf {
		buf[i] = 0
	}
	w := f.lengthPrefixWidth()
	putIntLE(buf[:w], uint64(len(content)), w)
	copy(buf[w:], content)
}

func (f *Field) writeBlob(content []byte) {
	buf := f.bytes(f.Table.Row)
	for i := range buf {
		buf[i] = 0
	}
	putIntLE(buf[:4], uint64(len(content)), 4)
	f.blobData = content
}

func (f *Field) storeEnum(text string, sink session.Sink) StoreResult {
	idx := 0
	for i, label := range f.Labels {
		if strings.EqualFold(label, text) {
			idx = i + 1
			break
		}
	}
	res := StoreOK
	if idx == 0 && text != "" {
		res = StoreBadValue
	}
	w := 1
	if len(f.Labels) >= 256 {
		w = 2
	}
	putIntLE(f.bytes(f.Table.Row), uint64(idx), w)
	f.warn(sink, res, "unknown enum label: "+text)
	return res
}

// ValInt implements val_int(): decode the stored bytes as a logical
// int64 (spec.md §4.1). Unsigned values above math.MaxInt64 are returned
// bit-identical (reinterpret via ValUint for the true magnitude).
func (f *Field) ValInt() int64 {
	if f.IsNull() {
		return 0
	}
	switch f.Kind {
	case types.KindTiny, types.KindLong, types.KindLongLong:
		width := f.rawWidth()
		u := getIntLE(f.bytes(f.Table.Row), width)
		if f.Flags.Has(FlagUnsigned) {
			return int64(u)
		}
		return signExtend(u, width)
	case types.KindDouble:
		return int64(math.Float64frombits(getIntLE(f.bytes(f.Table.Row), 8)))
	case types.KindDecimal:
		d, _ := f.decodeDecimal()
		iv, _ := d.ToInt64()
		return iv
	case types.KindDate:
		d := f.decodeDate()
		return int64(d.Year*10000 + d.Month*100 + d.Day)
	case types.KindDateTime:
		dt := f.decodeDateTime()
		return int64(dt.Date.Year)*10000000000 + int64(dt.Date.Month)*100000000 + int64(dt.Date.Day)*1000000 +
			int64(dt.Time.Hour)*10000 + int64(dt.Time.Minute)*100 + int64(dt.Time.Second)
	case types.KindTimestamp:
		return int64(f.decodeTimestamp().Seconds)
	case types.KindEnum:
		return int64(getIntLE(f.bytes(f.Table.Row), f.enumWidth()))
	default:
		s := f.ValStr()
		n, consumed := leadingInt(strings.TrimSpace(s))
		if consumed == 0 {
			return 0
		}
		v, _ := strconv.ParseInt(n, 10, 64)
		return v
	}
}

// ValUint returns the field's value reinterpreted as unsigned, for
// columns carrying FlagUnsigned.
func (f *Field) ValUint() uint64 {
	width := f.rawWidth()
	if width == 0 {
		return uint64(f.ValInt())
	}
	return getIntLE(f.bytes(f.Table.Row), width)
}

func signExtend(u uint64, width int) int64 {
	switch width {
	case 1:
		return int64(int8(u))
	case 4:
		return int64(int32(u))
	default:
		return int64(u)
	}
}

func (f *Field) enumWidth() int {
	if len(f.Labels) >= 256 {
		return 2
	}
	return 1
}

// ValReal implements val_real().
func (f *Field) ValReal() float64 {
	if f.IsNull() {
		return 0
	}
	switch f.Kind {
	case types.KindDouble:
		return math.Float64frombits(getIntLE(f.bytes(f.Table.Row), 8))
	case types.KindDecimal:
		d, _ := f.decodeDecimal()
		v, _ := d.ToFloat64()
		return v
	case types.KindTiny, types.KindLong, types.KindLongLong:
		if f.Flags.Has(FlagUnsigned) {
			return float64(f.ValUint())
		}
		return float64(f.ValInt())
	default:
		s := strings.TrimSpace(f.ValStr())
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return v
	}
}

// ValDecimal implements val_decimal(out).
func (f *Field) ValDecimal() decimal.Decimal {
	if f.IsNull() {
		return decimal.Zero()
	}
	switch f.Kind {
	case types.KindDecimal:
		d, _ := f.decodeDecimal()
		return d
	case types.KindDouble:
		return decimal.NewFromFloat64(f.ValReal())
	case types.KindTiny, types.KindLong, types.KindLongLong:
		if f.Flags.Has(FlagUnsigned) {
			return decimal.NewFromUint64(f.ValUint())
		}
		return decimal.NewFromInt64(f.ValInt())
	default:
		d, _ := decimal.ParseString(f.ValStr(), f.Scale)
		return d
	}
}

// ValStr implements val_str(buf): decode the stored bytes into their
// canonical textual form.
func (f *Field) ValStr() string {
	if f.IsNull() {
		return ""
	}
	switch f.Kind {
	case types.KindVarchar:
		return string(f.readVarchar())
	case types.KindBlob:
		return string(f.blobData)
	case types.KindEnum:
		idx := int(getIntLE(f.bytes(f.Table.Row), f.enumWidth()))
		if idx < 1 || idx > len(f.Labels) {
			return ""
		}
		return f.Labels[idx-1]
	case types.KindTiny, types.KindLong, types.KindLongLong:
		if f.Flags.Has(FlagUnsigned) {
			return strconv.FormatUint(f.ValUint(), 10)
		}
		return strconv.FormatInt(f.ValInt(), 10)
	case types.KindDouble:
		return strconv.FormatFloat(f.ValReal(), 'g', -1, 64)
	case types.KindDecimal:
		d, _ := f.decodeDecimal()
		return d.String(f.Precision, f.Scale, 0)
	case types.KindDate:
		return f.decodeDate().String()
	case types.KindDateTime:
		return f.decodeDateTime().String()
	case types.KindTimestamp:
		return f.decodeTimestamp().String(temporal.UTCZone{})
	default:
		return ""
	}
}

func (f *Field) readVarchar() []byte {
	buf := f.bytes(f.Table.Row)
	w := f.lengthPrefixWidth()
	n := int(getIntLE(buf[:w], w))
	if n > len(buf)-w {
		n = len(buf) - w
	}
	out := make([]byte, n)
	copy(out, buf[w:w+n])
	return out
}

func (f *Field) decodeDecimal() (decimal.Decimal, error) {
	return decimal.DecodeBinary(f.bytes(f.Table.Row), f.Precision, f.Scale)
}

func (f *Field) decodeDate() temporal.Date {
	var b [3]byte
	copy(b[:], f.bytes(f.Table.Row))
	return temporal.UnpackDate3(b)
}

func (f *Field) decodeDateTime() temporal.DateTime {
	var b [8]byte
	copy(b[:], f.bytes(f.Table.Row))
	return temporal.UnpackDateTime8(b)
}

func (f *Field) decodeTimestamp() temporal.Timestamp {
	var b [4]byte
	copy(b[:], f.bytes(f.Table.Row))
	return temporal.UnpackTimestamp4(b)
}

// CmpBinary implements cmp_binary(a,b): byte-wise order regardless of
// collation (spec.md §4.1).
func (f *Field) CmpBinary(other *Field) int {
	return collation.Binary{}.Compare(f.bytes(f.Table.Row), other.bytes(other.Table.Row))
}

// Cmp implements cmp(a,b): the semantic total order for this field's
// variant, routing string variants through the collation service
// (spec.md §8 property 3).
func (f *Field) Cmp(other *Field) int {
	switch f.Kind {
	case types.KindVarchar, types.KindBlob:
		c := f.Collation
		if c == nil {
			c = collation.Binary{}
		}
		return c.Compare(f.rawStringBytes(), other.rawStringBytes())
	case types.KindDouble:
		a, b := f.ValReal(), other.ValReal()
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	case types.KindDecimal:
		a, _ := f.decodeDecimal()
		b, _ := other.decodeDecimal()
		return decimal.Compare(a, b)
	case types.KindDate:
		return temporal.CompareDate(f.decodeDate(), other.decodeDate())
	case types.KindDateTime, types.KindTimestamp:
		return temporal.CompareDateTime(f.temporalValue(), other.temporalValue())
	default:
		a, b := f.ValInt(), other.ValInt()
		if f.Flags.Has(FlagUnsigned) {
			ua, ub := f.ValUint(), other.ValUint()
			switch {
			case ua < ub:
				return -1
			case ua > ub:
				return 1
			default:
				return 0
			}
		}
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
}

func (f *Field) rawStringBytes() []byte {
	if f.Kind == types.KindBlob {
		return f.blobData
	}
	return f.readVarchar()
}

func (f *Field) temporalValue() temporal.DateTime {
	if f.Kind == types.KindTimestamp {
		return f.decodeTimestamp().ToDateTime(temporal.UTCZone{})
	}
	return f.decodeDateTime()
}

// KeyCmp is the key-ordering comparator. It compares the full stored
// values exactly as Cmp does; VARCHAR/BLOB values are not cut to their
// declared prefix length here (KeyLength reports that prefix).
func (f *Field) KeyCmp(other *Field) int {
	return f.Cmp(other)
}

// KeyLength is the number of bytes this field contributes to an index
// key: for VARCHAR/BLOB it's the prefix cap, not the full stored value.
func (f *Field) KeyLength() int {
	switch f.Kind {
	case types.KindVarchar, types.KindBlob:
		return f.DeclaredLength
	default:
		return f.PackLength()
	}
}

// SortLength is the byte span consulted by a sort-merge comparator
// (spec.md §5 sort/merge component); identical to KeyLength for this
// core, which keeps no separate "sort key normalized form".
func (f *Field) SortLength() int {
	return f.KeyLength()
}

// Pack writes the on-wire/on-disk packed form to dst, which may be
// shorter than the row form (spec.md §4.1: "VARCHAR strips trailing
// fill"). It returns the number of bytes written.
func (f *Field) Pack(dst []byte) int {
	switch f.Kind {
	case types.KindVarchar:
		content := f.readVarchar()
		w := f.lengthPrefixWidth()
		putIntLE(dst[:w], uint64(len(content)), w)
		copy(dst[w:], content)
		return w + len(content)
	case types.KindBlob:
		putIntLE(dst[:4], uint64(len(f.blobData)), 4)
		copy(dst[4:], f.blobData)
		return 4 + len(f.blobData)
	default:
		n := f.PackLength()
		copy(dst, f.bytes(f.Table.Row))
		return n
	}
}

// Unpack is the inverse of Pack. When srcKind differs from this field's
// own kind (a cross-version stream), it falls back to a byte copy of
// min(len(src), PackLength()) (spec.md §4.1).
func (f *Field) Unpack(src []byte, srcKind types.FieldKind) {
	if srcKind != f.Kind {
		n := f.PackLength()
		if len(src) < n {
			n = len(src)
		}
		dst := f.bytes(f.Table.Row)
		for i := range dst {
			dst[i] = 0
		}
		copy(dst, src[:n])
		return
	}
	switch f.Kind {
	case types.KindVarchar:
		w := f.lengthPrefixWidth()
		n := int(getIntLE(src[:w], w))
		f.writeVarchar(src[w : w+n])
	case types.KindBlob:
		n := int(getIntLE(src[:4], 4))
		f.writeBlob(append([]byte(nil), src[4:4+n]...))
	default:
		copy(f.bytes(f.Table.Row), src[:f.PackLength()])
	}
}

// Hash implements hash(nr1, nr2): fold this field's bytes into two
// accumulators using the collation service for strings, or the same
// binary mix for everything else (spec.md §4.1). NULL mixes a
// distinguished pattern so NULL and empty-string don't collide.
func (f *Field) Hash(nr1, nr2 uint64) (uint64, uint64) {
	if f.IsNull() {
		return nr1 ^ (nr1 << 1) ^ 0x8765432187654321, nr2 + 1
	}
	switch f.Kind {
	case types.KindVarchar, types.KindBlob:
		c := f.Collation
		if c == nil {
			c = collation.Binary{}
		}
		return c.HashMix(nr1, nr2, f.rawStringBytes())
	default:
		return collation.Binary{}.HashMix(nr1, nr2, f.bytes(f.Table.Row))
	}
}
