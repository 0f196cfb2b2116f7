// Package types holds the closed set of column variants (FieldKind), the
// result-family projection used by expression evaluation, and the
// type-merge lattice that types a unioned or coerced column.
package types

import "github.com/pingcap/tidb/pkg/parser/mysql"

// FieldKind is the closed set of column variants a Field may hold.
type FieldKind uint8

const (
	KindNull FieldKind = iota
	KindTiny
	KindLong
	KindLongLong
	KindDouble
	KindDecimal
	KindDate
	KindDateTime
	KindTimestamp
	KindVarchar
	KindBlob
	KindEnum
)

// String names the variant for logging and error text.
func (k FieldKind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindTiny:
		return "TINY"
	case KindLong:
		return "LONG"
	case KindLongLong:
		return "LONGLONG"
	case KindDouble:
		return "DOUBLE"
	case KindDecimal:
		return "DECIMAL"
	case KindDate:
		return "DATE"
	case KindDateTime:
		return "DATETIME"
	case KindTimestamp:
		return "TIMESTAMP"
	case KindVarchar:
		return "VARCHAR"
	case KindBlob:
		return "BLOB"
	case KindEnum:
		return "ENUM"
	default:
		return "UNKNOWN"
	}
}

// ResultFamily is the arithmetic-promotion family used by the expression
// evaluator (§4.1.2). It is deliberately coarser than FieldKind.
type ResultFamily uint8

const (
	FamilyInt ResultFamily = iota
	FamilyReal
	FamilyDecimal
	FamilyString
)

// Family returns the result family an expression evaluator would use when
// promoting this variant (§4.1.2: temporal, enum and NULL project to STRING).
func (k FieldKind) Family() ResultFamily {
	switch k {
	case KindTiny, KindLong, KindLongLong:
		return FamilyInt
	case KindDouble:
		return FamilyReal
	case KindDecimal:
		return FamilyDecimal
	default:
		return FamilyString
	}
}

// IsNumeric reports whether the variant's family is INT, REAL or DECIMAL —
// used by the statement-to-SQL transformer (§4.7) to decide whether a value
// is emitted unquoted.
func (k FieldKind) IsNumeric() bool {
	switch k.Family() {
	case FamilyInt, FamilyReal, FamilyDecimal:
		return true
	default:
		return false
	}
}

// FixedPackLength returns the on-row byte cost for variants with a fixed
// packed length (§6). VARCHAR/BLOB/DECIMAL/ENUM are variable and return
// (0, false); callers must use the variant-specific sizing rule instead.
func (k FieldKind) FixedPackLength() (int, bool) {
	switch k {
	case KindTiny:
		return 1, true
	case KindLong:
		return 4, true
	case KindLongLong:
		return 8, true
	case KindDouble:
		return 8, true
	case KindDate:
		return 3, true
	case KindTimestamp:
		return 4, true
	case KindDateTime:
		return 8, true
	case KindNull:
		return 0, true
	default:
		return 0, false
	}
}

// wireTypeCode maps a FieldKind to the MySQL protocol type code the
// corresponding tidb parser AST node carries (mysql.TypeTiny, …).
// Field.Unpack does not use it: it compares FieldKind values directly.
func (k FieldKind) wireTypeCode() byte {
	switch k {
	case KindTiny:
		return mysql.TypeTiny
	case KindLong:
		return mysql.TypeLong
	case KindLongLong:
		return mysql.TypeLonglong
	case KindDouble:
		return mysql.TypeDouble
	case KindDecimal:
		return mysql.TypeNewDecimal
	case KindDate:
		return mysql.TypeDate
	case KindDateTime:
		return mysql.TypeDatetime
	case KindTimestamp:
		return mysql.TypeTimestamp
	case KindVarchar:
		return mysql.TypeVarchar
	case KindBlob:
		return mysql.TypeBlob
	case KindEnum:
		return mysql.TypeEnum
	default:
		return mysql.TypeNull
	}
}

// WireTypeCode is the exported form of wireTypeCode.
func WireTypeCode(k FieldKind) byte { return k.wireTypeCode() }

// KindFromWireTypeCode is the inverse of WireTypeCode; it returns
// (KindNull, false) for a code this core does not model (e.g. the spatial
// or JSON codes a remote sender may carry — §4.1 unpack then falls back to
// a byte copy of min(len, source_len) rather than misinterpreting the bytes).
func KindFromWireTypeCode(code byte) (FieldKind, bool) {
	switch code {
	case mysql.TypeTiny:
		return KindTiny, true
	case mysql.TypeLong:
		return KindLong, true
	case mysql.TypeLonglong:
		return KindLongLong, true
	case mysql.TypeDouble:
		return KindDouble, true
	case mysql.TypeNewDecimal, mysql.TypeDecimal:
		return KindDecimal, true
	case mysql.TypeDate, mysql.TypeNewDate:
		return KindDate, true
	case mysql.TypeDatetime:
		return KindDateTime, true
	case mysql.TypeTimestamp:
		return KindTimestamp, true
	case mysql.TypeVarchar, mysql.TypeVarString, mysql.TypeString:
		return KindVarchar, true
	case mysql.TypeBlob, mysql.TypeTinyBlob, mysql.TypeMediumBlob, mysql.TypeLongBlob:
		return KindBlob, true
	case mysql.TypeEnum:
		return KindEnum, true
	case mysql.TypeNull:
		return KindNull, true
	default:
		return KindNull, false
	}
}
