// Package transform converts a structured DML record — the
// header-plus-data-rows shape spec.md §4.7/§6 describes as "a logical
// mutation (protobuf-shaped Statement record)" — back into an equivalent
// SQL string, the form replication and auditing replay against a live
// server. Grounded on
// _examples/original_source/drizzled/message/statement_transform.cc,
// re-expressed per spec.md §9's redesign note (no catalog lookups; every
// value the caller needs is already in the header or the row).
package transform

import (
	"strings"

	"rowengine/internal/strbuf"
	"rowengine/internal/types"
)

// Dialect selects the identifier-quoting character (§4.7).
type Dialect uint8

const (
	// Native uses back-tick identifier quoting (the server's own SQL
	// dialect).
	Native Dialect = iota
	// ANSI uses double-quote identifier quoting.
	ANSI
)

func (d Dialect) quoteChar() byte {
	if d == ANSI {
		return '"'
	}
	return '`'
}

// TableMetadata names the schema and table a statement targets.
type TableMetadata struct {
	SchemaName string
	TableName  string
}

// FieldMetadata carries one column's name and logical type, the minimum
// a pure transformer needs to decide whether to quote a value.
type FieldMetadata struct {
	Name string
	Type types.FieldKind
}

// Value is an already-rendered column value. Text holds the rendered
// string form for every variant except BLOB, which carries raw bytes in
// Blob (§6: "already-rendered string form except BLOB which is raw
// bytes" — BLOB payloads may contain NUL and must not be string-truncated).
type Value struct {
	Text   string
	Blob   []byte
	IsBlob bool
}

// Str wraps a rendered non-BLOB value.
func Str(s string) Value { return Value{Text: s} }

// BlobValue wraps raw BLOB bytes.
func BlobValue(b []byte) Value { return Value{Blob: b, IsBlob: true} }

func (v Value) raw() string {
	if v.IsBlob {
		return string(v.Blob)
	}
	return v.Text
}

// Error is a transform failure kind (§4.7's TransformSqlError enum).
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrMissingHeader Error = "transform: missing header"
	ErrMissingData   Error = "transform: missing data"
)

// InsertHeader is an INSERT statement's table and field metadata.
type InsertHeader struct {
	Table  TableMetadata
	Fields []FieldMetadata
}

// InsertRecord is one inserted row.
type InsertRecord struct {
	IsNull []bool
	Values []Value
}

// InsertData is an INSERT statement's data segment.
type InsertData struct {
	Records   []InsertRecord
	SegmentID int // >=1; >1 marks an overflow continuation segment (§6).
}

// UpdateHeader is an UPDATE statement's table, SET-list, and key metadata.
type UpdateHeader struct {
	Table     TableMetadata
	SetFields []FieldMetadata
	KeyFields []FieldMetadata
}

// UpdateRecord is one updated row: the columns named in SetFields take
// their new value from After; the columns named in KeyFields identify
// the row via Key (§6: "before/after/key triplets" — Before is not
// needed by a pure emitter and is omitted here).
type UpdateRecord struct {
	IsNull []bool
	After  []Value
	Key    []Value
}

// UpdateData is an UPDATE statement's data segment.
type UpdateData struct {
	Records   []UpdateRecord
	SegmentID int
}

// DeleteHeader is a DELETE statement's table and key metadata.
type DeleteHeader struct {
	Table     TableMetadata
	KeyFields []FieldMetadata
}

// DeleteRecord is one deleted row's key.
type DeleteRecord struct {
	Key []Value
}

// DeleteData is a DELETE statement's data segment.
type DeleteData struct {
	Records   []DeleteRecord
	SegmentID int
}

// StatementKind is the discriminant of a structured DML/DDL record
// (§4.7: "INSERT{...}, UPDATE{...}, DELETE{...}, plus schema DDL").
type StatementKind uint8

const (
	KindInsert StatementKind = iota
	KindUpdate
	KindDelete
	KindCreateTable
	KindTruncateTable
	KindDropTable
	KindCreateSchema
	KindDropSchema
	KindSetVariable
	KindRawSQL
)

// CreateTableStatement carries a column-definition list already rendered
// as SQL fragments (full DDL type-string rendering is a parser/DDL
// concern outside this core's scope per spec.md §1; the transformer only
// assembles the CREATE TABLE envelope around caller-supplied column
// lines, mirroring how CTAS (internal/ctas) hands it a projected schema).
type CreateTableStatement struct {
	Table       TableMetadata
	ColumnLines []string
	Temporary   bool
}

// DropTableStatement is a DROP TABLE statement.
type DropTableStatement struct {
	Table    TableMetadata
	IfExists bool
}

// TruncateTableStatement is a TRUNCATE TABLE statement.
type TruncateTableStatement struct {
	Table TableMetadata
}

// CreateSchemaStatement is a CREATE SCHEMA statement.
type CreateSchemaStatement struct {
	SchemaName string
	Collation  string // empty means no COLLATE clause
}

// DropSchemaStatement is a DROP SCHEMA statement.
type DropSchemaStatement struct {
	SchemaName string
}

// SetVariableStatement is a replicated SET GLOBAL statement.
type SetVariableStatement struct {
	Variable FieldMetadata
	Value    Value
}

// Statement is one structured DML/DDL record. Exactly the field matching
// Kind is consulted; Transform returns ErrMissingHeader/ErrMissingData if
// the matching Insert/Update/Delete header or data is absent.
type Statement struct {
	Kind StatementKind

	InsertHeader *InsertHeader
	InsertData   *InsertData

	UpdateHeader *UpdateHeader
	UpdateData   *UpdateData

	DeleteHeader *DeleteHeader
	DeleteData   *DeleteData

	CreateTable   *CreateTableStatement
	DropTable     *DropTableStatement
	TruncateTable *TruncateTableStatement
	CreateSchema  *CreateSchemaStatement
	DropSchema    *DropSchemaStatement
	SetVariable   *SetVariableStatement
	RawSQL        string
}

// Transform renders source as a sequence of SQL statement strings.
// Multi-row INSERT/UPDATE/DELETE data segments are bracketed with START
// TRANSACTION/COMMIT (or ROLLBACK on failure) unless alreadyInTransaction
// is set (§4.7). The transformer never consults a catalog: everything it
// needs must already be in the header (§4.7's purity rule).
func Transform(source Statement, dialect Dialect, alreadyInTransaction bool) ([]string, error) {
	switch source.Kind {
	case KindInsert:
		return transformInsertStatement(source.InsertHeader, source.InsertData, dialect, alreadyInTransaction)
	case KindUpdate:
		return transformUpdateStatement(source.UpdateHeader, source.UpdateData, dialect, alreadyInTransaction)
	case KindDelete:
		return transformDeleteStatement(source.DeleteHeader, source.DeleteData, dialect, alreadyInTransaction)
	case KindCreateTable:
		if source.CreateTable == nil {
			return nil, ErrMissingHeader
		}
		return []string{emitCreateTable(*source.CreateTable, dialect)}, nil
	case KindDropTable:
		if source.DropTable == nil {
			return nil, ErrMissingHeader
		}
		return []string{emitDropTable(*source.DropTable, dialect)}, nil
	case KindTruncateTable:
		if source.TruncateTable == nil {
			return nil, ErrMissingHeader
		}
		return []string{emitTruncateTable(*source.TruncateTable, dialect)}, nil
	case KindCreateSchema:
		if source.CreateSchema == nil {
			return nil, ErrMissingHeader
		}
		return []string{emitCreateSchema(*source.CreateSchema, dialect)}, nil
	case KindDropSchema:
		if source.DropSchema == nil {
			return nil, ErrMissingHeader
		}
		return []string{emitDropSchema(*source.DropSchema, dialect)}, nil
	case KindSetVariable:
		if source.SetVariable == nil {
			return nil, ErrMissingHeader
		}
		return []string{emitSetVariable(*source.SetVariable)}, nil
	case KindRawSQL:
		return []string{source.RawSQL}, nil
	default:
		return nil, Error("transform: unknown statement kind")
	}
}

// shouldQuoteValue decides whether a rendered value gets single-quoted
// (§4.7: "unless the field's logical type is numeric ... or ENUM").
func shouldQuoteValue(k types.FieldKind) bool {
	if k == types.KindEnum {
		return false
	}
	return !k.IsNumeric()
}

// writeQuotedIdent appends a back-tick/double-quote quoted identifier,
// doubling any embedded quote character (§4.7).
func writeQuotedIdent(b *strings.Builder, q byte, name string) {
	b.WriteByte(q)
	for i := 0; i < len(name); i++ {
		if name[i] == q {
			b.WriteByte(q)
		}
		b.WriteByte(name[i])
	}
	b.WriteByte(q)
}

func writeQualifiedName(b *strings.Builder, q byte, schema, table string) {
	writeQuotedIdent(b, q, schema)
	b.WriteByte('.')
	writeQuotedIdent(b, q, table)
}

// writeValue appends one already-rendered value, quoting and escaping it
// unless its field kind is exempt (§4.4's Escape, §4.7's quoting rule).
// A NULL value is always rendered as the bareword NULL. Value literals
// are always single-quoted regardless of the statement's identifier
// dialect — only identifier quoting is dialect-driven (§4.7).
func writeValue(b *strings.Builder, k types.FieldKind, isNull bool, v Value) {
	if isNull {
		b.WriteString("NULL")
		return
	}
	if !shouldQuoteValue(k) {
		b.WriteString(v.raw())
		return
	}
	b.WriteString(strbuf.Escape(v.raw(), '\''))
}
