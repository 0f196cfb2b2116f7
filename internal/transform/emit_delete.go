package transform

import "strings"

func transformDeleteStatement(header *DeleteHeader, data *DeleteData, dialect Dialect, alreadyInTransaction bool) ([]string, error) {
	if header == nil {
		return nil, ErrMissingHeader
	}
	if data == nil {
		return nil, ErrMissingData
	}

	var out []string
	multiRow := len(data.Records) > 1 && !alreadyInTransaction
	if multiRow {
		out = append(out, "START TRANSACTION")
	}

	for _, rec := range data.Records {
		stmt, err := emitDeleteRecord(*header, rec, dialect)
		if err != nil {
			if multiRow {
				out = append(out, "ROLLBACK")
			}
			return out, err
		}
		out = append(out, stmt)
	}

	if multiRow {
		out = append(out, "COMMIT")
	}
	return out, nil
}

// emitDeleteRecord renders one `DELETE FROM t WHERE k1=... AND k2=...`.
// A grouped multi-record DELETE instead uses emitDeleteGrouped.
func emitDeleteRecord(header DeleteHeader, rec DeleteRecord, dialect Dialect) (string, error) {
	q := dialect.quoteChar()
	var b strings.Builder
	emitDeleteHeader(&b, header, q)
	b.WriteString(" WHERE ")
	writeKeyTuple(&b, q, header.KeyFields, rec.Key)
	return b.String(), nil
}

func emitDeleteHeader(b *strings.Builder, header DeleteHeader, q byte) {
	b.WriteString("DELETE FROM ")
	writeQualifiedName(b, q, header.Table.SchemaName, header.Table.TableName)
}

func writeKeyTuple(b *strings.Builder, q byte, fields []FieldMetadata, key []Value) {
	for i, f := range fields {
		if i != 0 {
			b.WriteString(" AND ")
		}
		writeQuotedIdent(b, q, f.Name)
		b.WriteByte('=')
		var v Value
		if i < len(key) {
			v = key[i]
		}
		writeValue(b, f.Type, false, v)
	}
}

// EmitDeleteGrouped renders every record of a DELETE data segment as a
// single `DELETE FROM t WHERE (k1=.. AND k2=..) OR (...)` statement, the
// multi-key grouping form §4.7 calls out for "a data segment containing
// more than one row" — parenthesizing each tuple only when the primary
// key is composite. Unlike Transform's per-record replay, this form
// never brackets with START TRANSACTION/COMMIT: it is always one
// statement regardless of row count.
func EmitDeleteGrouped(header DeleteHeader, data DeleteData, dialect Dialect) string {
	q := dialect.quoteChar()
	var b strings.Builder
	emitDeleteHeader(&b, header, q)
	b.WriteString(" WHERE ")
	composite := len(header.KeyFields) > 1
	for i, rec := range data.Records {
		if i != 0 {
			b.WriteString(" OR ")
		}
		if composite {
			b.WriteByte('(')
		}
		writeKeyTuple(&b, q, header.KeyFields, rec.Key)
		if composite {
			b.WriteByte(')')
		}
	}
	return b.String()
}
