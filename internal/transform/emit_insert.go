package transform

import "strings"

// transformInsertStatement renders every record in data against header,
// bracketing a multi-row segment with START TRANSACTION/COMMIT unless
// the caller is already inside one (§4.7), and rolling back to ROLLBACK
// on the first record that fails to render.
func transformInsertStatement(header *InsertHeader, data *InsertData, dialect Dialect, alreadyInTransaction bool) ([]string, error) {
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
		stmt, err := emitInsertRecord(*header, rec, dialect)
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

func emitInsertHeader(b *strings.Builder, header InsertHeader, q byte) {
	b.WriteString("INSERT INTO ")
	writeQualifiedName(b, q, header.Table.SchemaName, header.Table.TableName)
	b.WriteString(" (")
	for i, f := range header.Fields {
		if i != 0 {
			b.WriteByte(',')
		}
		writeQuotedIdent(b, q, f.Name)
	}
}

// emitInsertRecord renders one VALUES(...) INSERT for a single row
// (§4.7 / Scenario E).
func emitInsertRecord(header InsertHeader, rec InsertRecord, dialect Dialect) (string, error) {
	q := dialect.quoteChar()
	var b strings.Builder
	emitInsertHeader(&b, header, q)
	b.WriteString(") VALUES (")
	for i, f := range header.Fields {
		if i != 0 {
			b.WriteByte(',')
		}
		isNull := i < len(rec.IsNull) && rec.IsNull[i]
		var v Value
		if i < len(rec.Values) {
			v = rec.Values[i]
		}
		writeValue(&b, f.Type, isNull, v)
	}
	b.WriteByte(')')
	return b.String(), nil
}
