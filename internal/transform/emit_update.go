package transform

import "strings"

func transformUpdateStatement(header *UpdateHeader, data *UpdateData, dialect Dialect, alreadyInTransaction bool) ([]string, error) {
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
		stmt, err := emitUpdateRecord(*header, rec, dialect)
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

// emitUpdateRecord renders `UPDATE t SET a=1,b=2 WHERE k1=... AND k2=...`
// for one conflicting row (§4.7, Scenario C's replay form).
func emitUpdateRecord(header UpdateHeader, rec UpdateRecord, dialect Dialect) (string, error) {
	q := dialect.quoteChar()
	var b strings.Builder
	b.WriteString("UPDATE ")
	writeQualifiedName(&b, q, header.Table.SchemaName, header.Table.TableName)
	b.WriteString(" SET ")

	for i, f := range header.SetFields {
		if i != 0 {
			b.WriteByte(',')
		}
		writeQuotedIdent(&b, q, f.Name)
		b.WriteByte('=')
		isNull := i < len(rec.IsNull) && rec.IsNull[i]
		var v Value
		if i < len(rec.After) {
			v = rec.After[i]
		}
		writeValue(&b, f.Type, isNull, v)
	}

	b.WriteString(" WHERE ")
	for i, f := range header.KeyFields {
		if i != 0 {
			b.WriteString(" AND ") // always AND with a multi-column PK
		}
		writeQuotedIdent(&b, q, f.Name)
		b.WriteByte('=')
		var v Value
		if i < len(rec.Key) {
			v = rec.Key[i]
		}
		writeValue(&b, f.Type, false, v)
	}

	return b.String(), nil
}
