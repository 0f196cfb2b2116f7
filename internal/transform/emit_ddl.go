package transform

import "strings"

func emitCreateTable(stmt CreateTableStatement, dialect Dialect) string {
	q := dialect.quoteChar()
	var b strings.Builder
	b.WriteString("CREATE ")
	if stmt.Temporary {
		b.WriteString("TEMPORARY ")
	}
	b.WriteString("TABLE ")
	writeQualifiedName(&b, q, stmt.Table.SchemaName, stmt.Table.TableName)
	b.WriteString(" (\n")
	b.WriteString(strings.Join(stmt.ColumnLines, ",\n"))
	b.WriteString("\n)")
	return b.String()
}

func emitDropTable(stmt DropTableStatement, dialect Dialect) string {
	q := dialect.quoteChar()
	var b strings.Builder
	b.WriteString("DROP TABLE ")
	if stmt.IfExists {
		b.WriteString("IF EXISTS ")
	}
	writeQualifiedName(&b, q, stmt.Table.SchemaName, stmt.Table.TableName)
	return b.String()
}

func emitTruncateTable(stmt TruncateTableStatement, dialect Dialect) string {
	q := dialect.quoteChar()
	var b strings.Builder
	b.WriteString("TRUNCATE TABLE ")
	writeQualifiedName(&b, q, stmt.Table.SchemaName, stmt.Table.TableName)
	return b.String()
}

func emitCreateSchema(stmt CreateSchemaStatement, dialect Dialect) string {
	q := dialect.quoteChar()
	var b strings.Builder
	b.WriteString("CREATE SCHEMA ")
	writeQuotedIdent(&b, q, stmt.SchemaName)
	if stmt.Collation != "" {
		b.WriteString(" COLLATE ")
		b.WriteString(stmt.Collation)
	}
	return b.String()
}

func emitDropSchema(stmt DropSchemaStatement, dialect Dialect) string {
	q := dialect.quoteChar()
	var b strings.Builder
	b.WriteString("DROP SCHEMA ")
	writeQuotedIdent(&b, q, stmt.SchemaName)
	return b.String()
}

// emitSetVariable renders a replicated SET GLOBAL statement. Only global
// variables are replicated, matching the original's "Only global
// variables are replicated" framing; identifier quoting does not apply
// to a variable name, so dialect has no effect here.
func emitSetVariable(stmt SetVariableStatement) string {
	var b strings.Builder
	b.WriteString("SET GLOBAL ")
	b.WriteString(stmt.Variable.Name)
	b.WriteByte('=')
	writeValue(&b, stmt.Variable.Type, false, stmt.Value)
	return b.String()
}
