package transform

import (
	"strings"
	"testing"

	"rowengine/internal/types"
)

// Scenario E (spec.md §8): given an INSERT header/data for s.t(id INT,
// v VARCHAR) with a single row (7,'hi'), native dialect emits
// `INSERT INTO `s`.`t` (`id`,`v`) VALUES (7,'hi')`.
func TestScenarioEInsertToSQL(t *testing.T) {
	header := &InsertHeader{
		Table: TableMetadata{SchemaName: "s", TableName: "t"},
		Fields: []FieldMetadata{
			{Name: "id", Type: types.KindLong},
			{Name: "v", Type: types.KindVarchar},
		},
	}
	data := &InsertData{
		Records: []InsertRecord{
			{IsNull: []bool{false, false}, Values: []Value{Str("7"), Str("hi")}},
		},
		SegmentID: 1,
	}

	got, err := Transform(Statement{Kind: KindInsert, InsertHeader: header, InsertData: data}, Native, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "INSERT INTO `s`.`t` (`id`,`v`) VALUES (7,'hi')"
	if len(got) != 1 || got[0] != want {
		t.Fatalf("got %v, want [%q]", got, want)
	}
}

func TestInsertANSIDialectQuotesIdentifiers(t *testing.T) {
	header := &InsertHeader{
		Table:  TableMetadata{SchemaName: "s", TableName: "t"},
		Fields: []FieldMetadata{{Name: "id", Type: types.KindLong}},
	}
	data := &InsertData{Records: []InsertRecord{{IsNull: []bool{false}, Values: []Value{Str("1")}}}}

	got, err := Transform(Statement{Kind: KindInsert, InsertHeader: header, InsertData: data}, ANSI, false)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != `INSERT INTO "s"."t" ("id") VALUES (1)` {
		t.Fatalf("got %q", got[0])
	}
}

func TestInsertNullValue(t *testing.T) {
	header := &InsertHeader{
		Table:  TableMetadata{SchemaName: "s", TableName: "t"},
		Fields: []FieldMetadata{{Name: "v", Type: types.KindVarchar}},
	}
	data := &InsertData{Records: []InsertRecord{{IsNull: []bool{true}, Values: []Value{{}}}}}

	got, err := Transform(Statement{Kind: KindInsert, InsertHeader: header, InsertData: data}, Native, false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got[0], "VALUES (NULL)") {
		t.Fatalf("got %q", got[0])
	}
}

func TestMultiRowInsertBracketsTransaction(t *testing.T) {
	header := &InsertHeader{
		Table:  TableMetadata{SchemaName: "s", TableName: "t"},
		Fields: []FieldMetadata{{Name: "id", Type: types.KindLong}},
	}
	data := &InsertData{Records: []InsertRecord{
		{IsNull: []bool{false}, Values: []Value{Str("1")}},
		{IsNull: []bool{false}, Values: []Value{Str("2")}},
	}}

	got, err := Transform(Statement{Kind: KindInsert, InsertHeader: header, InsertData: data}, Native, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 || got[0] != "START TRANSACTION" || got[3] != "COMMIT" {
		t.Fatalf("got %v", got)
	}
}

func TestMultiRowInsertSkipsBracketWhenAlreadyInTransaction(t *testing.T) {
	header := &InsertHeader{
		Table:  TableMetadata{SchemaName: "s", TableName: "t"},
		Fields: []FieldMetadata{{Name: "id", Type: types.KindLong}},
	}
	data := &InsertData{Records: []InsertRecord{
		{IsNull: []bool{false}, Values: []Value{Str("1")}},
		{IsNull: []bool{false}, Values: []Value{Str("2")}},
	}}

	got, err := Transform(Statement{Kind: KindInsert, InsertHeader: header, InsertData: data}, Native, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %v, want 2 bare INSERTs", got)
	}
}

func TestUpdateRecordToSQL(t *testing.T) {
	header := &UpdateHeader{
		Table:     TableMetadata{SchemaName: "s", TableName: "t"},
		SetFields: []FieldMetadata{{Name: "name", Type: types.KindVarchar}},
		KeyFields: []FieldMetadata{{Name: "id", Type: types.KindLong}},
	}
	data := &UpdateData{Records: []UpdateRecord{
		{IsNull: []bool{false}, After: []Value{Str("bob")}, Key: []Value{Str("3")}},
	}}

	got, err := Transform(Statement{Kind: KindUpdate, UpdateHeader: header, UpdateData: data}, Native, false)
	if err != nil {
		t.Fatal(err)
	}
	want := "UPDATE `s`.`t` SET `name`='bob' WHERE `id`=3"
	if got[0] != want {
		t.Fatalf("got %q, want %q", got[0], want)
	}
}

func TestDeleteGroupedParenthesizesCompositeKey(t *testing.T) {
	header := DeleteHeader{
		Table: TableMetadata{SchemaName: "s", TableName: "t"},
		KeyFields: []FieldMetadata{
			{Name: "a", Type: types.KindLong},
			{Name: "b", Type: types.KindLong},
		},
	}
	data := DeleteData{Records: []DeleteRecord{
		{Key: []Value{Str("1"), Str("2")}},
		{Key: []Value{Str("3"), Str("4")}},
	}}

	got := EmitDeleteGrouped(header, data, Native)
	want := "DELETE FROM `s`.`t` WHERE (`a`=1 AND `b`=2) OR (`a`=3 AND `b`=4)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDeleteSingleKeyNotParenthesized(t *testing.T) {
	header := DeleteHeader{
		Table:     TableMetadata{SchemaName: "s", TableName: "t"},
		KeyFields: []FieldMetadata{{Name: "id", Type: types.KindLong}},
	}
	data := DeleteData{Records: []DeleteRecord{{Key: []Value{Str("1")}}, {Key: []Value{Str("2")}}}}

	got := EmitDeleteGrouped(header, data, Native)
	want := "DELETE FROM `s`.`t` WHERE `id`=1 OR `id`=2"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestIdentifierContainingQuoteCharIsDoubled(t *testing.T) {
	header := &InsertHeader{
		Table:  TableMetadata{SchemaName: "s", TableName: "t"},
		Fields: []FieldMetadata{{Name: "weird`name", Type: types.KindLong}},
	}
	data := &InsertData{Records: []InsertRecord{{IsNull: []bool{false}, Values: []Value{Str("1")}}}}

	got, err := Transform(Statement{Kind: KindInsert, InsertHeader: header, InsertData: data}, Native, false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got[0], "`weird``name`") {
		t.Fatalf("got %q", got[0])
	}
}

func TestBlobValueAppendsRawBytesWithEmbeddedNUL(t *testing.T) {
	header := &InsertHeader{
		Table:  TableMetadata{SchemaName: "s", TableName: "t"},
		Fields: []FieldMetadata{{Name: "b", Type: types.KindBlob}},
	}
	raw := []byte{'a', 0, 'b'}
	data := &InsertData{Records: []InsertRecord{{IsNull: []bool{false}, Values: []Value{BlobValue(raw)}}}}

	got, err := Transform(Statement{Kind: KindInsert, InsertHeader: header, InsertData: data}, Native, false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got[0], `'a\0b'`) {
		t.Fatalf("got %q", got[0])
	}
}

func TestEnumValueUnquoted(t *testing.T) {
	header := &InsertHeader{
		Table:  TableMetadata{SchemaName: "s", TableName: "t"},
		Fields: []FieldMetadata{{Name: "e", Type: types.KindEnum}},
	}
	data := &InsertData{Records: []InsertRecord{{IsNull: []bool{false}, Values: []Value{Str("red")}}}}

	got, err := Transform(Statement{Kind: KindInsert, InsertHeader: header, InsertData: data}, Native, false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got[0], "VALUES (red)") {
		t.Fatalf("got %q, want unquoted enum value", got[0])
	}
}

func TestDropTableIfExists(t *testing.T) {
	got, err := Transform(Statement{Kind: KindDropTable, DropTable: &DropTableStatement{
		Table:    TableMetadata{SchemaName: "s", TableName: "t"},
		IfExists: true,
	}}, Native, false)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != "DROP TABLE IF EXISTS `s`.`t`" {
		t.Fatalf("got %q", got[0])
	}
}

func TestCreateSchemaWithCollation(t *testing.T) {
	got, err := Transform(Statement{Kind: KindCreateSchema, CreateSchema: &CreateSchemaStatement{
		SchemaName: "s",
		Collation:  "utf8mb4_general_ci",
	}}, Native, false)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != "CREATE SCHEMA `s` COLLATE utf8mb4_general_ci" {
		t.Fatalf("got %q", got[0])
	}
}

func TestSetVariableQuotesStringValue(t *testing.T) {
	got, err := Transform(Statement{Kind: KindSetVariable, SetVariable: &SetVariableStatement{
		Variable: FieldMetadata{Name: "sql_mode", Type: types.KindVarchar},
		Value:    Str("STRICT_ALL_TABLES"),
	}}, Native, false)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != "SET GLOBAL sql_mode='STRICT_ALL_TABLES'" {
		t.Fatalf("got %q", got[0])
	}
}

func TestRawSQLPassthrough(t *testing.T) {
	got, err := Transform(Statement{Kind: KindRawSQL, RawSQL: "SET autocommit=1"}, Native, false)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != "SET autocommit=1" {
		t.Fatalf("got %q", got[0])
	}
}

func TestMissingHeaderError(t *testing.T) {
	_, err := Transform(Statement{Kind: KindInsert, InsertData: &InsertData{}}, Native, false)
	if err != ErrMissingHeader {
		t.Fatalf("got %v, want ErrMissingHeader", err)
	}
}

func TestMissingDataError(t *testing.T) {
	_, err := Transform(Statement{Kind: KindInsert, InsertHeader: &InsertHeader{}}, Native, false)
	if err != ErrMissingData {
		t.Fatalf("got %v, want ErrMissingData", err)
	}
}
