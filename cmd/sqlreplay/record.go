package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"rowengine/internal/transform"
	"rowengine/internal/types"
)

func hexDecode(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("sqlreplay: decoding blob_hex: %w", err)
	}
	return b, nil
}

// jsonRecord is the on-disk JSON shape sqlreplay reads: a convenience
// encoding of internal/transform.Statement for this CLI, standing in
// for the wire protocol's protobuf-shaped Statement message (§6) that a
// real replication/audit pipeline would decode instead.
type jsonRecord struct {
	Type string `json:"type"`

	Insert *jsonInsert `json:"insert,omitempty"`
	Update *jsonUpdate `json:"update,omitempty"`
	Delete *jsonDelete `json:"delete,omitempty"`

	CreateTable   *jsonCreateTable  `json:"create_table,omitempty"`
	DropTable     *jsonDropTable    `json:"drop_table,omitempty"`
	TruncateTable *jsonTableRef     `json:"truncate_table,omitempty"`
	CreateSchema  *jsonCreateSchema `json:"create_schema,omitempty"`
	DropSchema    *jsonDropSchema   `json:"drop_schema,omitempty"`
	SetVariable   *jsonSetVariable  `json:"set_variable,omitempty"`
	RawSQL        string            `json:"raw_sql,omitempty"`
}

type jsonTableRef struct {
	Schema string `json:"schema"`
	Table  string `json:"table"`
}

type jsonFieldMeta struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type jsonValue struct {
	Null    bool   `json:"null,omitempty"`
	Text    string `json:"text,omitempty"`
	BlobHex string `json:"blob_hex,omitempty"`
}

type jsonInsertRecord struct {
	Values []jsonValue `json:"values"`
}

type jsonInsert struct {
	Table     jsonTableRef       `json:"table"`
	Fields    []jsonFieldMeta    `json:"fields"`
	Records   []jsonInsertRecord `json:"records"`
	SegmentID int                `json:"segment_id"`
}

type jsonUpdateRecord struct {
	After []jsonValue `json:"after"`
	Key   []jsonValue `json:"key"`
}

type jsonUpdate struct {
	Table     jsonTableRef       `json:"table"`
	SetFields []jsonFieldMeta    `json:"set_fields"`
	KeyFields []jsonFieldMeta    `json:"key_fields"`
	Records   []jsonUpdateRecord `json:"records"`
	SegmentID int                `json:"segment_id"`
}

type jsonDeleteRecord struct {
	Key []jsonValue `json:"key"`
}

type jsonDelete struct {
	Table     jsonTableRef       `json:"table"`
	KeyFields []jsonFieldMeta    `json:"key_fields"`
	Records   []jsonDeleteRecord `json:"records"`
	SegmentID int                `json:"segment_id"`
	// Grouped, when true, emits one DELETE ... WHERE (...) OR (...)
	// statement instead of replaying each record as its own DELETE
	// (§4.7's multi-record grouping form).
	Grouped bool `json:"grouped"`
}

type jsonCreateTable struct {
	Table       jsonTableRef `json:"table"`
	ColumnLines []string     `json:"column_lines"`
	Temporary   bool         `json:"temporary"`
}

type jsonDropTable struct {
	Table    jsonTableRef `json:"table"`
	IfExists bool         `json:"if_exists"`
}

type jsonCreateSchema struct {
	Schema    string `json:"schema"`
	Collation string `json:"collation"`
}

type jsonDropSchema struct {
	Schema string `json:"schema"`
}

type jsonSetVariable struct {
	Variable jsonFieldMeta `json:"variable"`
	Value    jsonValue     `json:"value"`
}

var fieldKindByName = map[string]types.FieldKind{
	"TINY": types.KindTiny, "LONG": types.KindLong, "LONGLONG": types.KindLongLong,
	"DOUBLE": types.KindDouble, "DECIMAL": types.KindDecimal,
	"DATE": types.KindDate, "DATETIME": types.KindDateTime, "TIMESTAMP": types.KindTimestamp,
	"VARCHAR": types.KindVarchar, "BLOB": types.KindBlob, "ENUM": types.KindEnum, "NULL": types.KindNull,
}

func parseFieldKind(s string) (types.FieldKind, error) {
	k, ok := fieldKindByName[s]
	if !ok {
		return 0, fmt.Errorf("sqlreplay: unknown field type %q", s)
	}
	return k, nil
}

func toFieldMeta(f jsonFieldMeta) (transform.FieldMetadata, error) {
	k, err := parseFieldKind(f.Type)
	if err != nil {
		return transform.FieldMetadata{}, err
	}
	return transform.FieldMetadata{Name: f.Name, Type: k}, nil
}

func toFieldMetas(fs []jsonFieldMeta) ([]transform.FieldMetadata, error) {
	out := make([]transform.FieldMetadata, len(fs))
	for i, f := range fs {
		fm, err := toFieldMeta(f)
		if err != nil {
			return nil, err
		}
		out[i] = fm
	}
	return out, nil
}

func toValue(v jsonValue) (transform.Value, bool, error) {
	if v.Null {
		return transform.Value{}, true, nil
	}
	if v.BlobHex != "" {
		raw, err := hexDecode(v.BlobHex)
		if err != nil {
			return transform.Value{}, false, err
		}
		return transform.BlobValue(raw), false, nil
	}
	return transform.Str(v.Text), false, nil
}

func toValues(vs []jsonValue) (values []transform.Value, isNull []bool, err error) {
	values = make([]transform.Value, len(vs))
	isNull = make([]bool, len(vs))
	for i, v := range vs {
		values[i], isNull[i], err = toValue(v)
		if err != nil {
			return nil, nil, err
		}
	}
	return values, isNull, nil
}

func toTableMeta(t jsonTableRef) transform.TableMetadata {
	return transform.TableMetadata{SchemaName: t.Schema, TableName: t.Table}
}

// toStatement converts the JSON DTO into internal/transform's native
// Statement shape.
func (r jsonRecord) toStatement() (transform.Statement, bool /*grouped delete*/, error) {
	switch r.Type {
	case "insert":
		if r.Insert == nil {
			return transform.Statement{}, false, fmt.Errorf("sqlreplay: insert record missing \"insert\" body")
		}
		fields, err := toFieldMetas(r.Insert.Fields)
		if err != nil {
			return transform.Statement{}, false, err
		}
		header := &transform.InsertHeader{Table: toTableMeta(r.Insert.Table), Fields: fields}
		recs := make([]transform.InsertRecord, len(r.Insert.Records))
		for i, jr := range r.Insert.Records {
			values, isNull, err := toValues(jr.Values)
			if err != nil {
				return transform.Statement{}, false, err
			}
			recs[i] = transform.InsertRecord{IsNull: isNull, Values: values}
		}
		data := &transform.InsertData{Records: recs, SegmentID: r.Insert.SegmentID}
		return transform.Statement{Kind: transform.KindInsert, InsertHeader: header, InsertData: data}, false, nil

	case "update":
		if r.Update == nil {
			return transform.Statement{}, false, fmt.Errorf("sqlreplay: update record missing \"update\" body")
		}
		setFields, err := toFieldMetas(r.Update.SetFields)
		if err != nil {
			return transform.Statement{}, false, err
		}
		keyFields, err := toFieldMetas(r.Update.KeyFields)
		if err != nil {
			return transform.Statement{}, false, err
		}
		header := &transform.UpdateHeader{Table: toTableMeta(r.Update.Table), SetFields: setFields, KeyFields: keyFields}
		recs := make([]transform.UpdateRecord, len(r.Update.Records))
		for i, jr := range r.Update.Records {
			after, isNull, err := toValues(jr.After)
			if err != nil {
				return transform.Statement{}, false, err
			}
			key, _, err := toValues(jr.Key)
			if err != nil {
				return transform.Statement{}, false, err
			}
			recs[i] = transform.UpdateRecord{IsNull: isNull, After: after, Key: key}
		}
		data := &transform.UpdateData{Records: recs, SegmentID: r.Update.SegmentID}
		return transform.Statement{Kind: transform.KindUpdate, UpdateHeader: header, UpdateData: data}, false, nil

	case "delete":
		if r.Delete == nil {
			return transform.Statement{}, false, fmt.Errorf("sqlreplay: delete record missing \"delete\" body")
		}
		keyFields, err := toFieldMetas(r.Delete.KeyFields)
		if err != nil {
			return transform.Statement{}, false, err
		}
		header := &transform.DeleteHeader{Table: toTableMeta(r.Delete.Table), KeyFields: keyFields}
		recs := make([]transform.DeleteRecord, len(r.Delete.Records))
		for i, jr := range r.Delete.Records {
			key, _, err := toValues(jr.Key)
			if err != nil {
				return transform.Statement{}, false, err
			}
			recs[i] = transform.DeleteRecord{Key: key}
		}
		data := &transform.DeleteData{Records: recs, SegmentID: r.Delete.SegmentID}
		return transform.Statement{Kind: transform.KindDelete, DeleteHeader: header, DeleteData: data}, r.Delete.Grouped, nil

	case "create_table":
		if r.CreateTable == nil {
			return transform.Statement{}, false, fmt.Errorf("sqlreplay: missing \"create_table\" body")
		}
		return transform.Statement{Kind: transform.KindCreateTable, CreateTable: &transform.CreateTableStatement{
			Table:       toTableMeta(r.CreateTable.Table),
			ColumnLines: r.CreateTable.ColumnLines,
			Temporary:   r.CreateTable.Temporary,
		}}, false, nil

	case "drop_table":
		if r.DropTable == nil {
			return transform.Statement{}, false, fmt.Errorf("sqlreplay: missing \"drop_table\" body")
		}
		return transform.Statement{Kind: transform.KindDropTable, DropTable: &transform.DropTableStatement{
			Table:    toTableMeta(r.DropTable.Table),
			IfExists: r.DropTable.IfExists,
		}}, false, nil

	case "truncate_table":
		if r.TruncateTable == nil {
			return transform.Statement{}, false, fmt.Errorf("sqlreplay: missing \"truncate_table\" body")
		}
		return transform.Statement{Kind: transform.KindTruncateTable, TruncateTable: &transform.TruncateTableStatement{
			Table: toTableMeta(*r.TruncateTable),
		}}, false, nil

	case "create_schema":
		if r.CreateSchema == nil {
			return transform.Statement{}, false, fmt.Errorf("sqlreplay: missing \"create_schema\" body")
		}
		return transform.Statement{Kind: transform.KindCreateSchema, CreateSchema: &transform.CreateSchemaStatement{
			SchemaName: r.CreateSchema.Schema,
			Collation:  r.CreateSchema.Collation,
		}}, false, nil

	case "drop_schema":
		if r.DropSchema == nil {
			return transform.Statement{}, false, fmt.Errorf("sqlreplay: missing \"drop_schema\" body")
		}
		return transform.Statement{Kind: transform.KindDropSchema, DropSchema: &transform.DropSchemaStatement{
			SchemaName: r.DropSchema.Schema,
		}}, false, nil

	case "set_variable":
		if r.SetVariable == nil {
			return transform.Statement{}, false, fmt.Errorf("sqlreplay: missing \"set_variable\" body")
		}
		fm, err := toFieldMeta(r.SetVariable.Variable)
		if err != nil {
			return transform.Statement{}, false, err
		}
		v, _, err := toValue(r.SetVariable.Value)
		if err != nil {
			return transform.Statement{}, false, err
		}
		return transform.Statement{Kind: transform.KindSetVariable, SetVariable: &transform.SetVariableStatement{
			Variable: fm, Value: v,
		}}, false, nil

	case "raw_sql":
		return transform.Statement{Kind: transform.KindRawSQL, RawSQL: r.RawSQL}, false, nil

	default:
		return transform.Statement{}, false, fmt.Errorf("sqlreplay: unknown record type %q", r.Type)
	}
}

func parseRecord(data []byte) (jsonRecord, error) {
	var r jsonRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return jsonRecord{}, fmt.Errorf("sqlreplay: parsing record: %w", err)
	}
	return r, nil
}
