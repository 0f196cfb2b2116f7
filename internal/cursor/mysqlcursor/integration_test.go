//go:build integration

package mysqlcursor

import (
	"context"
	"encoding/binary"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"

	"rowengine/internal/cursor"
)

// rowCodec packs (id INT, name VARCHAR(32)) as a 4-byte big-endian id
// followed by the raw name bytes, the simplest codec that exercises the
// adapter's Encode/Decode contract end to end.
type rowCodec struct{}

func (rowCodec) Encode(row []byte) ([]any, error) {
	id := binary.BigEndian.Uint32(row[:4])
	return []any{int32(id), string(row[4:])}, nil
}

func (rowCodec) Decode(vals []any) ([]byte, error) {
	id := vals[0].(int32)
	name := vals[1].(string)
	out := make([]byte, 4+len(name))
	binary.BigEndian.PutUint32(out, uint32(id))
	copy(out[4:], name)
	return out, nil
}

func setupContainer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	c, err := mysql.Run(ctx, "mysql:8.0",
		mysql.WithDatabase("testdb"),
		mysql.WithUsername("root"),
		mysql.WithPassword("testpass"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(c)
	})
	dsn, err := c.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err)
	return dsn
}

func TestMySQLCursorWriteAndDuplicate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dsn := setupContainer(t)
	ctx := context.Background()

	spec := Spec{Table: "people", Columns: []string{"id", "name"}, PrimaryKey: []string{"id"}}
	cur, err := Open(ctx, dsn, spec, rowCodec{})
	require.NoError(t, err)
	defer cur.Close()

	_, err = cur.db.ExecContext(ctx, "CREATE TABLE people (id INT PRIMARY KEY, name VARCHAR(32))")
	require.NoError(t, err)

	row := make([]byte, 4+len("alice"))
	binary.BigEndian.PutUint32(row, 1)
	copy(row[4:], "alice")

	outcome, dup, err := cur.WriteRow(ctx, row)
	require.NoError(t, err)
	require.Equal(t, cursor.WriteOK, outcome)
	require.Nil(t, dup)

	outcome, dup, err = cur.WriteRow(ctx, row)
	require.NoError(t, err)
	require.Equal(t, cursor.WriteDuplicateKey, outcome)
	require.NotNil(t, dup)
}
