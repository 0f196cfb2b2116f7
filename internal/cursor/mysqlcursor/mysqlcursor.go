// Package mysqlcursor is a real-MySQL-backed implementation of
// internal/cursor.Cursor, grounded on internal/apply.Applier's
// sql.Open("mysql", dsn)/PingContext connect pattern. It is a thin test
// adapter — translating already-packed Field row bytes into ordinary
// database/sql driver values through a caller-supplied ColumnCodec — not
// a storage-engine implementation; real page/buffer-pool/redo-log
// concerns stay out of scope (spec.md §1's explicit non-goal).
package mysqlcursor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"rowengine/internal/cursor"
)

// ColumnCodec bridges a Field-packed row buffer and the ordered driver
// values database/sql sends over the wire.
type ColumnCodec interface {
	// Encode splits a packed row buffer into one value per column, in
	// Spec.Columns order.
	Encode(row []byte) ([]any, error)
	// Decode reassembles a packed row buffer from a database/sql Scan
	// destination slice, in Spec.Columns order.
	Decode(vals []any) ([]byte, error)
}

// Spec names the target table and its columns.
type Spec struct {
	Table      string
	Columns    []string
	PrimaryKey []string // subset of Columns, in key order
}

// Cursor is a single-table cursor over a real MySQL connection.
type Cursor struct {
	db    *sql.DB
	spec  Spec
	codec ColumnCodec

	tx *sql.Tx // set between BeginBulkInsert/EndBulkInsert
}

// Open connects to dsn and pings it (the same two-step
// sql.Open+PingContext Applier.Connect performs), returning a Cursor
// bound to spec.
func Open(ctx context.Context, dsn string, spec Spec, codec ColumnCodec) (*Cursor, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysqlcursor: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("mysqlcursor: ping: %w; additionally failed to close: %w", err, closeErr)
		}
		return nil, fmt.Errorf("mysqlcursor: ping: %w", err)
	}
	return &Cursor{db: db, spec: spec, codec: codec}, nil
}

// Close releases the underlying connection pool.
func (c *Cursor) Close() error { return c.db.Close() }

func (c *Cursor) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
} {
	if c.tx != nil {
		return c.tx
	}
	return c.db
}

func (c *Cursor) BeginBulkInsert(ctx context.Context, rowHint int) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("mysqlcursor: begin_bulk_insert: %w", err)
	}
	c.tx = tx
	return nil
}

func (c *Cursor) EndBulkInsert(ctx context.Context) error {
	if c.tx == nil {
		return nil
	}
	err := c.tx.Commit()
	c.tx = nil
	if err != nil {
		return fmt.Errorf("mysqlcursor: end_bulk_insert: %w", err)
	}
	return nil
}

func (c *Cursor) placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = "?"
	}
	return strings.Join(ph, ",")
}

func (c *Cursor) WriteRow(ctx context.Context, buf []byte) (cursor.WriteOutcome, *cursor.ErrDuplicateKey, error) {
	vals, err := c.codec.Encode(buf)
	if err != nil {
		return cursor.WriteFatal, nil, &cursor.ErrFatal{Err: err}
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		c.spec.Table, strings.Join(c.spec.Columns, ","), c.placeholders(len(vals)))
	_, err = c.execer().ExecContext(ctx, query, vals...)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 { // ER_DUP_ENTRY
			return cursor.WriteDuplicateKey, &cursor.ErrDuplicateKey{KeyIndex: 0}, nil
		}
		return cursor.WriteFatal, nil, &cursor.ErrFatal{Err: err}
	}
	return cursor.WriteOK, nil, nil
}

func (c *Cursor) whereByPrimaryKey(row []byte) (string, []any, error) {
	vals, err := c.codec.Encode(row)
	if err != nil {
		return "", nil, err
	}
	colIndex := make(map[string]int, len(c.spec.Columns))
	for i, col := range c.spec.Columns {
		colIndex[col] = i
	}
	conds := make([]string, 0, len(c.spec.PrimaryKey))
	args := make([]any, 0, len(c.spec.PrimaryKey))
	for _, pk := range c.spec.PrimaryKey {
		conds = append(conds, pk+" = ?")
		args = append(args, vals[colIndex[pk]])
	}
	return strings.Join(conds, " AND "), args, nil
}

func (c *Cursor) UpdateRow(ctx context.Context, oldBuf, newBuf []byte) (cursor.UpdateOutcome, error) {
	where, args, err := c.whereByPrimaryKey(oldBuf)
	if err != nil {
		return cursor.UpdateFatal, &cursor.ErrFatal{Err: err}
	}
	newVals, err := c.codec.Encode(newBuf)
	if err != nil {
		return cursor.UpdateFatal, &cursor.ErrFatal{Err: err}
	}
	sets := make([]string, len(c.spec.Columns))
	for i, col := range c.spec.Columns {
		sets[i] = col + " = ?"
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", c.spec.Table, strings.Join(sets, ","), where)
	res, err := c.execer().ExecContext(ctx, query, append(newVals, args...)...)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return cursor.UpdateFatal, &cursor.ErrDuplicateKey{KeyIndex: 0}
		}
		return cursor.UpdateFatal, &cursor.ErrFatal{Err: err}
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return cursor.UpdateRecordIsTheSame, nil
	}
	return cursor.UpdateOK, nil
}

func (c *Cursor) DeleteRow(ctx context.Context, buf []byte) error {
	where, args, err := c.whereByPrimaryKey(buf)
	if err != nil {
		return &cursor.ErrFatal{Err: err}
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", c.spec.Table, where)
	if _, err := c.execer().ExecContext(ctx, query, args...); err != nil {
		return &cursor.ErrFatal{Err: err}
	}
	return nil
}

// IndexReadIdx supports only a single-column primary key: composite-key
// lookups need a codec-specific key splitter this generic adapter does
// not have, and none of this core's tests exercise one.
func (c *Cursor) IndexReadIdx(ctx context.Context, keyNr int, key []byte, exact bool) (cursor.ReadOutcome, []byte, error) {
	if keyNr != 0 || len(c.spec.PrimaryKey) != 1 {
		return cursor.ReadFatal, nil, fmt.Errorf("mysqlcursor: only a single-column primary key index (0) is supported")
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(c.spec.Columns, ","), c.spec.Table, pkCondition(c.spec.PrimaryKey))
	scanArgs := make([]any, len(c.spec.Columns))
	scanPtrs := make([]any, len(c.spec.Columns))
	for i := range scanArgs {
		scanPtrs[i] = &scanArgs[i]
	}
	rows, err := c.execer().QueryContext(ctx, query, key)
	if err != nil {
		return cursor.ReadFatal, nil, &cursor.ErrFatal{Err: err}
	}
	defer rows.Close()
	if !rows.Next() {
		return cursor.ReadNotFound, nil, nil
	}
	if err := rows.Scan(scanPtrs...); err != nil {
		return cursor.ReadFatal, nil, &cursor.ErrFatal{Err: err}
	}
	out, err := c.codec.Decode(scanArgs)
	if err != nil {
		return cursor.ReadFatal, nil, &cursor.ErrFatal{Err: err}
	}
	return cursor.ReadOK, out, nil
}

// pkCondition builds a positional "col1 = ? AND col2 = ?" clause over the
// primary key columns.
func pkCondition(pk []string) string {
	conds := make([]string, len(pk))
	for i, col := range pk {
		conds[i] = col + " = ?"
	}
	return strings.Join(conds, " AND ")
}

func (c *Cursor) RndPos(ctx context.Context, rowRef []byte) ([]byte, error) {
	_, row, err := c.IndexReadIdx(ctx, 0, rowRef, true)
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (c *Cursor) Extra(hint cursor.ExtraHint) {}

func (c *Cursor) ReserveAutoIncrement(ctx context.Context) (int64, error) {
	var next sql.NullInt64
	row := c.db.QueryRowContext(ctx,
		"SELECT AUTO_INCREMENT FROM information_schema.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?",
		c.spec.Table)
	if err := row.Scan(&next); err != nil {
		return 0, fmt.Errorf("mysqlcursor: reserve_auto_increment: %w", err)
	}
	if !next.Valid {
		return 1, nil
	}
	return next.Int64, nil
}

func (c *Cursor) ReleaseAutoIncrement() {}

func (c *Cursor) HasTransactions() bool        { return true }
func (c *Cursor) ReferencedByForeignKey() bool { return false }

func (c *Cursor) TableFlags() cursor.TableFlag {
	return cursor.FlagDuplicatePos
}

var _ cursor.Cursor = (*Cursor)(nil)
