// Package main implements sqlreplay, a CLI that reads a structured DML/DDL
// record from disk and prints the SQL statements internal/transform would
// send to replay it against a live server — the command-line harness for
// exercising §4.7's transformer outside the server process.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rowengine/internal/transform"
)

type replayFlags struct {
	dialect              string
	alreadyInTransaction bool
	grouped              bool
}

func main() {
	flags := &replayFlags{}

	rootCmd := &cobra.Command{
		Use:   "sqlreplay <record.json>",
		Short: "Render a structured DML/DDL record as replayable SQL",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runReplay(args[0], flags)
		},
	}

	rootCmd.Flags().StringVar(&flags.dialect, "dialect", "native", "Identifier quoting dialect: native or ansi")
	rootCmd.Flags().BoolVar(&flags.alreadyInTransaction, "already-in-transaction", false,
		"Suppress START TRANSACTION/COMMIT bracketing for multi-row segments")
	rootCmd.Flags().BoolVar(&flags.grouped, "grouped", false,
		"For DELETE records, emit one OR-grouped statement instead of one DELETE per row")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseDialect(s string) (transform.Dialect, error) {
	switch s {
	case "native", "":
		return transform.Native, nil
	case "ansi":
		return transform.ANSI, nil
	default:
		return 0, fmt.Errorf("sqlreplay: unknown dialect %q (want native or ansi)", s)
	}
}

func runReplay(path string, flags *replayFlags) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("sqlreplay: reading %s: %w", path, err)
	}

	rec, err := parseRecord(data)
	if err != nil {
		return err
	}

	dialect, err := parseDialect(flags.dialect)
	if err != nil {
		return err
	}

	stmt, grouped, err := rec.toStatement()
	if err != nil {
		return err
	}

	if grouped || flags.grouped {
		if stmt.Kind != transform.KindDelete {
			return fmt.Errorf("sqlreplay: --grouped only applies to delete records")
		}
		if stmt.DeleteHeader == nil {
			return transform.ErrMissingHeader
		}
		if stmt.DeleteData == nil {
			return transform.ErrMissingData
		}
		fmt.Println(transform.EmitDeleteGrouped(*stmt.DeleteHeader, *stmt.DeleteData, dialect) + ";")
		return nil
	}

	out, err := transform.Transform(stmt, dialect, flags.alreadyInTransaction)
	for _, s := range out {
		fmt.Println(s + ";")
	}
	if err != nil {
		return fmt.Errorf("sqlreplay: transforming record: %w", err)
	}
	return nil
}
