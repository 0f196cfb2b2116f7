// Package sessioncfg loads session defaults (the §4.8 options bitset,
// the truncation-count mode, decimal rounding mode, and the emitted-SQL
// quote style) from a TOML file, the same BurntSushi/toml
// unmarshal-into-struct idiom internal/parser/toml uses for schema
// documents.
package sessioncfg

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"rowengine/internal/decimal"
	"rowengine/internal/session"
)

// Config is the top-level TOML document: [session], [decimal], [sql].
type Config struct {
	Session tomlSession `toml:"session"`
	Decimal tomlDecimal `toml:"decimal"`
	SQL     tomlSQL     `toml:"sql"`
}

type tomlSession struct {
	FoundRows          bool   `toml:"found_rows"`
	NoAutoValueOnZero  bool   `toml:"no_auto_value_on_zero"`
	StrictTransTables  bool   `toml:"strict_trans_tables"`
	StrictAllTables    bool   `toml:"strict_all_tables"`
	NoZeroDate         bool   `toml:"no_zero_date"`
	InvalidDates       bool   `toml:"invalid_dates"`
	FuzzyDate          bool   `toml:"fuzzy_date"`
	CountCutedFields   string `toml:"count_cuted_fields"` // "ignore" | "warn" | "error_for_null"
}

type tomlDecimal struct {
	RoundMode string `toml:"round_mode"` // "half_up" | "truncate"
}

type tomlSQL struct {
	Dialect string `toml:"dialect"` // "native" | "ansi"
}

// Defaults returns the configuration this package falls back to when no
// file is supplied: strict_trans_tables on, warn-on-truncation, half-up
// rounding, native (back-tick) quoting — the conservative set spec.md's
// scenarios assume unless a test says otherwise.
func Defaults() Config {
	return Config{
		Session: tomlSession{
			StrictTransTables: true,
			CountCutedFields:  "warn",
		},
		Decimal: tomlDecimal{RoundMode: "half_up"},
		SQL:     tomlSQL{Dialect: "native"},
	}
}

// Load parses r as a TOML config document, starting from Defaults() so
// a partial file only overrides what it mentions.
func Load(r io.Reader) (Config, error) {
	cfg := Defaults()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("sessioncfg: decode error: %w", err)
	}
	return cfg, nil
}

// LoadFile opens path and parses it as a TOML config document.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("sessioncfg: open file %q: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Options projects the session-level bits into session.Options.
func (c Config) Options() session.Options {
	var o session.Options
	set := func(b bool, bit session.Options) {
		if b {
			o |= bit
		}
	}
	set(c.Session.FoundRows, session.OptFoundRows)
	set(c.Session.NoAutoValueOnZero, session.OptNoAutoValueOnZero)
	set(c.Session.StrictTransTables, session.OptStrictTransTables)
	set(c.Session.StrictAllTables, session.OptStrictAllTables)
	set(c.Session.NoZeroDate, session.OptNoZeroDate)
	set(c.Session.InvalidDates, session.OptInvalidDates)
	set(c.Session.FuzzyDate, session.OptFuzzyDate)
	return o
}

// CutMode projects the configured string onto session.CutMode, defaulting
// to CutWarn for an unrecognized or empty value.
func (c Config) CutMode() session.CutMode {
	switch c.Session.CountCutedFields {
	case "ignore":
		return session.CutIgnore
	case "error_for_null":
		return session.CutErrorForNull
	default:
		return session.CutWarn
	}
}

// RoundMode projects the configured decimal rounding mode, defaulting to
// HalfUp.
func (c Config) RoundMode() decimal.RoundMode {
	if c.Decimal.RoundMode == "truncate" {
		return decimal.Truncate
	}
	return decimal.HalfUp
}

// QuoteStyle is the emitted-SQL identifier-quoting dialect of §4.7.
type QuoteStyle uint8

const (
	QuoteNative QuoteStyle = iota // back-tick
	QuoteANSI                     // double-quote
)

// Dialect projects the configured SQL dialect, defaulting to QuoteNative.
func (c Config) Dialect() QuoteStyle {
	if c.SQL.Dialect == "ansi" {
		return QuoteANSI
	}
	return QuoteNative
}
