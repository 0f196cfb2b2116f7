// Package session models the embedding session contract described in
// spec.md §4.8: an options bitset, a truncation-counting mode, and a
// warning sink. internal/field and internal/writer consume only the Sink
// interface, so storage-engine or wire-protocol sessions (outside this
// core's scope) can supply their own implementation.
package session

import (
	"fmt"

	"go.uber.org/zap"
)

// Options is the session option bitset of §4.8.
type Options uint16

const (
	OptFoundRows Options = 1 << iota
	OptNoAutoValueOnZero
	OptStrictTransTables
	OptStrictAllTables
	OptNoZeroDate
	OptInvalidDates
	OptFuzzyDate
)

func (o Options) Has(bit Options) bool { return o&bit != 0 }

// Strict reports whether either strict-mode bit is set.
func (o Options) Strict() bool {
	return o.Has(OptStrictTransTables) || o.Has(OptStrictAllTables)
}

// CutMode is the count_cuted_fields mode of §4.8.
type CutMode uint8

const (
	CutIgnore CutMode = iota
	CutWarn
	CutErrorForNull
)

// WarningLevel mirrors the two-track Level/Message design this session
// borrows its shape from.
type WarningLevel string

const (
	LevelNote  WarningLevel = "NOTE"
	LevelWarn  WarningLevel = "WARNING"
	LevelError WarningLevel = "ERROR"
)

// Warning is one diagnostic accumulated by push_warning.
type Warning struct {
	Level WarningLevel
	Code  int
	Text  string
}

// Sink is the narrow contract internal/field and internal/writer depend
// on. A real client session embeds one; tests use Default.
type Sink interface {
	Options() Options
	CutMode() CutMode
	PushWarning(level WarningLevel, code int, text string)
	ReallyAbortOnWarning(level WarningLevel) bool
	BumpCutFields()
	CutFields() int
	RecordFirstSuccessfulInsertID(id int64)
	LastInsertID() int64
	SetModifiedNonTransTable()
}

// Default is the reference Sink implementation: an accumulating warning
// list plus zap-backed structured logging, grounded on
// internal/apply.PreflightResult's Warnings/Errors two-track design —
// generalized here from "migration preflight" to "per-statement
// diagnostics".
type Default struct {
	opts    Options
	cutMode CutMode

	warnings  []Warning
	cutFields int

	firstInsertID int64
	haveInsertID  bool

	modifiedNonTrans bool

	log *zap.Logger
}

// NewDefault builds a Default sink. A nil logger falls back to a no-op
// logger so callers that don't care about structured output don't need
// to construct one.
func NewDefault(opts Options, cutMode CutMode, log *zap.Logger) *Default {
	if log == nil {
		log = zap.NewNop()
	}
	return &Default{opts: opts, cutMode: cutMode, log: log}
}

func (s *Default) Options() Options { return s.opts }
func (s *Default) CutMode() CutMode { return s.cutMode }

func (s *Default) PushWarning(level WarningLevel, code int, text string) {
	s.warnings = append(s.warnings, Warning{Level: level, Code: code, Text: text})
	switch level {
	case LevelError:
		s.log.Error("session warning", zap.Int("code", code), zap.String("text", text))
	default:
		s.log.Warn("session warning", zap.String("level", string(level)), zap.Int("code", code), zap.String("text", text))
	}
}

// ReallyAbortOnWarning decides, from cutMode and strictness, whether a
// warning-level condition should actually abort the statement (§7: "in
// strict mode becomes error").
func (s *Default) ReallyAbortOnWarning(level WarningLevel) bool {
	if level == LevelError {
		return true
	}
	if s.cutMode == CutErrorForNull {
		return true
	}
	return s.opts.Strict()
}

func (s *Default) BumpCutFields() { s.cutFields++ }
func (s *Default) CutFields() int { return s.cutFields }

func (s *Default) RecordFirstSuccessfulInsertID(id int64) {
	if !s.haveInsertID {
		s.firstInsertID = id
		s.haveInsertID = true
	}
}

func (s *Default) LastInsertID() int64 { return s.firstInsertID }

func (s *Default) SetModifiedNonTransTable() { s.modifiedNonTrans = true }

func (s *Default) ModifiedNonTransTable() bool { return s.modifiedNonTrans }

// Warnings returns the accumulated diagnostics, drained to the client on
// request per §7's user-visible report.
func (s *Default) Warnings() []Warning { return s.warnings }

// Drain clears the warning accumulator and returns what was collected.
func (s *Default) Drain() []Warning {
	w := s.warnings
	s.warnings = nil
	return w
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] (%d) %s", w.Level, w.Code, w.Text)
}
