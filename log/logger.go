// MFP - Internet Printing Protocol client toolkit
// Logging facilities
//
// Copyright (C) 2024 and up by Alexander Pevzner (pzz@apevzner.com)
// See LICENSE for license terms and conditions
//
// Logger: a thin zerolog wrapper carried through context.Context

package log

import (
	"os"

	"github.com/rs/zerolog"
)

// Level is the severity of a log message. It is zerolog's own Level,
// re-exported so callers never need to import zerolog directly.
type Level = zerolog.Level

// Severity levels, in the order the Logger API below groups them.
const (
	LevelTrace   = zerolog.TraceLevel
	LevelDebug   = zerolog.DebugLevel
	LevelInfo    = zerolog.InfoLevel
	LevelWarning = zerolog.WarnLevel
	LevelError   = zerolog.ErrorLevel
)

// DefaultLogger is used whenever a Context carries no Logger of its
// own. It writes human-readable output to stderr.
var DefaultLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}).
	With().Timestamp().Logger()

// Logger formats and emits log messages tagged with a subsystem
// prefix. The zero value is not usable; obtain one through CtxLogger.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger wraps an existing zerolog.Logger.
func NewLogger(zl zerolog.Logger) Logger {
	return Logger{zl: zl}
}

func (lg Logger) event(level zerolog.Level, prefix, format string, v ...any) {
	ev := lg.zl.WithLevel(level)
	if prefix != "" {
		ev = ev.Str("component", prefix)
	}
	ev.Msgf(format, v...)
}

// Trace writes a Trace-level message.
func (lg Logger) Trace(prefix, format string, v ...any) {
	lg.event(LevelTrace, prefix, format, v...)
}

// Debug writes a Debug-level message.
func (lg Logger) Debug(prefix, format string, v ...any) {
	lg.event(LevelDebug, prefix, format, v...)
}

// Info writes an Info-level message.
func (lg Logger) Info(prefix, format string, v ...any) {
	lg.event(LevelInfo, prefix, format, v...)
}

// Warning writes a Warning-level message.
func (lg Logger) Warning(prefix, format string, v ...any) {
	lg.event(LevelWarning, prefix, format, v...)
}

// Error writes an Error-level message.
func (lg Logger) Error(prefix, format string, v ...any) {
	lg.event(LevelError, prefix, format, v...)
}

// Fatal writes an Error-level message, then terminates the process.
func (lg Logger) Fatal(prefix, format string, v ...any) {
	lg.event(LevelError, prefix, format, v...)
	os.Exit(1)
}
