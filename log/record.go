// MFP - Internet Printing Protocol client toolkit
// Logging facilities
//
// Copyright (C) 2024 and up by Alexander Pevzner (pzz@apevzner.com)
// See LICENSE for license terms and conditions
//
// Multi-line records and structured object dumps

package log

import (
	"fmt"
	"strings"

	"github.com/kr/pretty"
)

// Record accumulates a multi-line message, escalating its eventual
// severity to the highest level any line was logged at, then emits
// everything as a single event on Commit.
type Record struct {
	lg     Logger
	prefix string
	level  Level
	lines  []string
}

// Begin starts a new Record tagged with prefix.
func (lg Logger) Begin(prefix string) *Record {
	return &Record{lg: lg, prefix: prefix, level: LevelTrace}
}

func (r *Record) add(level Level, format string, v ...any) *Record {
	if level > r.level {
		r.level = level
	}
	r.lines = append(r.lines, fmt.Sprintf(format, v...))
	return r
}

// Trace appends a Trace-level line.
func (r *Record) Trace(format string, v ...any) *Record { return r.add(LevelTrace, format, v...) }

// Debug appends a Debug-level line.
func (r *Record) Debug(format string, v ...any) *Record { return r.add(LevelDebug, format, v...) }

// Info appends an Info-level line.
func (r *Record) Info(format string, v ...any) *Record { return r.add(LevelInfo, format, v...) }

// Warning appends a Warning-level line.
func (r *Record) Warning(format string, v ...any) *Record { return r.add(LevelWarning, format, v...) }

// Error appends an Error-level line.
func (r *Record) Error(format string, v ...any) *Record { return r.add(LevelError, format, v...) }

// Commit emits the accumulated lines as one event, at the highest
// severity any of them was logged at.
func (r *Record) Commit() {
	if len(r.lines) == 0 {
		return
	}
	r.lg.event(r.level, r.prefix, "%s", strings.Join(r.lines, "\n"))
}

// Marshaler is implemented by values that know how to render
// themselves for the log. Types with no MarshalLog method can still
// be dumped with Pretty, which falls back to kr/pretty.
type Marshaler interface {
	MarshalLog() string
}

// Pretty adapts any value into a Marshaler backed by kr/pretty,
// for use where a quick structured dump is wanted without writing a
// MarshalLog method.
type Pretty struct{ V any }

// MarshalLog renders p.V with kr/pretty.
func (p Pretty) MarshalLog() string { return pretty.Sprint(p.V) }

// Object writes obj's log rendering at the given indent.
func (lg Logger) Object(prefix string, level Level, indent int, obj Marshaler) {
	if obj == nil {
		return
	}

	pad := strings.Repeat(" ", indent)
	lines := strings.Split(obj.MarshalLog(), "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}

	lg.event(level, prefix, "%s", strings.Join(lines, "\n"))
}
