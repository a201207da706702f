// Package logging constructs the single process-wide structured logger
// shared by both binaries, using github.com/joeycumines/logiface bound to
// the github.com/joeycumines/stumpy JSON backend — the same facade/backend
// pairing a sql/export package elsewhere in this module family consumes as
// an application-level dependency (a *logiface.Logger[*stumpy.Event]
// field), rather than calling the backend directly.
package logging

import (
	"io"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Level mirrors the subset of logiface.Level this tool emits at.
type Level = logiface.Level

const (
	LevelError = logiface.LevelError
	LevelInfo  = logiface.LevelInformational
	LevelDebug = logiface.LevelDebug
)

// Logger is the concrete type both binaries log through.
type Logger = logiface.Logger[*stumpy.Event]

// New builds a logger writing newline-delimited JSON events to w, enabled
// at and above minLevel.
func New(w io.Writer, minLevel Level) *Logger {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(minLevel),
	)
}

// NewStderr builds the default logger used by both CLI entrypoints.
func NewStderr(debug bool) *Logger {
	level := LevelInfo
	if debug {
		level = LevelDebug
	}
	return New(os.Stderr, level)
}
