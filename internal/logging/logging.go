// Package logging builds the leveled console logger used across the app.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Prefix is printed before every log line.
const Prefix = "todo"

// New returns a logger writing to w. Debug enables debug-level output;
// otherwise only warnings and errors are shown. Each logger carries a
// fresh session id so lines from one run can be grouped.
func New(w io.Writer, debug bool) *log.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: debug,
		Prefix:          Prefix,
	})
	return logger.With("session", uuid.NewString()[:8])
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
