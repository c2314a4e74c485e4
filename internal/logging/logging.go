// Package logging builds the leveled logger handed to every component.
package logging

import (
	"io"

	"github.com/pterm/pterm"

	"github.com/Cyclone1070/precious/internal/config"
)

// Level picks the log level for the run settings. Debug wins over Verbose,
// and Quiet only keeps errors.
func Level(s *config.Settings) pterm.LogLevel {
	switch {
	case s.Debug:
		return pterm.LogLevelDebug
	case s.Verbose:
		return pterm.LogLevelInfo
	case s.Quiet:
		return pterm.LogLevelError
	default:
		return pterm.LogLevelWarn
	}
}

// New returns a logger writing to w. Timestamps are only shown in debug
// mode.
func New(s *config.Settings, w io.Writer) *pterm.Logger {
	if w == nil {
		panic("writer is required")
	}
	level := Level(s)
	return pterm.DefaultLogger.
		WithWriter(w).
		WithLevel(level).
		WithTime(level == pterm.LogLevelDebug)
}

// Discard is a logger that drops everything. Used by tests and library
// callers that do not care about logs.
func Discard() *pterm.Logger {
	return pterm.DefaultLogger.WithWriter(io.Discard).WithLevel(pterm.LogLevelDisabled)
}
