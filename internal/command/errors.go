package command

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyName is returned when a command has no name.
	ErrEmptyName = errors.New("command name is required")

	// ErrEmptyCmd is returned when a command has no executable.
	ErrEmptyCmd = errors.New("cmd must contain at least one element")
)

// ValidationError is returned when a command's invocation policy combines
// settings that cannot be planned.
type ValidationError struct {
	Command string
	Policy  Policy
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("invalid invocation policy: %s", e.Reason)
	}
	return fmt.Sprintf("invalid invocation policy for command %q: %s", e.Command, e.Reason)
}

// InvalidInput marks the error as a user configuration problem.
func (e *ValidationError) InvalidInput() bool { return true }

// ConfigError wraps any problem found while building one command from its
// configuration. Other commands are unaffected by it.
type ConfigError struct {
	Command string
	Cause   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error in [commands.%s]: %v", e.Command, e.Cause)
}
func (e *ConfigError) Unwrap() error { return e.Cause }

// InvalidInput marks the error as a user configuration problem.
func (e *ConfigError) InvalidInput() bool { return true }

// PatternError is returned when an ignore-stderr regex does not compile.
type PatternError struct {
	Pattern string
	Cause   error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid ignore-stderr pattern %q: %v", e.Pattern, e.Cause)
}
func (e *PatternError) Unwrap() error { return e.Cause }
