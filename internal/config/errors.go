package config

import (
	"errors"
	"fmt"
)

// ErrMixedPolicyKeys is returned for a command that sets both the legacy
// run-mode/chdir keys and the invoke/working-dir/path-args keys.
var ErrMixedPolicyKeys = errors.New("mixes old command params (run-mode or chdir) with new command params (invoke, working-dir, or path-args)")

// FileReadError is returned when the config file exists but cannot be read
// or parsed.
type FileReadError struct {
	Path  string
	Cause error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("file at %s cannot be read: %v", e.Path, e.Cause)
}

func (e *FileReadError) Unwrap() error { return e.Cause }

// NoConfigError is returned when no config file was given and no VCS checkout
// root contains the working directory.
type NoConfigError struct {
	Cwd string
}

func (e *NoConfigError) Error() string {
	return fmt.Sprintf("could not find a VCS checkout root starting from %s", e.Cwd)
}

// NoCommandsError is returned when selection leaves nothing to run.
type NoCommandsError struct {
	// What is the lowercase gerund of the action, e.g. "linting".
	What  string
	Name  string
	Label string
}

func (e *NoCommandsError) Error() string {
	switch {
	case e.Name != "":
		return fmt.Sprintf("no %s commands match the given command name, %s", e.What, e.Name)
	case e.Label != "":
		return fmt.Sprintf("no %s commands match the given label, %s", e.What, e.Label)
	default:
		return fmt.Sprintf("no %s commands defined in your config", e.What)
	}
}
