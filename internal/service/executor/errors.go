package executor

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the executable of a command cannot be found.
var ErrNotFound = errors.New("executable not found")

// CommandError represents command execution failures (lookup, start, execution).
type CommandError struct {
	Cmd   string
	Cause error
	Stage string // "lookup", "start", "execution"
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed at %s: %v", e.Cmd, e.Stage, e.Cause)
}
func (e *CommandError) Unwrap() error { return e.Cause }

// NotFoundError reports an executable missing from PATH, with the PATH that
// was searched.
type NotFoundError struct {
	Exe  string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find %q in your path (PATH=%s)", e.Exe, e.Path)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
