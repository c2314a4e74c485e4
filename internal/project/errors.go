package project

import (
	"errors"
	"fmt"
)

// RootError is returned when the project root is unusable.
type RootError struct {
	Root  string
	Cause error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("invalid project root %s: %v", e.Root, e.Cause)
}
func (e *RootError) Unwrap() error { return e.Cause }

// OutsideRootError is returned for paths that resolve outside the project root.
type OutsideRootError struct {
	Path string
	Root string
}

func (e *OutsideRootError) Error() string {
	return fmt.Sprintf("%s is not inside the project root %s", e.Path, e.Root)
}

func (e *OutsideRootError) Is(target error) bool { return target == ErrOutsideRoot }

var (
	ErrOutsideRoot   = errors.New("path is outside the project root")
	ErrNotADirectory = errors.New("not a directory")
)
