package finder

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFiles is returned by the git modes when git reports nothing.
	// It is not a failure.
	ErrNoFiles = errors.New("no files found")
	// ErrAllPathsExcluded is returned when the all and command line modes
	// found paths but every one of them was excluded.
	ErrAllPathsExcluded = errors.New("found some paths but they were all excluded")
	// ErrPathsWithWrongMode is returned when explicit paths are combined with
	// another mode.
	ErrPathsWithWrongMode = errors.New("you cannot pass an explicit list of files")
)

// NonExistentPathError is returned for a command line path that does not
// exist.
type NonExistentPathError struct {
	Path string
}

func (e *NonExistentPathError) Error() string {
	return fmt.Sprintf("path passed on the command line does not exist: %s", e.Path)
}

// ModeError ties a finder error to the mode that produced it.
type ModeError struct {
	Mode Mode
	Err  error
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("%v when looking for %s", e.Err, e.Mode)
}

func (e *ModeError) Unwrap() error { return e.Err }
