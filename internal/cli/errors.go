package cli

import "fmt"

// FatalExitCode is returned when precious itself fails: a bad config, bad
// flags, or an error while finding files.
const FatalExitCode = 42

// ExitError carries a non-zero exit status that is not a failure of
// precious itself.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
