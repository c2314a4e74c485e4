package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Cyclone1070/precious/internal/command"
	"github.com/Cyclone1070/precious/internal/service/executor"
)

// Raw is what an invocation produced before classification.
type Raw struct {
	ExitCode int
	Signaled bool
	State    string
	Stderr   string
	// Err is set when the executable could not be found or started.
	Err error
}

// Classify applies the ordered classification rules to one invocation:
// spawn problems, then unexpected stderr, then ok exit codes, then lint
// failure exit codes (lint runs only), then anything else.
func Classify(cmd *command.Command, action command.Action, raw Raw) Classification {
	if raw.Err != nil {
		if errors.Is(raw.Err, executor.ErrNotFound) {
			return Classification{Outcome: OutcomeExecutionError, Detail: "not found: " + raw.Err.Error()}
		}
		return Classification{Outcome: OutcomeExecutionError, Detail: "spawn failed: " + raw.Err.Error()}
	}

	if unexpectedStderr(cmd, raw.Stderr) {
		return Classification{Outcome: OutcomeExecutionError, Detail: "unexpected stderr"}
	}

	if !raw.Signaled && cmd.IsOkExitCode(raw.ExitCode) {
		return Classification{Outcome: OutcomeSuccess}
	}

	if action == command.ActionLint && cmd.Kind().Supports(command.ActionLint) &&
		!raw.Signaled && cmd.IsLintFailureExitCode(raw.ExitCode) {
		return Classification{Outcome: OutcomeLintFailure, Detail: fmt.Sprintf("exit code %d", raw.ExitCode)}
	}

	if raw.Signaled {
		return Classification{Outcome: OutcomeExecutionError, Detail: "killed by signal (" + raw.State + ")"}
	}
	return Classification{Outcome: OutcomeExecutionError, Detail: fmt.Sprintf("unexpected exit code %d", raw.ExitCode)}
}

// unexpectedStderr treats stderr as one blob: it is acceptable when blank,
// or when some ignore-stderr pattern matches the blob or one of its lines.
func unexpectedStderr(cmd *command.Command, stderr string) bool {
	if strings.TrimSpace(stderr) == "" {
		return false
	}
	lines := strings.Split(stderr, "\n")
	for _, re := range cmd.IgnoreStderr() {
		if re.MatchString(stderr) {
			return false
		}
		for _, line := range lines {
			if strings.TrimSpace(line) != "" && re.MatchString(line) {
				return false
			}
		}
	}
	return true
}
