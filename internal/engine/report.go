package engine

import (
	"time"

	"github.com/Cyclone1070/precious/internal/command"
	"github.com/Cyclone1070/precious/internal/planner"
)

// InvocationResult is the captured and classified outcome of one invocation.
type InvocationResult struct {
	// Index is the invocation's position in the command's plan.
	Index      int
	Invocation *planner.Invocation
	Stdout     string
	Stderr     string
	ExitCode   int
	Err        error
	Duration   time.Duration
	Classification
	Tidy TidyOutcome
}

// CommandResult holds everything one command produced during a run.
type CommandResult struct {
	Name      string
	ConfigKey string
	Strategy  command.InvokeMode
	Outcome   Outcome
	// ConfigErr is set when the command could not be built or planned. The
	// command did not run.
	ConfigErr error
	// NoFiles is set when no path matched the command's filter.
	NoFiles     bool
	Invocations []*InvocationResult
	Duration    time.Duration
}

// Failure is one reportable problem.
type Failure struct {
	ConfigKey string
	Files     []string
	Outcome   Outcome
	Detail    string
	Command   string
	Stdout    string
	Stderr    string
}

// Report is the outcome of a whole run.
type Report struct {
	Action   command.Action
	Outcome  Outcome
	Commands []*CommandResult
	Duration time.Duration
}

// Failures lists every lint failure, execution error and configuration
// error in command declaration order, then plan order.
func (r *Report) Failures() []Failure {
	var out []Failure
	for _, c := range r.Commands {
		if c.ConfigErr != nil {
			out = append(out, Failure{
				ConfigKey: c.ConfigKey,
				Outcome:   OutcomeExecutionError,
				Detail:    c.ConfigErr.Error(),
			})
			continue
		}
		for _, inv := range c.Invocations {
			if inv.Outcome == OutcomeSuccess {
				continue
			}
			f := Failure{
				ConfigKey: c.ConfigKey,
				Outcome:   inv.Outcome,
				Detail:    inv.Detail,
				Stdout:    inv.Stdout,
				Stderr:    inv.Stderr,
			}
			if inv.Invocation != nil {
				f.Files = inv.Invocation.Files
				f.Command = inv.Invocation.Loggable()
			}
			out = append(out, f)
		}
	}
	return out
}

// ExitCode is 0 when every command succeeded and 1 otherwise.
func (r *Report) ExitCode() int {
	if r.Outcome == OutcomeSuccess {
		return 0
	}
	return 1
}
