package engine

import (
	"sort"
	"sync"

	"github.com/Cyclone1070/precious/internal/command"
)

// Aggregator folds invocation results into per-command and run-wide
// outcomes. Record is its only mutating entry point for invocation results
// and is safe to call from many goroutines.
type Aggregator struct {
	mu       sync.Mutex
	action   command.Action
	outcome  Outcome
	commands []*CommandResult
	observer func(*CommandResult, *InvocationResult)
}

// NewAggregator creates an aggregator for a run of action. observer, if not
// nil, is called once per recorded invocation while the aggregator's lock
// is held, so output from different invocations never interleaves.
func NewAggregator(action command.Action, observer func(*CommandResult, *InvocationResult)) *Aggregator {
	return &Aggregator{action: action, observer: observer}
}

// Begin registers the next command in declaration order.
func (a *Aggregator) Begin(name, configKey string) *CommandResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	cr := &CommandResult{Name: name, ConfigKey: configKey}
	a.commands = append(a.commands, cr)
	return cr
}

// Record adds one invocation result to cr.
func (a *Aggregator) Record(cr *CommandResult, res *InvocationResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	cr.Invocations = append(cr.Invocations, res)
	cr.Outcome = Worst(cr.Outcome, res.Outcome)
	a.outcome = Worst(a.outcome, res.Outcome)
	if a.observer != nil {
		a.observer(cr, res)
	}
}

// ConfigError marks cr as not runnable.
func (a *Aggregator) ConfigError(cr *CommandResult, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	cr.ConfigErr = err
	cr.Outcome = OutcomeExecutionError
	a.outcome = OutcomeExecutionError
}

// Finish sorts cr's invocations back into plan order.
func (a *Aggregator) Finish(cr *CommandResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sort.Slice(cr.Invocations, func(i, j int) bool {
		return cr.Invocations[i].Index < cr.Invocations[j].Index
	})
}

// Outcome is the worst outcome recorded so far.
func (a *Aggregator) Outcome() Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.outcome
}

// Report snapshots the aggregated results.
func (a *Aggregator) Report() *Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	cmds := make([]*CommandResult, len(a.commands))
	copy(cmds, a.commands)
	return &Report{Action: a.action, Outcome: a.outcome, Commands: cmds}
}
