package engine

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"github.com/Cyclone1070/precious/internal/command"
	"github.com/Cyclone1070/precious/internal/planner"
	"github.com/Cyclone1070/precious/internal/project"
	"github.com/Cyclone1070/precious/internal/service/executor"
)

// DefaultStatusInterval is how often a still running invocation is logged.
const DefaultStatusInterval = 5 * time.Second

// Runner runs one subprocess. executor.OSCommandExecutor implements it.
type Runner interface {
	Run(ctx context.Context, command []string, dir string, env []string) (*executor.Result, error)
}

// Reporter is told about progress as a run proceeds. Calls for one command
// never overlap; InvocationFinished calls are serialized across the run.
type Reporter interface {
	CommandStarted(cmd *command.Command, strategy command.InvokeMode, invocations int)
	InvocationFinished(cr *CommandResult, res *InvocationResult)
	CommandFinished(cr *CommandResult)
}

type nopReporter struct{}

func (nopReporter) CommandStarted(*command.Command, command.InvokeMode, int) {}
func (nopReporter) InvocationFinished(*CommandResult, *InvocationResult)   {}
func (nopReporter) CommandFinished(*CommandResult)                         {}

// Entry is one selected command. Err is set when its configuration could
// not be turned into a Command; the rest of the run is unaffected.
type Entry struct {
	Name    string
	Command *command.Command
	Err     error
}

// Request describes a single lint or tidy run.
type Request struct {
	Action  command.Action
	Entries []Entry
	// Files are the candidate project-relative files.
	Files []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithStatusInterval overrides DefaultStatusInterval.
func WithStatusInterval(d time.Duration) Option {
	return func(e *Engine) { e.statusInterval = d }
}

// WithEnviron replaces the base environment invocations inherit.
func WithEnviron(environ func() []string) Option {
	return func(e *Engine) { e.environ = environ }
}

// Engine plans every selected command, runs the invocations on a bounded
// pool and aggregates their outcomes.
type Engine struct {
	runner         Runner
	reporter       Reporter
	logger         pterm.Logger
	pool           *Pool
	project        *project.Project
	environ        func() []string
	statusInterval time.Duration
}

// New creates an Engine. A nil reporter discards progress.
func New(runner Runner, reporter Reporter, logger *pterm.Logger, pool *Pool, proj *project.Project, opts ...Option) *Engine {
	if runner == nil {
		panic("runner is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	if pool == nil {
		panic("pool is required")
	}
	if proj == nil {
		panic("project is required")
	}
	if reporter == nil {
		reporter = nopReporter{}
	}

	e := &Engine{
		runner:         runner,
		reporter:       reporter,
		logger:         *logger,
		pool:           pool,
		project:        proj,
		environ:        os.Environ,
		statusInterval: DefaultStatusInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes req. Commands run one after another in the order given;
// invocations of one command run concurrently. The report is complete even
// when ctx is cancelled part way through.
func (e *Engine) Run(ctx context.Context, req Request) *Report {
	start := time.Now()
	agg := NewAggregator(req.Action, e.reporter.InvocationFinished)

	for _, entry := range req.Entries {
		name := entry.Name
		if entry.Command != nil {
			name = entry.Command.Name()
		}
		cr := agg.Begin(name, "commands."+name)

		if entry.Err != nil {
			e.logger.Debug("skipping command with invalid configuration", e.logger.Args("command", name, "error", entry.Err))
			agg.ConfigError(cr, entry.Err)
			e.reporter.CommandFinished(cr)
			continue
		}
		if ctx.Err() != nil {
			break
		}
		e.runCommand(ctx, agg, cr, entry.Command, req)
	}

	report := agg.Report()
	report.Duration = time.Since(start)
	return report
}

func (e *Engine) runCommand(ctx context.Context, agg *Aggregator, cr *CommandResult, cmd *command.Command, req Request) {
	start := time.Now()
	defer func() {
		cr.Duration = time.Since(start)
		e.reporter.CommandFinished(cr)
	}()

	files := e.dropMissing(cmd.Filter(e.project.Excluder()).Apply(req.Files))
	if len(files) == 0 {
		e.logger.Debug("no files matched", e.logger.Args("command", cmd.Name()))
		cr.NoFiles = true
		return
	}

	invs, strategy, err := planner.Plan(cmd, e.project.Root(), files, req.Action)
	if err != nil {
		agg.ConfigError(cr, err)
		return
	}
	cr.Strategy = strategy
	counts := planner.Count(planner.Matched(cmd.Policy().WorkingDir, files))
	e.logger.Debug("planned command", e.logger.Args(
		"command", cmd.Name(),
		"strategy", strategy.String(),
		"files", counts.Files,
		"dirs", counts.Dirs,
		"invocations", len(invs),
	))

	e.reporter.CommandStarted(cmd, strategy, len(invs))
	e.pool.Run(ctx, len(invs), func(ctx context.Context, i int) {
		res := e.invoke(ctx, cmd, req.Action, invs[i])
		res.Index = i
		agg.Record(cr, res)
	})
	agg.Finish(cr)
}

func (e *Engine) invoke(ctx context.Context, cmd *command.Command, action command.Action, inv *planner.Invocation) *InvocationResult {
	res := &InvocationResult{Invocation: inv}

	var snap *snapshot
	if action == command.ActionTidy && inv.Strategy != command.InvokeOnce {
		s, err := takeSnapshot(e.project.Root(), inv.Files)
		if err != nil {
			e.logger.Debug("could not snapshot files before tidying", e.logger.Args("command", cmd.Name(), "error", err))
		} else {
			snap = s
		}
	}

	e.logger.Debug("running", e.logger.Args("command", inv.Loggable(), "dir", inv.Dir, "files", inv.FilesSummary()))
	stop := e.watch(inv)
	out, err := e.runner.Run(ctx, inv.Argv, inv.Dir, executor.Environ(e.environ(), inv.Env))
	stop()

	raw := Raw{Err: err}
	if out != nil {
		res.Stdout = out.Stdout
		res.Stderr = out.Stderr
		res.ExitCode = out.ExitCode
		res.Duration = out.Duration
		raw.ExitCode = out.ExitCode
		raw.Signaled = out.Signaled
		raw.State = out.State
		raw.Stderr = out.Stderr
		if err != nil && ctx.Err() != nil {
			// The process ran but was cancelled; report it as such.
			raw.Err = nil
			raw.Signaled = true
			if raw.State == "" {
				raw.State = ctx.Err().Error()
			}
		}
	}
	res.Err = err
	res.Classification = Classify(cmd, action, raw)

	if action == command.ActionTidy {
		res.Tidy = e.tidyOutcome(cmd, res, snap)
	}
	return res
}

func (e *Engine) tidyOutcome(cmd *command.Command, res *InvocationResult, snap *snapshot) TidyOutcome {
	if res.Outcome != OutcomeSuccess {
		return TidyNotApplicable
	}
	if snap == nil {
		return TidyUnknown
	}
	changed, err := snap.changed()
	if err != nil {
		e.logger.Debug("could not compare files after tidying", e.logger.Args("command", cmd.Name(), "error", err))
		return TidyUnknown
	}
	if changed {
		return TidyChanged
	}
	return TidyUnchanged
}

// watch logs at info level every status interval until the returned stop
// function is called.
func (e *Engine) watch(inv *planner.Invocation) func() {
	if e.statusInterval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	var once sync.Once
	go func() {
		ticker := time.NewTicker(e.statusInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				e.logger.Info("still running", e.logger.Args("command", inv.Loggable()))
			}
		}
	}()
	return func() { once.Do(func() { close(done) }) }
}

// dropMissing removes files that no longer exist, such as staged deletions.
func (e *Engine) dropMissing(files []string) []string {
	out := files[:0:0]
	for _, f := range files {
		_, err := os.Stat(filepath.Join(e.project.Root(), filepath.FromSlash(f)))
		if errors.Is(err, fs.ErrNotExist) {
			e.logger.Debug("file no longer exists, skipping", e.logger.Args("path", f))
			continue
		}
		out = append(out, f)
	}
	return out
}
