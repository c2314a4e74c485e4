// Package presenter prints the progress and results of a run.
package presenter

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/pterm/pterm"

	"github.com/Cyclone1070/precious/internal/command"
	"github.com/Cyclone1070/precious/internal/engine"
)

// Options control what the presenter prints.
type Options struct {
	Action command.Action
	Chars  Chars
	Color  bool
	// Quiet suppresses everything except failures.
	Quiet bool
	// GitHubActions adds workflow annotations for lint failures.
	GitHubActions bool
}

// Presenter writes one line per finished invocation and a summary of the
// failures at the end. It is safe for concurrent use.
type Presenter struct {
	out    io.Writer
	logger pterm.Logger
	opts   Options
	styles styles

	mu       sync.Mutex
	commands map[string]*command.Command
}

var _ engine.Reporter = (*Presenter)(nil)

// New creates a Presenter writing to out.
func New(out io.Writer, logger *pterm.Logger, opts Options) *Presenter {
	if out == nil {
		panic("out is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Presenter{
		out:      out,
		logger:   *logger,
		opts:     opts,
		styles:   newStyles(out, opts.Color),
		commands: make(map[string]*command.Command),
	}
}

// Banner announces what is about to be linted or tidied.
func (p *Presenter) Banner(mode fmt.Stringer) {
	p.maybePrintf("%s %s %s", p.opts.Chars.Ring, p.opts.Action.Gerund(), mode)
}

// NoFiles reports that the run had nothing to do.
func (p *Presenter) NoFiles() {
	p.printf("%s No files found", p.opts.Chars.Empty)
}

func (p *Presenter) CommandStarted(cmd *command.Command, strategy command.InvokeMode, invocations int) {
	p.mu.Lock()
	p.commands[cmd.Name()] = cmd
	p.mu.Unlock()

	p.logger.Debug("running command", p.logger.Args(
		"name", cmd.Name(),
		"strategy", strategy.String(),
		"invocations", invocations,
	))
}

func (p *Presenter) InvocationFinished(cr *engine.CommandResult, res *engine.InvocationResult) {
	if res.Invocation != nil {
		p.logger.Info("invocation finished", p.logger.Args(
			"command", res.Invocation.Loggable(),
			"elapsed", formatDuration(res.Duration),
		))
	}

	c := p.opts.Chars
	name := p.styles.name.Render(cr.Name)
	summary := p.styles.dim.Render(p.summaryFor(cr, res))

	if res.Outcome == engine.OutcomeSuccess {
		if p.opts.Action == command.ActionLint {
			p.maybePrintf("%s %s %s: %s", c.LintClean, p.styles.passed.Render("Passed"), name, summary)
			return
		}
		switch res.Tidy {
		case engine.TidyChanged:
			p.maybePrintf("%s %s %s:    %s", c.Tidied, p.styles.tidied.Render("Tidied by"), name, summary)
		case engine.TidyUnchanged:
			p.maybePrintf("%s Unchanged by %s: %s", c.Unchanged, name, summary)
		default:
			p.maybePrintf("%s Maybe changed by %s: %s", c.MaybeChanged, name, summary)
		}
		return
	}

	if res.Outcome == engine.OutcomeLintFailure && p.opts.Action == command.ActionLint {
		header := fmt.Sprintf("%s %s %s: %s", c.LintDirty, p.styles.failed.Render("Failed"), name, summary)
		p.failure(header, cr, res, p.opts.GitHubActions)
		return
	}

	word := "error"
	if p.opts.Action == command.ActionTidy {
		word = "Error from"
	}
	header := fmt.Sprintf("%s %s %s: %s", c.ExecutionError, p.styles.failed.Render(word), name, summary)
	p.failure(header, cr, res, false)
}

// failure prints header followed by the invocation's full output.
func (p *Presenter) failure(header string, cr *engine.CommandResult, res *engine.InvocationResult, annotate bool) {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for _, s := range []string{res.Stdout, res.Stderr} {
		if s == "" {
			continue
		}
		b.WriteString(strings.TrimRight(s, "\n"))
		b.WriteString("\n")
	}
	if annotate {
		var files []string
		if res.Invocation != nil {
			files = res.Invocation.Files
		}
		if len(files) == 1 {
			fmt.Fprintf(&b, "::error file=%s::Linting with %s failed\n", files[0], cr.Name)
		} else {
			fmt.Fprintf(&b, "::error::Linting with %s failed\n", cr.Name)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.out, b.String())
}

func (p *Presenter) CommandFinished(cr *engine.CommandResult) {
	switch {
	case cr.ConfigErr != nil:
		p.printf("%s %s %s: %v", p.opts.Chars.ExecutionError, p.styles.failed.Render("error"),
			p.styles.name.Render(cr.Name), cr.ConfigErr)
		return
	case cr.NoFiles:
		p.logger.Debug("no files matched the command's filter", p.logger.Args("name", cr.Name))
		return
	}

	n := len(cr.Invocations)
	if n == 0 {
		return
	}
	plural := ""
	if n > 1 {
		plural = "s"
	}
	p.logger.Info(fmt.Sprintf("%s with %s on %d path%s, elapsed time = %s",
		p.opts.Action.Gerund(), cr.Name, n, plural, formatDuration(cr.Duration)))
}

// Summary prints every failure of the run. Nothing is printed for a
// successful run.
func (p *Presenter) Summary(report *engine.Report) {
	failures := report.Failures()
	if len(failures) == 0 {
		return
	}

	word := "Error"
	if len(failures) > 1 {
		word = "Errors"
	}
	var b strings.Builder
	b.WriteString(p.styles.heading.Render(fmt.Sprintf("%s when %s files:",
		word, strings.ToLower(report.Action.Gerund()))))
	b.WriteString("\n")
	for _, f := range failures {
		fmt.Fprintf(&b, "  %s [%s] failed for [%s]\n    %s\n",
			p.opts.Chars.Bullet, f.ConfigKey, strings.Join(f.Files, " "), f.Detail)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.out, b.String())
}

func (p *Presenter) summaryFor(cr *engine.CommandResult, res *engine.InvocationResult) string {
	if res.Invocation == nil {
		return ""
	}
	p.mu.Lock()
	cmd := p.commands[cr.Name]
	p.mu.Unlock()

	var include []string
	if cmd != nil {
		include = cmd.Include()
	}
	return pathsSummary(include, res.Invocation.Strategy, res.Invocation.Files)
}

// pathsSummary lists up to three files in full. Longer lists are cut to
// the first two files for invocations that cover whole directories or the
// whole project.
func pathsSummary(include []string, strategy command.InvokeMode, files []string) string {
	sorted := slices.Clone(files)
	slices.Sort(sorted)
	all := strings.Join(sorted, " ")
	if len(sorted) <= 3 {
		return all
	}
	if strategy == command.InvokePerFile {
		return fmt.Sprintf("%d files: %s", len(sorted), all)
	}
	return fmt.Sprintf("%d files matching %s, starting with %s",
		len(sorted), strings.Join(include, " "), strings.Join(sorted[:2], " "))
}

func (p *Presenter) maybePrintf(format string, args ...any) {
	if p.opts.Quiet {
		return
	}
	p.printf(format, args...)
}

func (p *Presenter) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}
