package presenter

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyclone1070/precious/internal/command"
	"github.com/Cyclone1070/precious/internal/engine"
	"github.com/Cyclone1070/precious/internal/planner"
)

func newCommand(t *testing.T) *command.Command {
	t.Helper()
	cmd, err := command.New(command.Params{
		Name:                 "tool",
		Kind:                 command.KindBoth,
		Include:              []string{"*.go"},
		Cmd:                  []string{"tool"},
		LintFlags:            []string{"--check"},
		OkExitCodes:          []int{0},
		LintFailureExitCodes: []int{1},
		Policy:               command.DefaultPolicy(),
	})
	require.NoError(t, err)
	return cmd
}

func newPresenter(t *testing.T, modify ...func(*Options)) (*Presenter, *bytes.Buffer) {
	t.Helper()
	opts := Options{Action: command.ActionLint, Chars: BoringChars}
	for _, m := range modify {
		m(&opts)
	}
	var buf bytes.Buffer
	logger := pterm.DefaultLogger.WithWriter(&bytes.Buffer{})
	p := New(&buf, logger, opts)
	p.CommandStarted(newCommand(t), command.InvokePerFile, 1)
	return p, &buf
}

func result(outcome engine.Outcome, files ...string) *engine.InvocationResult {
	return &engine.InvocationResult{
		Invocation: &planner.Invocation{
			Argv:     append([]string{"tool"}, files...),
			Files:    files,
			Strategy: command.InvokePerFile,
		},
		Classification: engine.Classification{Outcome: outcome},
	}
}

func TestInvocationFinishedLint(t *testing.T) {
	cr := &engine.CommandResult{Name: "tool", ConfigKey: "commands.tool"}

	t.Run("passed", func(t *testing.T) {
		p, buf := newPresenter(t)
		p.InvocationFinished(cr, result(engine.OutcomeSuccess, "a.go"))
		assert.Equal(t, "| Passed tool: a.go\n", buf.String())
	})

	t.Run("passed is quiet", func(t *testing.T) {
		p, buf := newPresenter(t, func(o *Options) { o.Quiet = true })
		p.InvocationFinished(cr, result(engine.OutcomeSuccess, "a.go"))
		assert.Empty(t, buf.String())
	})

	t.Run("failed shows output", func(t *testing.T) {
		p, buf := newPresenter(t, func(o *Options) { o.Quiet = true })
		res := result(engine.OutcomeLintFailure, "a.go")
		res.Stdout = "a.go:1: bad\n"
		res.Stderr = "1 problem\n"
		p.InvocationFinished(cr, res)
		assert.Equal(t, "* Failed tool: a.go\na.go:1: bad\n1 problem\n", buf.String())
	})

	t.Run("github annotation for one file", func(t *testing.T) {
		p, buf := newPresenter(t, func(o *Options) { o.GitHubActions = true })
		p.InvocationFinished(cr, result(engine.OutcomeLintFailure, "a.go"))
		assert.Equal(t, "* Failed tool: a.go\n::error file=a.go::Linting with tool failed\n", buf.String())
	})

	t.Run("github annotation for many files", func(t *testing.T) {
		p, buf := newPresenter(t, func(o *Options) { o.GitHubActions = true })
		p.InvocationFinished(cr, result(engine.OutcomeLintFailure, "a.go", "b.go"))
		assert.Contains(t, buf.String(), "::error::Linting with tool failed\n")
	})

	t.Run("execution error", func(t *testing.T) {
		p, buf := newPresenter(t, func(o *Options) { o.Quiet = true })
		res := result(engine.OutcomeExecutionError, "a.go")
		res.Stderr = "panic: boom"
		p.InvocationFinished(cr, res)
		assert.Equal(t, "! error tool: a.go\npanic: boom\n", buf.String())
	})
}

func TestInvocationFinishedTidy(t *testing.T) {
	cr := &engine.CommandResult{Name: "tool", ConfigKey: "commands.tool"}
	tidy := func(o *Options) { o.Action = command.ActionTidy }

	tests := []struct {
		name    string
		outcome engine.Outcome
		tidy    engine.TidyOutcome
		want    string
	}{
		{"changed", engine.OutcomeSuccess, engine.TidyChanged, "* Tidied by tool:    a.go\n"},
		{"unchanged", engine.OutcomeSuccess, engine.TidyUnchanged, "| Unchanged by tool: a.go\n"},
		{"unknown", engine.OutcomeSuccess, engine.TidyUnknown, "? Maybe changed by tool: a.go\n"},
		{"error", engine.OutcomeExecutionError, engine.TidyNotApplicable, "! Error from tool: a.go\n"},
		{"lint failure while tidying", engine.OutcomeLintFailure, engine.TidyNotApplicable, "! Error from tool: a.go\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, buf := newPresenter(t, tidy)
			res := result(tt.outcome, "a.go")
			res.Tidy = tt.tidy
			p.InvocationFinished(cr, res)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestCommandFinishedConfigError(t *testing.T) {
	p, buf := newPresenter(t)
	p.CommandFinished(&engine.CommandResult{Name: "broken", ConfigErr: errors.New("bad invoke")})
	assert.Equal(t, "! error broken: bad invoke\n", buf.String())
}

func TestBannerAndNoFiles(t *testing.T) {
	p, buf := newPresenter(t, func(o *Options) { o.Chars = FunChars })
	p.Banner(stringer("all files in the project"))
	p.NoFiles()
	assert.Equal(t, "💍 Linting all files in the project\n⚫ No files found\n", buf.String())
}

type stringer string

func (s stringer) String() string { return string(s) }

func TestSummary(t *testing.T) {
	report := &engine.Report{
		Action:  command.ActionLint,
		Outcome: engine.OutcomeExecutionError,
		Commands: []*engine.CommandResult{
			{Name: "broken", ConfigKey: "commands.broken", ConfigErr: errors.New("bad invoke")},
			{
				Name:      "tool",
				ConfigKey: "commands.tool",
				Invocations: []*engine.InvocationResult{
					result(engine.OutcomeSuccess, "ok.go"),
					func() *engine.InvocationResult {
						r := result(engine.OutcomeLintFailure, "a.go", "b.go")
						r.Detail = "linting failed"
						return r
					}(),
				},
			},
		},
	}

	p, buf := newPresenter(t)
	p.Summary(report)
	want := "Errors when linting files:\n" +
		"  * [commands.broken] failed for []\n    bad invoke\n" +
		"  * [commands.tool] failed for [a.go b.go]\n    linting failed\n"
	assert.Equal(t, want, buf.String())
}

func TestSummaryNothingFailed(t *testing.T) {
	p, buf := newPresenter(t)
	p.Summary(&engine.Report{Action: command.ActionTidy})
	assert.Empty(t, buf.String())
}

type failingWriter struct{ writes int }

func (w *failingWriter) Write([]byte) (int, error) {
	w.writes++
	return 0, errors.New("closed pipe")
}

func TestBrokenOutputDoesNotStopReporting(t *testing.T) {
	out := &failingWriter{}
	p := New(out, pterm.DefaultLogger.WithWriter(&bytes.Buffer{}), Options{Action: command.ActionLint, Chars: BoringChars})
	p.CommandStarted(newCommand(t), command.InvokePerFile, 1)
	cr := &engine.CommandResult{Name: "tool", ConfigKey: "commands.tool"}
	failed := result(engine.OutcomeLintFailure, "a.go")
	failed.Stdout = "a.go:1: bad"

	assert.NotPanics(t, func() {
		p.InvocationFinished(cr, failed)
		p.Summary(&engine.Report{
			Action:   command.ActionLint,
			Outcome:  engine.OutcomeLintFailure,
			Commands: []*engine.CommandResult{{Name: "tool", ConfigKey: "commands.tool", Invocations: []*engine.InvocationResult{failed}}},
		})
	})
	assert.Equal(t, 2, out.writes)
}

func TestPathsSummary(t *testing.T) {
	include := []string{"*.go", "*.mod"}
	tests := []struct {
		name     string
		strategy command.InvokeMode
		files    []string
		want     string
	}{
		{"few files are sorted", command.InvokePerFile, []string{"b.go", "a.go"}, "a.go b.go"},
		{"three files", command.InvokeOnce, []string{"c", "b", "a"}, "a b c"},
		{"many per file", command.InvokePerFile, []string{"d", "c", "b", "a"}, "4 files: a b c d"},
		{"many once", command.InvokeOnce, []string{"d", "c", "b", "a"}, "4 files matching *.go *.mod, starting with a b"},
		{"many per dir", command.InvokePerDir, []string{"d", "c", "b", "a"}, "4 files matching *.go *.mod, starting with a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pathsSummary(include, tt.strategy, tt.files))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{24, "24ns"},
		{124, "124ns"},
		{1_243, "1.24us"},
		{12_443, "12.44us"},
		{124_439, "124.44us"},
		{1_244_392, "1.24ms"},
		{12_443_924, "0.01s"},
		{124_439_246, "0.12s"},
		{time.Second + 1, "1.00s"},
		{time.Second + 1_244_392, "1.00s"},
		{time.Second + 12_443_926, "1.01s"},
		{time.Second + 124_439_267, "1.12s"},
		{59*time.Second + 1, "59.00s"},
		{59*time.Second + 10_000_000, "59.01s"},
		{59*time.Second + 99_999_999, "59.10s"},
		{59*time.Second + 990_000_000, "59.99s"},
		{59*time.Second + 999_000_000, "1m 0.00s"},
		{60 * time.Second, "1m 0.00s"},
		{60*time.Second + 100_000_000, "1m 0.10s"},
		{60*time.Second + 999_000_000, "1m 1.00s"},
		{61*time.Second + 120_000_000, "1m 1.12s"},
		{120*time.Second + 530_000_000, "2m 0.53s"},
		{152*time.Second + 240_123_456, "2m 32.24s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.d))
		})
	}
}
