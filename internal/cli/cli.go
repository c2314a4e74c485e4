// Package cli wires the command line to the config loader, the finder and
// the engine.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Cyclone1070/precious/internal/command"
	"github.com/Cyclone1070/precious/internal/config"
	"github.com/Cyclone1070/precious/internal/engine"
	"github.com/Cyclone1070/precious/internal/finder"
	"github.com/Cyclone1070/precious/internal/logging"
	"github.com/Cyclone1070/precious/internal/presenter"
	"github.com/Cyclone1070/precious/internal/project"
	"github.com/Cyclone1070/precious/internal/service/executor"
)

// App holds the process-level dependencies of a run.
type App struct {
	stdout io.Writer
	stderr io.Writer
	getwd  func() (string, error)
	getenv func(string) string
	runner engine.Runner
}

// NewApp creates an App bound to the real process environment.
func NewApp(stdout, stderr io.Writer) *App {
	return &App{
		stdout: stdout,
		stderr: stderr,
		getwd:  os.Getwd,
		getenv: os.Getenv,
		runner: executor.NewOSCommandExecutor(),
	}
}

type globalFlags struct {
	config  string
	jobs    int
	ascii   bool
	quiet   bool
	noColor bool
	verbose bool
	debug   bool
}

type actionFlags struct {
	modeFlags
	command string
	label   string
}

// Command builds the cobra command tree.
func (a *App) Command() *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:           "precious",
		Short:         "One code quality tool to rule them all",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&g.config, "config", "c", "", "Path to the precious config file")
	pf.IntVarP(&g.jobs, "jobs", "j", 0, "Number of parallel jobs (threads) to run (defaults to one per core)")
	pf.BoolVar(&g.ascii, "ascii", false, "Replace super-fun Unicode symbols with terribly boring ASCII")
	pf.BoolVarP(&g.quiet, "quiet", "q", false, "Suppresses most output")
	pf.BoolVar(&g.noColor, "no-color", false, "Disable colored output")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose output")
	pf.BoolVar(&g.debug, "debug", false, "Enable debugging output")

	root.AddCommand(
		a.actionCommand(&g, command.ActionLint, "lint", "Lint code"),
		a.actionCommand(&g, command.ActionTidy, "tidy", "Tidy code", "fix"),
		a.configCommand(&g),
	)
	return root
}

func (a *App) actionCommand(g *globalFlags, action command.Action, use, short string, aliases ...string) *cobra.Command {
	var f actionFlags
	cmd := &cobra.Command{
		Use:     use + " [paths...]",
		Short:   short,
		Aliases: aliases,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := a.settings(cmd, g, f)
			if err != nil {
				return err
			}
			mode, err := f.mode(args)
			if err != nil {
				return err
			}
			return a.run(cmd.Context(), action, g.config, settings, mode, args)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.command, "command", "", "Run only the command with this name")
	fl.StringVar(&f.label, "label", "", "Run only commands with this label")
	fl.BoolVarP(&f.all, "all", "a", false, "Run against all files in the current directory and below")
	fl.BoolVarP(&f.git, "git", "g", false, "Run against files that have been modified according to git")
	fl.BoolVarP(&f.staged, "staged", "s", false, "Run against files that are staged for a git commit")
	fl.StringVarP(&f.gitDiffFrom, "git-diff-from", "d", "", "Run against file that have changed since the given git ref")
	return cmd
}

func (a *App) configCommand(g *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Subcommands for working with the precious config",
	}

	var format string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the commands defined in the config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := a.cwd()
			if err != nil {
				return err
			}
			loader := config.NewLoader()
			_, file, err := loader.Locate(cwd, g.config)
			if err != nil {
				return err
			}
			cfg, err := loader.Load(file)
			if err != nil {
				return err
			}
			return presenter.PrintConfig(a.stdout, cfg, presenter.ListFormat(format), g.ascii)
		},
	}
	list.Flags().StringVar(&format, "format", string(presenter.ListTable), "Output format, table or yaml")

	cfgCmd.AddCommand(list)
	return cfgCmd
}

func (a *App) settings(cmd *cobra.Command, g *globalFlags, f actionFlags) (*config.Settings, error) {
	s := config.DefaultSettings()
	if cmd.Flags().Changed("jobs") {
		s.Jobs = g.jobs
	}
	s.ASCII = g.ascii
	s.Color = !g.noColor
	s.Quiet = g.quiet
	s.Verbose = g.verbose
	s.Debug = g.debug
	s.Command = f.command
	s.Label = f.label
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *App) run(ctx context.Context, action command.Action, configPath string, s *config.Settings, mode finder.Mode, paths []string) error {
	if !s.Color {
		pterm.DisableColor()
	}
	logger := logging.New(s, a.stderr)

	cwd, err := a.cwd()
	if err != nil {
		return err
	}
	loader := config.NewLoader()
	root, file, err := loader.Locate(cwd, configPath)
	if err != nil {
		return err
	}
	logger.Debug("loading config", logger.Args("root", root, "file", file))
	cfg, err := loader.Load(file)
	if err != nil {
		return err
	}
	proj, err := project.New(root, cfg.Exclude)
	if err != nil {
		return err
	}
	selected, err := cfg.Select(action, s.Command, s.Label)
	if err != nil {
		return err
	}
	for _, cc := range selected {
		if len(cc.UnknownKeys) > 0 {
			logger.Warn("ignoring unknown keys", logger.Args("command", cc.ConfigKey(), "keys", strings.Join(cc.UnknownKeys, ", ")))
		}
	}

	chars := presenter.FunChars
	if s.ASCII {
		chars = presenter.BoringChars
	}
	pres := presenter.New(a.stdout, logger, presenter.Options{
		Action:        action,
		Chars:         chars,
		Color:         s.Color,
		Quiet:         s.Quiet,
		GitHubActions: a.getenv("GITHUB_ACTIONS") != "",
	})

	pres.Banner(mode)
	files, err := finder.New(proj, cwd, logger).Files(mode, paths)
	if errors.Is(err, finder.ErrNoFiles) {
		pres.NoFiles()
		return nil
	}
	if err != nil {
		return err
	}

	entries := make([]engine.Entry, 0, len(selected))
	for _, cc := range selected {
		cmd, err := cc.Command()
		entries = append(entries, engine.Entry{Name: cc.Name, Command: cmd, Err: err})
	}

	eng := engine.New(a.runner, pres, logger, engine.NewPool(s.Jobs), proj)
	report := eng.Run(ctx, engine.Request{Action: action, Entries: entries, Files: files})
	pres.Summary(report)

	if code := report.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

func (a *App) cwd() (string, error) {
	cwd, err := a.getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(cwd); err == nil {
		cwd = resolved
	}
	return cwd, nil
}

// Run executes args and returns the process exit status.
func (a *App) Run(ctx context.Context, args []string) int {
	root := a.Command()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	_, _ = fmt.Fprintf(a.stderr, "Failed to run precious: %v\n", err)
	return FatalExitCode
}
