package command

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/Cyclone1070/precious/internal/service/git"
)

// RootPlaceholder is replaced with the absolute project root wherever it
// appears in cmd, lint/tidy flags and env values.
const RootPlaceholder = "$PRECIOUS_ROOT"

// DefaultLabel is the label of commands that declare none.
const DefaultLabel = "default"

// Params holds the decoded configuration of one command.
type Params struct {
	Name                 string
	Kind                 Kind
	Include              []string
	Exclude              []string
	Cmd                  []string
	Env                  map[string]string
	PathFlag             string
	LintFlags            []string
	TidyFlags            []string
	OkExitCodes          []int
	LintFailureExitCodes []int
	IgnoreStderr         []string
	ExpectStderr         bool
	Labels               []string
	Policy               Policy
}

// Command is a validated, immutable command definition.
type Command struct {
	name                 string
	kind                 Kind
	include              *git.Matcher
	exclude              *git.Matcher
	cmd                  []string
	env                  map[string]string
	pathFlag             string
	lintFlags            []string
	tidyFlags            []string
	okExitCodes          []int
	lintFailureExitCodes []int
	ignoreStderr         []*regexp.Regexp
	labels               []string
	policy               Policy
}

// New validates params and builds a Command.
func New(p Params) (*Command, error) {
	if p.Name == "" {
		return nil, ErrEmptyName
	}
	wrap := func(err error) error {
		return &ConfigError{Command: p.Name, Cause: err}
	}

	if len(p.Cmd) == 0 || p.Cmd[0] == "" {
		return nil, wrap(ErrEmptyCmd)
	}
	if len(p.Include) == 0 {
		return nil, wrap(errors.New("include must contain at least one pattern"))
	}
	if len(p.OkExitCodes) == 0 {
		return nil, wrap(errors.New("ok-exit-codes must contain at least one exit code"))
	}
	if p.Kind.Supports(ActionLint) && len(p.LintFailureExitCodes) == 0 {
		return nil, wrap(fmt.Errorf("lint-failure-exit-codes is required for a %s command", p.Kind))
	}
	if p.Kind == KindBoth && len(p.LintFlags) == 0 && len(p.TidyFlags) == 0 {
		return nil, wrap(errors.New(`a command with type = "both" must set lint-flags, tidy-flags, or both`))
	}
	for _, codes := range [][]int{p.OkExitCodes, p.LintFailureExitCodes} {
		for _, c := range codes {
			if c < 0 || c > 255 {
				return nil, wrap(fmt.Errorf("exit code %d is outside the range 0-255", c))
			}
		}
	}

	if err := p.Policy.Validate(); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ve.Command = p.Name
		}
		return nil, wrap(err)
	}

	patterns := p.IgnoreStderr
	if p.ExpectStderr {
		patterns = append(slices.Clone(patterns), ".*")
	}
	ignore := make([]*regexp.Regexp, 0, len(patterns))
	for _, pat := range patterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, wrap(&PatternError{Pattern: pat, Cause: err})
		}
		ignore = append(ignore, re)
	}

	labels := slices.Clone(p.Labels)
	if len(labels) == 0 {
		labels = []string{DefaultLabel}
	}

	return &Command{
		name:                 p.Name,
		kind:                 p.Kind,
		include:              git.NewMatcher(p.Include),
		exclude:              git.NewMatcher(p.Exclude),
		cmd:                  slices.Clone(p.Cmd),
		env:                  cloneEnv(p.Env),
		pathFlag:             p.PathFlag,
		lintFlags:            slices.Clone(p.LintFlags),
		tidyFlags:            slices.Clone(p.TidyFlags),
		okExitCodes:          slices.Clone(p.OkExitCodes),
		lintFailureExitCodes: slices.Clone(p.LintFailureExitCodes),
		ignoreStderr:         ignore,
		labels:               labels,
		policy:               p.Policy,
	}, nil
}

func (c *Command) Name() string     { return c.name }
func (c *Command) Kind() Kind       { return c.kind }
func (c *Command) Policy() Policy   { return c.policy }
func (c *Command) PathFlag() string { return c.pathFlag }

// Include returns the include patterns in declaration order.
func (c *Command) Include() []string {
	return c.include.Patterns()
}

// Exclude returns the exclude patterns in declaration order.
func (c *Command) Exclude() []string {
	return c.exclude.Patterns()
}

// ConfigKey is the table name under which the command is configured.
func (c *Command) ConfigKey() string {
	return "commands." + c.name
}

func (c *Command) Labels() []string {
	return slices.Clone(c.labels)
}

func (c *Command) HasLabel(label string) bool {
	return slices.Contains(c.labels, label)
}

// Runs reports whether the command takes part in a run of action.
func (c *Command) Runs(a Action) bool {
	return c.kind.Supports(a)
}

func (c *Command) IsOkExitCode(code int) bool {
	return slices.Contains(c.okExitCodes, code)
}

func (c *Command) IsLintFailureExitCode(code int) bool {
	return slices.Contains(c.lintFailureExitCodes, code)
}

// IgnoreStderr returns the compiled stderr patterns.
func (c *Command) IgnoreStderr() []*regexp.Regexp {
	return slices.Clone(c.ignoreStderr)
}

// Argv returns cmd followed by the flags for action, with the root
// placeholder replaced.
func (c *Command) Argv(a Action, root string) []string {
	var flags []string
	switch a {
	case ActionLint:
		flags = c.lintFlags
	case ActionTidy:
		flags = c.tidyFlags
	}
	argv := make([]string, 0, len(c.cmd)+len(flags))
	for _, s := range c.cmd {
		argv = append(argv, ReplaceRoot(s, root))
	}
	for _, s := range flags {
		argv = append(argv, ReplaceRoot(s, root))
	}
	return argv
}

// Env returns the command's environment with the root placeholder replaced
// in every value.
func (c *Command) Env(root string) map[string]string {
	env := make(map[string]string, len(c.env))
	for k, v := range c.env {
		env[k] = ReplaceRoot(v, root)
	}
	return env
}

// EnvKeys returns the configured variable names, sorted.
func (c *Command) EnvKeys() []string {
	keys := make([]string, 0, len(c.env))
	for k := range c.env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Filter returns the path filter for this command, applying global project
// excludes before its own rules.
func (c *Command) Filter(global *git.Matcher) *Filter {
	return &Filter{global: global, exclude: c.exclude, include: c.include}
}

// ReplaceRoot substitutes the absolute project root for the placeholder.
func ReplaceRoot(s, root string) string {
	return strings.ReplaceAll(s, RootPlaceholder, root)
}

func cloneEnv(env map[string]string) map[string]string {
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}
