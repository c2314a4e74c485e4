package config

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/Cyclone1070/precious/internal/command"
)

// rawCommand mirrors one [commands.NAME] table. Pointer fields tell "absent"
// apart from a zero value.
type rawCommand struct {
	Type                 command.Kind        `mapstructure:"type"`
	Include              []string            `mapstructure:"include"`
	Exclude              []string            `mapstructure:"exclude"`
	Invoke               *command.Invoke     `mapstructure:"invoke"`
	WorkingDir           *command.WorkingDir `mapstructure:"working-dir"`
	PathArgs             *command.PathArgs   `mapstructure:"path-args"`
	RunMode              *string             `mapstructure:"run-mode"`
	Chdir                *bool               `mapstructure:"chdir"`
	Cmd                  []string            `mapstructure:"cmd"`
	Env                  map[string]string   `mapstructure:"env"`
	LintFlags            []string            `mapstructure:"lint-flags"`
	TidyFlags            []string            `mapstructure:"tidy-flags"`
	PathFlag             string              `mapstructure:"path-flag"`
	OkExitCodes          []int               `mapstructure:"ok-exit-codes"`
	LintFailureExitCodes []int               `mapstructure:"lint-failure-exit-codes"`
	ExpectStderr         bool                `mapstructure:"expect-stderr"`
	IgnoreStderr         []string            `mapstructure:"ignore-stderr"`
	Labels               []string            `mapstructure:"labels"`
}

var (
	kindType       = reflect.TypeOf(command.Kind(0))
	invokeType     = reflect.TypeOf(command.Invoke{})
	workingDirType = reflect.TypeOf(command.WorkingDir{})
	pathArgsType   = reflect.TypeOf(command.PathArgs(0))
)

// decodeParams turns one command table into command parameters. Missing
// required keys are reported here; everything else is left to command.New.
// Keys that no field uses are returned sorted so they can be warned about.
func decodeParams(name string, table map[string]any) (command.Params, []string, error) {
	if _, ok := lookup(table, "type"); !ok {
		return command.Params{}, nil, errors.New(`missing required key "type"`)
	}
	for _, key := range []string{"include", "cmd", "ok-exit-codes"} {
		if _, ok := lookup(table, key); !ok {
			return command.Params{}, nil, fmt.Errorf("missing required key %q", key)
		}
	}

	var (
		raw rawCommand
		md  mapstructure.Metadata
	)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			kindHook,
			invokeHook,
			workingDirHook,
			pathArgsHook,
			sliceHook,
		),
		Metadata:  &md,
		MatchName: matchKey,
		Result:    &raw,
		TagName:   "mapstructure",
	})
	if err != nil {
		return command.Params{}, nil, err
	}
	if err := dec.Decode(table); err != nil {
		return command.Params{}, nil, err
	}

	policy, err := resolvePolicy(raw)
	if err != nil {
		return command.Params{}, nil, err
	}

	return command.Params{
		Name:                 name,
		Kind:                 raw.Type,
		Include:              raw.Include,
		Exclude:              raw.Exclude,
		Cmd:                  raw.Cmd,
		Env:                  raw.Env,
		PathFlag:             raw.PathFlag,
		LintFlags:            raw.LintFlags,
		TidyFlags:            raw.TidyFlags,
		OkExitCodes:          raw.OkExitCodes,
		LintFailureExitCodes: raw.LintFailureExitCodes,
		IgnoreStderr:         raw.IgnoreStderr,
		ExpectStderr:         raw.ExpectStderr,
		Labels:               raw.Labels,
		Policy:               policy,
	}, unknownKeys(md.Unused), nil
}

func unknownKeys(unused []string) []string {
	if len(unused) == 0 {
		return nil
	}
	keys := append([]string{}, unused...)
	sort.Strings(keys)
	return keys
}

// resolvePolicy applies defaults and translates the legacy run-mode and
// chdir keys.
func resolvePolicy(raw rawCommand) (command.Policy, error) {
	legacy := raw.RunMode != nil || raw.Chdir != nil
	current := raw.Invoke != nil || raw.WorkingDir != nil || raw.PathArgs != nil
	if legacy && current {
		return command.Policy{}, ErrMixedPolicyKeys
	}

	if legacy {
		runMode := "files"
		if raw.RunMode != nil {
			runMode = *raw.RunMode
		}
		chdir := raw.Chdir != nil && *raw.Chdir
		return legacyPolicy(runMode, chdir)
	}

	policy := command.DefaultPolicy()
	if raw.Invoke != nil {
		policy.Invoke = *raw.Invoke
	}
	if raw.WorkingDir != nil {
		policy.WorkingDir = *raw.WorkingDir
	}
	if raw.PathArgs != nil {
		policy.PathArgs = *raw.PathArgs
	}
	return policy, nil
}

func legacyPolicy(runMode string, chdir bool) (command.Policy, error) {
	p := command.Policy{WorkingDir: command.WorkingDir{Mode: command.WorkingDirRoot}}
	switch runMode {
	case "files":
		p.Invoke = command.Invoke{Mode: command.InvokePerFile}
		p.PathArgs = command.PathArgsFile
		if chdir {
			p.WorkingDir.Mode = command.WorkingDirDir
		}
	case "dirs":
		p.Invoke = command.Invoke{Mode: command.InvokePerDir}
		p.PathArgs = command.PathArgsDir
		if chdir {
			p.WorkingDir.Mode = command.WorkingDirDir
			p.PathArgs = command.PathArgsNone
		}
	case "root":
		p.Invoke = command.Invoke{Mode: command.InvokeOnce}
		p.PathArgs = command.PathArgsDot
		if chdir {
			p.PathArgs = command.PathArgsNone
		}
	default:
		return command.Policy{}, fmt.Errorf("unknown run-mode %q, expected one of files, dirs, root", runMode)
	}
	return p, nil
}

// matchKey accepts snake_case spellings of hyphenated keys.
func matchKey(mapKey, fieldName string) bool {
	return strings.EqualFold(normalize(mapKey), normalize(fieldName))
}

func normalize(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func lookup(table map[string]any, key string) (any, bool) {
	for k, v := range table {
		if matchKey(k, key) {
			return v, true
		}
	}
	return nil, false
}

func kindHook(f reflect.Type, t reflect.Type, data any) (any, error) {
	if t != kindType {
		return data, nil
	}
	s, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("type must be a string, got %T", data)
	}
	return command.ParseKind(s)
}

// invokeHook accepts `invoke = "per-file"` or, for the adaptive modes,
// `invoke.per-file-or-dir = 3`.
func invokeHook(f reflect.Type, t reflect.Type, data any) (any, error) {
	if t != invokeType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		mode, err := command.ParseInvokeMode(v)
		if err != nil {
			return nil, err
		}
		if mode.Adaptive() {
			return nil, fmt.Errorf("invoke %q needs a threshold, e.g. invoke.%s = 5", v, mode)
		}
		return command.Invoke{Mode: mode}, nil
	case map[string]any:
		if len(v) != 1 {
			return nil, errors.New("an invoke table must contain exactly one key")
		}
		for k, n := range v {
			mode, err := command.ParseInvokeMode(k)
			if err != nil {
				return nil, err
			}
			if !mode.Adaptive() {
				return nil, fmt.Errorf("invoke.%s does not take a threshold", mode)
			}
			threshold, ok := toInt(n)
			if !ok {
				return nil, fmt.Errorf("invoke.%s must be an integer, got %T", mode, n)
			}
			return command.Invoke{Mode: mode, Threshold: threshold}, nil
		}
	}
	return nil, fmt.Errorf("invoke must be a string or a table, got %T", data)
}

// workingDirHook accepts "root", "dir", `working-dir.chdir-to = "path"` and
// `working-dir.sub-roots = ["a", "b"]`.
func workingDirHook(f reflect.Type, t reflect.Type, data any) (any, error) {
	if t != workingDirType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		switch normalize(v) {
		case "root":
			return command.WorkingDir{Mode: command.WorkingDirRoot}, nil
		case "dir":
			return command.WorkingDir{Mode: command.WorkingDirDir}, nil
		}
		return nil, fmt.Errorf(`working-dir must be "root", "dir", or a table, got %q`, v)
	case map[string]any:
		if len(v) != 1 {
			return nil, errors.New(`a working-dir table must contain exactly one key, "chdir-to" or "sub-roots"`)
		}
		for k, val := range v {
			switch normalize(k) {
			case "chdir-to":
				dir, ok := val.(string)
				if !ok || dir == "" {
					return nil, errors.New(`working-dir.chdir-to must be a non-empty string`)
				}
				return command.WorkingDir{Mode: command.WorkingDirChdirTo, ChdirTo: dir}, nil
			case "sub-roots":
				roots, err := toStrings(val)
				if err != nil {
					return nil, fmt.Errorf("working-dir.sub-roots: %w", err)
				}
				return command.WorkingDir{Mode: command.WorkingDirSubRoots, SubRoots: roots}, nil
			default:
				return nil, fmt.Errorf("unknown working-dir key %q", k)
			}
		}
	}
	return nil, fmt.Errorf("working-dir must be a string or a table, got %T", data)
}

func pathArgsHook(f reflect.Type, t reflect.Type, data any) (any, error) {
	if t != pathArgsType {
		return data, nil
	}
	s, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("path-args must be a string, got %T", data)
	}
	return command.ParsePathArgs(s)
}

// sliceHook lets a single value stand for a one element list.
func sliceHook(f reflect.Type, t reflect.Type, data any) (any, error) {
	if t.Kind() != reflect.Slice || f.Kind() == reflect.Slice {
		return data, nil
	}
	return []any{data}, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

func toStrings(v any) ([]string, error) {
	switch s := v.(type) {
	case string:
		return []string{s}, nil
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a string, got %T", item)
			}
			out = append(out, str)
		}
		return out, nil
	case []string:
		return s, nil
	default:
		return nil, fmt.Errorf("expected a string or a list of strings, got %T", v)
	}
}
