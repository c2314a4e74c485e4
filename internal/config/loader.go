package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/Cyclone1070/precious/internal/command"
	"github.com/Cyclone1070/precious/internal/project"
)

// FileSystem abstracts file operations for testability
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// ConfigFileReader implements FileSystem using the real OS for config loading
type ConfigFileReader struct{}

func (ConfigFileReader) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (ConfigFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader handles configuration loading with injected dependencies
type Loader struct {
	fs FileSystem
}

// NewLoader creates a production Loader using the real filesystem
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}}
}

// NewLoaderWithFS creates a Loader with a custom filesystem (for testing)
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Locate finds the project root and config file. An explicit file puts the
// root in its directory. Otherwise cwd is the root if it holds a config
// file, else the nearest ancestor that is a VCS checkout root. The returned
// file may not exist; Load reports that.
func (l *Loader) Locate(cwd, explicit string) (root, file string, err error) {
	if explicit != "" {
		if !filepath.IsAbs(explicit) {
			explicit = filepath.Join(cwd, explicit)
		}
		return filepath.Dir(explicit), explicit, nil
	}

	if f, ok := l.configFileIn(cwd); ok {
		return cwd, f, nil
	}

	for dir := cwd; ; {
		if l.isCheckoutRoot(dir) {
			f, _ := l.configFileIn(dir)
			return dir, f, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", "", &NoConfigError{Cwd: cwd}
}

// configFileIn returns the first existing config file in dir, or the
// preferred name when none exists.
func (l *Loader) configFileIn(dir string) (string, bool) {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if _, err := l.fs.Stat(p); err == nil {
			return p, true
		}
	}
	return filepath.Join(dir, FileNames[0]), false
}

func (l *Loader) isCheckoutRoot(dir string) bool {
	for _, vcs := range project.VCSDirs {
		if _, err := l.fs.Stat(filepath.Join(dir, vcs)); err == nil {
			return true
		}
	}
	return false
}

// Load reads and parses the config file at path. Only an unreadable or
// unparseable file is an error; problems with a single command are kept on
// that command.
func (l *Loader) Load(path string) (*Config, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Cause: err}
	}
	return Parse(path, string(data))
}

// Parse parses config file contents. path is used in errors only.
func Parse(path, data string) (*Config, error) {
	var doc map[string]any
	md, err := toml.Decode(data, &doc)
	if err != nil {
		return nil, &FileReadError{Path: path, Cause: err}
	}

	cfg := &Config{Path: path}
	if v, ok := lookup(doc, "exclude"); ok {
		exclude, err := toStrings(v)
		if err != nil {
			return nil, &FileReadError{Path: path, Cause: fmt.Errorf("exclude: %w", err)}
		}
		cfg.Exclude = exclude
	}

	v, ok := doc["commands"]
	if !ok {
		return cfg, nil
	}
	tables, ok := v.(map[string]any)
	if !ok {
		return nil, &FileReadError{Path: path, Cause: errors.New("commands must be a table")}
	}

	for _, name := range commandOrder(md, tables) {
		cfg.Commands = append(cfg.Commands, buildCommand(name, tables[name]))
	}
	return cfg, nil
}

// commandOrder lists command names in the order their tables first appear.
func commandOrder(md toml.MetaData, tables map[string]any) []string {
	seen := make(map[string]bool, len(tables))
	var names []string
	for _, key := range md.Keys() {
		if len(key) < 2 || key[0] != "commands" || seen[key[1]] {
			continue
		}
		if _, ok := tables[key[1]]; !ok {
			continue
		}
		seen[key[1]] = true
		names = append(names, key[1])
	}

	var rest []string
	for name := range tables {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

func buildCommand(name string, v any) *CommandConfig {
	cc := &CommandConfig{Name: name}
	wrap := func(err error) error {
		var ce *command.ConfigError
		if errors.As(err, &ce) {
			return err
		}
		return &command.ConfigError{Command: name, Cause: err}
	}

	table, ok := v.(map[string]any)
	if !ok {
		cc.Err = wrap(fmt.Errorf("expected a table, got %T", v))
		return cc
	}
	if t, ok := lookup(table, "type"); ok {
		if s, ok := t.(string); ok {
			if kind, err := command.ParseKind(s); err == nil {
				cc.Params.Kind = kind
				cc.kindKnown = true
			}
		}
	}
	if labels, ok := lookup(table, "labels"); ok {
		if l, err := toStrings(labels); err == nil {
			cc.Params.Labels = l
		}
	}
	if cmd, ok := lookup(table, "cmd"); ok {
		if c, err := toStrings(cmd); err == nil {
			cc.Params.Cmd = c
		}
	}

	params, unknown, err := decodeParams(name, table)
	cc.UnknownKeys = unknown
	if err != nil {
		cc.Err = wrap(err)
		return cc
	}
	cc.Params = params
	cc.kindKnown = true

	cmd, err := command.New(params)
	if err != nil {
		cc.Err = wrap(err)
		return cc
	}
	cc.command = cmd
	return cc
}
