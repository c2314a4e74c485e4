package config

import (
	"strings"

	"github.com/Cyclone1070/precious/internal/command"
)

// Config is a parsed precious.toml.
type Config struct {
	// Path is the file the config was read from.
	Path string
	// Exclude holds the project-wide exclude patterns.
	Exclude []string
	// Commands are in the order they appear in the file.
	Commands []*CommandConfig
}

// CommandConfig is one [commands.NAME] table. Err is set when the table
// could not be turned into a valid command; other commands are unaffected.
type CommandConfig struct {
	Name   string
	Params command.Params
	Err    error
	// UnknownKeys are keys in the table that precious does not use. They are
	// ignored.
	UnknownKeys []string

	kindKnown bool
	command   *command.Command
}

// ConfigKey is the TOML key of the command's table.
func (c *CommandConfig) ConfigKey() string {
	return "commands." + c.Name
}

// Command returns the validated command, or the configuration error.
func (c *CommandConfig) Command() (*command.Command, error) {
	return c.command, c.Err
}

// TypeName is the command's type for listings, "unknown" when the type key
// could not be read.
func (c *CommandConfig) TypeName() string {
	if !c.kindKnown {
		return "unknown"
	}
	return c.Params.Kind.String()
}

// Runs reports whether the command takes part in a run of action. Commands
// whose type could not be read are always selected so their error is seen.
func (c *CommandConfig) Runs(action command.Action) bool {
	if !c.kindKnown {
		return true
	}
	return c.Params.Kind.Supports(action)
}

// HasLabel reports whether the command carries label. Commands without
// labels carry the default label only.
func (c *CommandConfig) HasLabel(label string) bool {
	labels := c.Params.Labels
	if len(labels) == 0 {
		return label == command.DefaultLabel
	}
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// Select returns the commands a run of action should use, in declaration
// order. name and label are optional filters; an empty label means the
// default label.
func (c *Config) Select(action command.Action, name, label string) ([]*CommandConfig, error) {
	if label == "" {
		label = command.DefaultLabel
	}

	var selected []*CommandConfig
	for _, cc := range c.Commands {
		if name != "" && cc.Name != name {
			continue
		}
		if !cc.HasLabel(label) {
			continue
		}
		if !cc.Runs(action) {
			continue
		}
		selected = append(selected, cc)
	}

	if len(selected) == 0 {
		err := &NoCommandsError{What: strings.ToLower(action.Gerund()), Name: name}
		if label != command.DefaultLabel {
			err.Label = label
		}
		return nil, err
	}
	return selected, nil
}
