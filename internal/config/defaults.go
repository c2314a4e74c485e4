package config

import "runtime"

// FileNames are the config file names looked for in a project root, in
// order of preference.
var FileNames = []string{"precious.toml", ".precious.toml"}

// Settings holds run-wide options. Defaults are set in DefaultSettings() and
// overridden by command line flags.
type Settings struct {
	// Jobs is the maximum number of invocations of one command running at
	// the same time.
	Jobs int `yaml:"jobs"`
	// ASCII replaces emoji in output with plain characters.
	ASCII bool `yaml:"ascii"`
	// Color enables ANSI colors in output.
	Color bool `yaml:"color"`
	// Quiet suppresses everything but failures.
	Quiet bool `yaml:"quiet"`
	// Verbose enables info-level logs, including per-invocation timings.
	Verbose bool `yaml:"verbose"`
	// Debug enables debug-level logs.
	Debug bool `yaml:"debug"`
	// Command restricts a run to the command with this name.
	Command string `yaml:"command"`
	// Label restricts a run to commands carrying this label.
	Label string `yaml:"label"`
}

// DefaultSettings returns the default run settings.
func DefaultSettings() *Settings {
	return &Settings{
		Jobs:  runtime.NumCPU(),
		Color: true,
	}
}
