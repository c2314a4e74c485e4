package planner

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/precious/internal/command"
)

// Invocation is one planned subprocess run.
type Invocation struct {
	// Argv is the full argument vector, executable first.
	Argv []string
	// Dir is the absolute working directory.
	Dir string
	// Env is layered over the parent environment.
	Env map[string]string
	// Files are the project-relative files this invocation covers.
	Files []string
	// PathArgs are the path arguments appended to Argv, without path flags.
	PathArgs []string
	Strategy command.InvokeMode

	baseLen int
}

// Exe is the executable as written after root replacement.
func (i *Invocation) Exe() string {
	return i.Argv[0]
}

// Loggable renders the command line for logs. Arguments that are not paths
// are always shown; long path lists are cut to the first two paths.
func (i *Invocation) Loggable() string {
	args := i.Argv[1:]
	numPathArgs := len(i.Argv) - i.baseLen
	if len(i.PathArgs) == 0 || len(args) <= 3 {
		return strings.Join(i.Argv, " ")
	}

	parts := append([]string{}, i.Argv[:i.baseLen]...)
	if len(i.PathArgs) <= 3 {
		parts = append(parts, i.Argv[i.baseLen:]...)
		return strings.Join(parts, " ")
	}

	perPath := numPathArgs / len(i.PathArgs)
	parts = append(parts, i.Argv[i.baseLen:i.baseLen+2*perPath]...)
	parts = append(parts, fmt.Sprintf("... and %d more paths", len(i.PathArgs)-2))
	return strings.Join(parts, " ")
}

// FilesSummary lists the files for logs, cutting after three.
func (i *Invocation) FilesSummary() string {
	if len(i.Files) <= 3 {
		return strings.Join(i.Files, " ")
	}
	return fmt.Sprintf("%s ... and %d more", strings.Join(i.Files[:3], " "), len(i.Files)-3)
}
