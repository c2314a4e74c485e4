package command

import (
	"fmt"
	"strings"
)

// InvokeMode selects how a command's files are split into invocations.
type InvokeMode int

const (
	InvokePerFile InvokeMode = iota
	InvokePerDir
	InvokeOnce
	InvokePerFileOrDir
	InvokePerFileOrOnce
	InvokePerDirOrOnce
)

var invokeNames = map[InvokeMode]string{
	InvokePerFile:       "per-file",
	InvokePerDir:        "per-dir",
	InvokeOnce:          "once",
	InvokePerFileOrDir:  "per-file-or-dir",
	InvokePerFileOrOnce: "per-file-or-once",
	InvokePerDirOrOnce:  "per-dir-or-once",
}

func (m InvokeMode) String() string {
	if s, ok := invokeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("InvokeMode(%d)", int(m))
}

// Adaptive reports whether the mode picks a concrete strategy from file counts.
func (m InvokeMode) Adaptive() bool {
	return m == InvokePerFileOrDir || m == InvokePerFileOrOnce || m == InvokePerDirOrOnce
}

// ParseInvokeMode parses the name of a concrete invoke mode.
func ParseInvokeMode(s string) (InvokeMode, error) {
	for m, name := range invokeNames {
		if name == normalizeKey(s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown invoke value %q", s)
}

// Invoke is an invoke mode plus the threshold used by the adaptive modes.
type Invoke struct {
	Mode      InvokeMode
	Threshold int
}

func (i Invoke) String() string {
	if i.Mode.Adaptive() {
		return fmt.Sprintf("invoke.%s = %d", i.Mode, i.Threshold)
	}
	return fmt.Sprintf("invoke = %q", i.Mode.String())
}

// Strategies lists the concrete modes this invoke can resolve to.
func (i Invoke) Strategies() []InvokeMode {
	switch i.Mode {
	case InvokePerFileOrDir:
		return []InvokeMode{InvokePerFile, InvokePerDir}
	case InvokePerFileOrOnce:
		return []InvokeMode{InvokePerFile, InvokeOnce}
	case InvokePerDirOrOnce:
		return []InvokeMode{InvokePerDir, InvokeOnce}
	default:
		return []InvokeMode{i.Mode}
	}
}

// WorkingDirMode selects where an invocation runs.
type WorkingDirMode int

const (
	WorkingDirRoot WorkingDirMode = iota
	WorkingDirDir
	WorkingDirSubRoots
	WorkingDirChdirTo
)

func (m WorkingDirMode) String() string {
	switch m {
	case WorkingDirRoot:
		return "root"
	case WorkingDirDir:
		return "dir"
	case WorkingDirSubRoots:
		return "sub-roots"
	case WorkingDirChdirTo:
		return "chdir-to"
	default:
		return fmt.Sprintf("WorkingDirMode(%d)", int(m))
	}
}

// WorkingDir is a working directory mode plus its parameters. SubRoots and
// ChdirTo are project-relative.
type WorkingDir struct {
	Mode     WorkingDirMode
	SubRoots []string
	ChdirTo  string
}

func (w WorkingDir) String() string {
	switch w.Mode {
	case WorkingDirSubRoots:
		quoted := make([]string, len(w.SubRoots))
		for i, s := range w.SubRoots {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return fmt.Sprintf("working-dir.sub-roots = [%s]", strings.Join(quoted, ", "))
	case WorkingDirChdirTo:
		return fmt.Sprintf("working-dir.chdir-to = %q", w.ChdirTo)
	default:
		return fmt.Sprintf("working-dir = %q", w.Mode.String())
	}
}

// PathArgs selects which path arguments are passed to an invocation.
type PathArgs int

const (
	PathArgsFile PathArgs = iota
	PathArgsDir
	PathArgsNone
	PathArgsDot
	PathArgsAbsoluteFile
	PathArgsAbsoluteDir
)

var pathArgsNames = map[PathArgs]string{
	PathArgsFile:         "file",
	PathArgsDir:          "dir",
	PathArgsNone:         "none",
	PathArgsDot:          "dot",
	PathArgsAbsoluteFile: "absolute-file",
	PathArgsAbsoluteDir:  "absolute-dir",
}

func (p PathArgs) String() string {
	if s, ok := pathArgsNames[p]; ok {
		return s
	}
	return fmt.Sprintf("PathArgs(%d)", int(p))
}

// ParsePathArgs parses the "path-args" key of a command.
func ParsePathArgs(s string) (PathArgs, error) {
	for p, name := range pathArgsNames {
		if name == normalizeKey(s) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown path-args value %q", s)
}

// Policy is the full invocation policy of a command.
type Policy struct {
	Invoke     Invoke
	WorkingDir WorkingDir
	PathArgs   PathArgs
}

// DefaultPolicy runs once per file from the project root with the file as
// the only path argument.
func DefaultPolicy() Policy {
	return Policy{
		Invoke:     Invoke{Mode: InvokePerFile},
		WorkingDir: WorkingDir{Mode: WorkingDirRoot},
		PathArgs:   PathArgsFile,
	}
}

func (p Policy) String() string {
	return fmt.Sprintf("%s, %s, path-args = %q", p.Invoke, p.WorkingDir, p.PathArgs.String())
}

func normalizeKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
}
