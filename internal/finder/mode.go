package finder

import "fmt"

// ModeKind selects where candidate files come from.
type ModeKind int

const (
	// ModeCLI uses the paths given on the command line, walking directories.
	ModeCLI ModeKind = iota
	// ModeAll walks the whole project.
	ModeAll
	// ModeGitModified uses files git reports as modified, staged or not.
	ModeGitModified
	// ModeGitStaged uses files staged for the next commit.
	ModeGitStaged
	// ModeGitDiffFrom uses files changed on HEAD since it diverged from Ref.
	ModeGitDiffFrom
)

// Mode is a file discovery mode. Ref is only used by ModeGitDiffFrom.
type Mode struct {
	Kind ModeKind
	Ref  string
}

// String describes the mode for the "Linting ..." banner.
func (m Mode) String() string {
	switch m.Kind {
	case ModeCLI:
		return "paths passed on the command line (recursively)"
	case ModeAll:
		return "all files in the project"
	case ModeGitModified:
		return "modified files according to git"
	case ModeGitStaged:
		return "files staged for a git commit"
	case ModeGitDiffFrom:
		return fmt.Sprintf("files modified as compared to %s", m.Ref)
	default:
		return fmt.Sprintf("ModeKind(%d)", int(m.Kind))
	}
}

// UsesGit reports whether the mode asks git for its files.
func (m Mode) UsesGit() bool {
	return m.Kind == ModeGitModified || m.Kind == ModeGitStaged || m.Kind == ModeGitDiffFrom
}
