package cli

import (
	"errors"

	"github.com/Cyclone1070/precious/internal/finder"
)

var (
	errNoMode       = errors.New("one of --all, --git, --staged, --git-diff-from or a list of paths is required")
	errTooManyModes = errors.New("only one of --all, --git, --staged or --git-diff-from may be given")
)

type modeFlags struct {
	all         bool
	git         bool
	staged      bool
	gitDiffFrom string
}

// mode picks the file discovery mode. Paths combined with a flag are left
// for the finder to reject.
func (m modeFlags) mode(paths []string) (finder.Mode, error) {
	var modes []finder.Mode
	if m.all {
		modes = append(modes, finder.Mode{Kind: finder.ModeAll})
	}
	if m.git {
		modes = append(modes, finder.Mode{Kind: finder.ModeGitModified})
	}
	if m.staged {
		modes = append(modes, finder.Mode{Kind: finder.ModeGitStaged})
	}
	if m.gitDiffFrom != "" {
		modes = append(modes, finder.Mode{Kind: finder.ModeGitDiffFrom, Ref: m.gitDiffFrom})
	}

	switch len(modes) {
	case 0:
		if len(paths) == 0 {
			return finder.Mode{}, errNoMode
		}
		return finder.Mode{Kind: finder.ModeCLI}, nil
	case 1:
		return modes[0], nil
	default:
		return finder.Mode{}, errTooManyModes
	}
}
