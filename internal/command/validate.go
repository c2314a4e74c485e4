package command

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Validate rejects policies whose combination of invoke, working-dir and
// path-args cannot be planned. An adaptive invoke is valid only when every
// concrete strategy it may resolve to is valid.
func (p Policy) Validate() error {
	if p.Invoke.Mode.Adaptive() && p.Invoke.Threshold < 0 {
		return p.invalid(fmt.Sprintf("%s must not be negative", p.Invoke))
	}

	switch p.WorkingDir.Mode {
	case WorkingDirRoot, WorkingDirDir:
	case WorkingDirSubRoots:
		if len(p.WorkingDir.SubRoots) == 0 {
			return p.invalid("working-dir.sub-roots must list at least one directory")
		}
		for _, s := range p.WorkingDir.SubRoots {
			if err := checkProjectPath(s); err != nil {
				return p.invalid(fmt.Sprintf("sub-root %q %v", s, err))
			}
		}
	case WorkingDirChdirTo:
		if err := checkProjectPath(p.WorkingDir.ChdirTo); err != nil {
			return p.invalid(fmt.Sprintf("chdir-to %q %v", p.WorkingDir.ChdirTo, err))
		}
	default:
		return p.invalid(fmt.Sprintf("unknown working-dir mode %s", p.WorkingDir.Mode))
	}

	for _, s := range p.Invoke.Strategies() {
		if err := p.validateStrategy(s); err != nil {
			return err
		}
	}
	return nil
}

func (p Policy) validateStrategy(s InvokeMode) error {
	switch s {
	case InvokePerFile:
		switch p.PathArgs {
		case PathArgsFile, PathArgsAbsoluteFile:
			return nil
		case PathArgsDir, PathArgsNone, PathArgsDot, PathArgsAbsoluteDir:
			return p.invalid(fmt.Sprintf("cannot invoke per-file with path-args = %q", p.PathArgs.String()))
		}
	case InvokePerDir:
		switch p.PathArgs {
		case PathArgsFile, PathArgsDir, PathArgsAbsoluteFile, PathArgsAbsoluteDir:
			return nil
		case PathArgsNone, PathArgsDot:
			if p.WorkingDir.Mode == WorkingDirDir {
				return nil
			}
			return p.invalid(fmt.Sprintf("cannot invoke per-dir with path-args = %q unless working-dir = \"dir\"", p.PathArgs.String()))
		}
	case InvokeOnce:
		switch p.WorkingDir.Mode {
		case WorkingDirDir:
			return p.invalid("cannot invoke once with working-dir = \"dir\"")
		case WorkingDirRoot, WorkingDirSubRoots, WorkingDirChdirTo:
			if _, ok := pathArgsNames[p.PathArgs]; ok {
				return nil
			}
		}
	}
	return p.invalid(fmt.Sprintf("unsupported combination of invoke %s and path-args %s", s, p.PathArgs))
}

func (p Policy) invalid(reason string) *ValidationError {
	return &ValidationError{Policy: p, Reason: reason}
}

// checkProjectPath requires a non-empty relative path that stays inside the
// project root.
func checkProjectPath(p string) error {
	if p == "" {
		return errors.New("must not be empty")
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return errors.New("must be relative to the project root")
	}
	clean := path.Clean(filepath.ToSlash(p))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.New("must not point outside the project root")
	}
	return nil
}
