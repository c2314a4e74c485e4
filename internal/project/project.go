package project

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Cyclone1070/precious/internal/service/git"
)

// VCSDirs are never handed to commands, whatever the configuration says.
var VCSDirs = []string{".git", ".hg", ".svn"}

// Project is the root every relative path is resolved against, plus the
// excludes that apply to every command.
type Project struct {
	root     string
	exclude  []string
	excluder *git.Matcher
}

// New canonicalises root and compiles the global excludes.
func New(root string, exclude []string) (*Project, error) {
	canonical, err := CanonicaliseRoot(root)
	if err != nil {
		return nil, err
	}
	patterns := append(slices.Clone(VCSDirs), exclude...)
	return &Project{
		root:     canonical,
		exclude:  slices.Clone(exclude),
		excluder: git.NewMatcher(patterns),
	}, nil
}

// Root is the absolute, symlink-free project root.
func (p *Project) Root() string { return p.root }

// Exclude returns the configured global exclude patterns.
func (p *Project) Exclude() []string { return slices.Clone(p.exclude) }

// Excluder matches the global excludes and VCS directories.
func (p *Project) Excluder() *git.Matcher { return p.excluder }

// Excluded reports whether a project-relative path is globally excluded.
func (p *Project) Excluded(rel string, isDir bool) bool {
	return p.excluder.Match(rel, isDir)
}

// CanonicaliseRoot makes root absolute and resolves symlinks. Returns an
// error if the path doesn't exist or isn't a directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &RootError{Root: root, Cause: err}
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", &RootError{Root: absRoot, Cause: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &RootError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &RootError{Root: resolved, Cause: fmt.Errorf("%w: %s", ErrNotADirectory, resolved)}
	}
	return resolved, nil
}

// Abs resolves a path to absolute and checks that it is inside the root.
// Relative paths are taken relative to the root.
func (p *Project) Abs(path string) (string, error) {
	var abs string
	if filepath.IsAbs(path) {
		abs = filepath.Clean(path)
	} else {
		abs = filepath.Clean(filepath.Join(p.root, path))
	}

	if !strings.HasPrefix(abs, p.root+string(filepath.Separator)) && abs != p.root {
		return "", &OutsideRootError{Path: path, Root: p.root}
	}
	return abs, nil
}

// Rel turns a path into a slash-separated path relative to the root. The
// root itself becomes ".".
func (p *Project) Rel(path string) (string, error) {
	abs, err := p.Abs(path)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(p.root, abs)
	if err != nil {
		return "", &OutsideRootError{Path: path, Root: p.root}
	}
	return filepath.ToSlash(rel), nil
}
