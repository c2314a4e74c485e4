package git

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// GitignoreReadError is returned when the ignore files under a tree cannot be read.
type GitignoreReadError struct {
	Path  string
	Cause error
}

func (e *GitignoreReadError) Error() string {
	return fmt.Sprintf("failed to read ignore files under %s: %v", e.Path, e.Cause)
}
func (e *GitignoreReadError) Unwrap() error { return e.Cause }

// Matcher matches project-relative paths against an ordered list of
// gitignore-style patterns. Later patterns win over earlier ones and a
// leading "!" negates a pattern.
type Matcher struct {
	patterns []string
	matcher  gitignore.Matcher
}

// NewMatcher compiles patterns in the order given. Blank lines and "#"
// comments are skipped. A matcher with no patterns never matches.
func NewMatcher(patterns []string) *Matcher {
	var parsed []gitignore.Pattern
	var kept []string
	for _, p := range patterns {
		trimmed := strings.TrimRight(p, " \t\r")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		parsed = append(parsed, gitignore.ParsePattern(trimmed, nil))
		kept = append(kept, trimmed)
	}
	m := &Matcher{patterns: kept}
	if len(parsed) > 0 {
		m.matcher = gitignore.NewMatcher(parsed)
	}
	return m
}

// Match reports whether relativePath is selected by the patterns. A rule
// written for a directory also matches everything below it.
func (m *Matcher) Match(relativePath string, isDir bool) bool {
	if m == nil || m.matcher == nil {
		return false
	}
	segments := splitPath(relativePath)
	if len(segments) == 0 {
		return false
	}
	return m.matcher.Match(segments, isDir)
}

// Empty reports whether the matcher holds no patterns.
func (m *Matcher) Empty() bool {
	return m == nil || len(m.patterns) == 0
}

// Patterns returns the compiled patterns in declaration order.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.patterns))
	copy(out, m.patterns)
	return out
}

// IgnoreFiles honours the .gitignore files found anywhere under a root
// directory, plus .git/info/exclude.
type IgnoreFiles struct {
	matcher gitignore.Matcher
}

// LoadIgnoreFiles reads every ignore file below root. A tree without ignore
// files yields a matcher that never ignores anything.
func LoadIgnoreFiles(root string) (*IgnoreFiles, error) {
	if root == "" {
		panic("root is required")
	}
	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil {
		return nil, &GitignoreReadError{Path: root, Cause: err}
	}
	if len(patterns) == 0 {
		return &IgnoreFiles{}, nil
	}
	return &IgnoreFiles{matcher: gitignore.NewMatcher(patterns)}, nil
}

// Ignored reports whether a root-relative path is ignored by git.
func (f *IgnoreFiles) Ignored(relativePath string, isDir bool) bool {
	if f == nil || f.matcher == nil {
		return false
	}
	segments := splitPath(relativePath)
	if len(segments) == 0 {
		return false
	}
	return f.matcher.Match(segments, isDir)
}

// splitPath splits a path into segments for gitignore matching.
// It normalizes path separators and filters out empty and "." segments.
func splitPath(path string) []string {
	if path == "" {
		return []string{}
	}

	normalized := filepath.ToSlash(path)

	parts := strings.Split(normalized, "/")
	var segments []string
	for _, part := range parts {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}

	return segments
}
