package command

import "github.com/Cyclone1070/precious/internal/service/git"

// Filter decides whether a project-relative path is handled by a command.
// Global excludes are checked first, then the command's excludes, then its
// includes.
type Filter struct {
	global  *git.Matcher
	exclude *git.Matcher
	include *git.Matcher
}

// NewFilter builds a filter from raw pattern lists.
func NewFilter(global, include, exclude []string) *Filter {
	return &Filter{
		global:  git.NewMatcher(global),
		exclude: git.NewMatcher(exclude),
		include: git.NewMatcher(include),
	}
}

// Match reports whether path is kept.
func (f *Filter) Match(path string) bool {
	if f.global.Match(path, false) {
		return false
	}
	if f.exclude.Match(path, false) {
		return false
	}
	return f.include.Match(path, false)
}

// Apply keeps the paths that match, preserving order.
func (f *Filter) Apply(paths []string) []string {
	var kept []string
	for _, p := range paths {
		if f.Match(p) {
			kept = append(kept, p)
		}
	}
	return kept
}
