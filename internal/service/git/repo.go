package git

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// ErrNotRepository is returned when no git checkout contains the given directory.
var ErrNotRepository = errors.New("not inside a git repository")

// RevisionError is returned when a ref given on the command line cannot be resolved.
type RevisionError struct {
	Revision string
	Cause    error
}

func (e *RevisionError) Error() string {
	return fmt.Sprintf("could not resolve git revision %q: %v", e.Revision, e.Cause)
}
func (e *RevisionError) Unwrap() error { return e.Cause }

// Repo answers questions about the state of a git checkout. Every path it
// returns is relative to Root, slash separated, and sorted.
type Repo struct {
	repo *git.Repository
	root string
}

// Open finds the git checkout that contains dir, searching parent directories.
func Open(dir string) (*Repo, error) {
	if dir == "" {
		panic("dir is required")
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, fmt.Errorf("failed to open git repository at %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open git worktree at %s: %w", dir, err)
	}
	return &Repo{repo: repo, root: wt.Filesystem.Root()}, nil
}

// Root is the absolute path of the checkout's top-level directory.
func (r *Repo) Root() string {
	return r.root
}

// ModifiedFiles lists files that were added, copied, renamed or modified
// relative to HEAD, whether or not the change is staged. Untracked files
// are not included.
func (r *Repo) ModifiedFiles() ([]string, error) {
	status, err := r.status()
	if err != nil {
		return nil, err
	}
	var files []string
	for path, s := range status {
		if s.Staging == git.Untracked {
			continue
		}
		if changed(s.Staging) || changed(s.Worktree) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// StagedFiles lists files whose change is staged in the index.
func (r *Repo) StagedFiles() ([]string, error) {
	status, err := r.status()
	if err != nil {
		return nil, err
	}
	var files []string
	for path, s := range status {
		if changed(s.Staging) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// ChangedSince lists files added or modified on HEAD since it diverged from
// rev, the same set as "git diff rev...".
func (r *Repo) ChangedSince(rev string) ([]string, error) {
	fromHash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, &RevisionError{Revision: rev, Cause: err}
	}
	from, err := r.repo.CommitObject(*fromHash)
	if err != nil {
		return nil, &RevisionError{Revision: rev, Cause: err}
	}
	headRef, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	head, err := r.repo.CommitObject(headRef.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to load HEAD commit: %w", err)
	}

	bases, err := from.MergeBase(head)
	if err != nil {
		return nil, fmt.Errorf("failed to find merge base of %s and HEAD: %w", rev, err)
	}
	if len(bases) == 0 {
		return nil, &RevisionError{Revision: rev, Cause: errors.New("no common ancestor with HEAD")}
	}

	baseTree, err := bases[0].Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree of %s: %w", bases[0].Hash, err)
	}
	headTree, err := head.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree of HEAD: %w", err)
	}
	changes, err := object.DiffTree(baseTree, headTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s against HEAD: %w", rev, err)
	}

	var files []string
	for _, ch := range changes {
		action, err := ch.Action()
		if err != nil {
			return nil, err
		}
		switch action {
		case merkletrie.Insert, merkletrie.Modify:
			files = append(files, ch.To.Name)
		}
	}
	sort.Strings(files)
	return files, nil
}

func (r *Repo) status() (git.Status, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open git worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read git status: %w", err)
	}
	return status, nil
}

func changed(code git.StatusCode) bool {
	switch code {
	case git.Added, git.Copied, git.Modified, git.Renamed:
		return true
	default:
		return false
	}
}
