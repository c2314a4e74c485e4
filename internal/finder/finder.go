// Package finder discovers the candidate files for a run.
package finder

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/pterm/pterm"

	"github.com/Cyclone1070/precious/internal/project"
	"github.com/Cyclone1070/precious/internal/service/git"
)

// Finder lists project-relative, slash separated files for a mode. Global
// excludes and VCS directories are always applied.
type Finder struct {
	project *project.Project
	cwd     string
	logger  pterm.Logger
}

// New creates a Finder. cwd is used to resolve command line paths.
func New(proj *project.Project, cwd string, logger *pterm.Logger) *Finder {
	if proj == nil {
		panic("project is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Finder{project: proj, cwd: cwd, logger: *logger}
}

// Files returns the sorted candidate files for mode. cliPaths must be empty
// unless mode is ModeCLI.
func (f *Finder) Files(mode Mode, cliPaths []string) ([]string, error) {
	if mode.Kind != ModeCLI && len(cliPaths) > 0 {
		return nil, &ModeError{Mode: mode, Err: ErrPathsWithWrongMode}
	}

	var (
		files []string
		err   error
	)
	switch mode.Kind {
	case ModeAll:
		f.logger.Debug("getting all files", f.logger.Args("root", f.project.Root()))
		files, err = f.walk(f.project.Root())
	case ModeCLI:
		f.logger.Debug("using the list of files passed from the command line")
		files, err = f.fromCLI(cliPaths)
	case ModeGitModified, ModeGitStaged, ModeGitDiffFrom:
		files, err = f.fromGit(mode)
	}
	if err != nil {
		return nil, err
	}

	files = dedupe(files)
	if len(files) == 0 {
		if mode.UsesGit() {
			return nil, ErrNoFiles
		}
		return nil, &ModeError{Mode: mode, Err: ErrAllPathsExcluded}
	}
	return files, nil
}

func (f *Finder) fromCLI(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		full := p
		if !filepath.IsAbs(full) {
			full = filepath.Join(f.cwd, p)
		}
		info, err := os.Stat(full)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &NonExistentPathError{Path: p}
			}
			return nil, err
		}
		if resolved, err := filepath.EvalSymlinks(full); err == nil {
			full = resolved
		}

		rel, err := f.project.Rel(full)
		if err != nil {
			return nil, err
		}
		if rel != "." && f.project.Excluded(rel, info.IsDir()) {
			f.logger.Debug("skipping excluded path", f.logger.Args("path", rel))
			continue
		}

		if info.IsDir() {
			found, err := f.walk(full)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		files = append(files, rel)
	}
	return files, nil
}

// walk lists the files below dir, skipping VCS directories and anything
// git ignores. Hidden files are included.
func (f *Finder) walk(dir string) ([]string, error) {
	ignored, err := git.LoadIgnoreFiles(f.project.Root())
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := f.project.Rel(path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if slices.Contains(project.VCSDirs, d.Name()) || ignored.Ignored(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if ignored.Ignored(rel, false) || f.project.Excluded(rel, false) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (f *Finder) fromGit(mode Mode) ([]string, error) {
	repo, err := git.Open(f.project.Root())
	if err != nil {
		return nil, err
	}

	var rels []string
	switch mode.Kind {
	case ModeGitModified:
		f.logger.Debug("getting modified files according to git")
		rels, err = repo.ModifiedFiles()
	case ModeGitStaged:
		f.logger.Debug("getting staged files according to git")
		rels, err = repo.StagedFiles()
	case ModeGitDiffFrom:
		f.logger.Debug("getting files changed according to git", f.logger.Args("since", mode.Ref))
		rels, err = repo.ChangedSince(mode.Ref)
	}
	if err != nil {
		return nil, err
	}

	repoRoot := repo.Root()
	if resolved, err := filepath.EvalSymlinks(repoRoot); err == nil {
		repoRoot = resolved
	}

	var files []string
	for _, r := range rels {
		abs := filepath.Join(repoRoot, filepath.FromSlash(r))
		rel, err := f.project.Rel(abs)
		if err != nil {
			// Outside a project rooted below the repository root.
			continue
		}
		if f.project.Excluded(rel, false) {
			continue
		}
		if _, err := os.Stat(abs); errors.Is(err, fs.ErrNotExist) {
			f.logger.Debug("the file was deleted so it will be ignored", f.logger.Args("path", r))
			continue
		}
		files = append(files, rel)
	}
	return files, nil
}

func dedupe(files []string) []string {
	sort.Strings(files)
	return slices.Compact(files)
}
