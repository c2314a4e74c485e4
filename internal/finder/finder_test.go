package finder

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyclone1070/precious/internal/project"
)

type tree struct {
	t    *testing.T
	root string
	repo *git.Repository
}

func newTree(t *testing.T, withGit bool) *tree {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	tr := &tree{t: t, root: root}
	if withGit {
		tr.repo, err = git.PlainInit(root, false)
		require.NoError(t, err)
	}
	return tr
}

func (tr *tree) write(files ...string) {
	tr.t.Helper()
	for _, rel := range files {
		full := filepath.Join(tr.root, filepath.FromSlash(rel))
		require.NoError(tr.t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(tr.t, os.WriteFile(full, []byte(rel+"\n"), 0o644))
	}
}

func (tr *tree) commitAll(msg string, files ...string) {
	tr.t.Helper()
	wt, err := tr.repo.Worktree()
	require.NoError(tr.t, err)
	for _, f := range files {
		_, err := wt.Add(f)
		require.NoError(tr.t, err)
	}
	_, err = wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(tr.t, err)
}

func (tr *tree) finder(exclude ...string) *Finder {
	tr.t.Helper()
	proj, err := project.New(tr.root, exclude)
	require.NoError(tr.t, err)
	return New(proj, tr.root, pterm.DefaultLogger.WithWriter(io.Discard))
}

func TestAllMode(t *testing.T) {
	tr := newTree(t, true)
	tr.write("a.go", "sub/b.go", ".hidden", "debug.log", "logs/x.txt", "vendor/v.go")
	require.NoError(t, os.WriteFile(filepath.Join(tr.root, ".gitignore"), []byte("*.log\nlogs/\n"), 0o644))

	files, err := tr.finder("vendor").Files(Mode{Kind: ModeAll}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{".gitignore", ".hidden", "a.go", "sub/b.go"}, files)
}

func TestAllModeEverythingExcluded(t *testing.T) {
	tr := newTree(t, false)
	tr.write("vendor/v.go")

	_, err := tr.finder("vendor").Files(Mode{Kind: ModeAll}, nil)
	assert.ErrorIs(t, err, ErrAllPathsExcluded)
	assert.EqualError(t, err, "found some paths but they were all excluded when looking for all files in the project")
}

func TestCLIMode(t *testing.T) {
	tr := newTree(t, false)
	tr.write("a.go", "sub/b.go", "sub/deeper/c.go", "vendor/v.go", "other.txt")

	f := tr.finder("vendor")
	mode := Mode{Kind: ModeCLI}

	t.Run("directory is walked", func(t *testing.T) {
		files, err := f.Files(mode, []string{"sub"})
		require.NoError(t, err)
		assert.Equal(t, []string{"sub/b.go", "sub/deeper/c.go"}, files)
	})

	t.Run("files and duplicates", func(t *testing.T) {
		files, err := f.Files(mode, []string{"other.txt", "a.go", "./a.go"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.go", "other.txt"}, files)
	})

	t.Run("excluded paths are skipped", func(t *testing.T) {
		files, err := f.Files(mode, []string{"a.go", "vendor/v.go", "vendor"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.go"}, files)
	})

	t.Run("only excluded paths", func(t *testing.T) {
		_, err := f.Files(mode, []string{"vendor/v.go"})
		assert.ErrorIs(t, err, ErrAllPathsExcluded)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := f.Files(mode, []string{"a.go", "nope.go"})
		var ne *NonExistentPathError
		require.ErrorAs(t, err, &ne)
		assert.Equal(t, "nope.go", ne.Path)
	})

	t.Run("relative to cwd", func(t *testing.T) {
		proj, err := project.New(tr.root, nil)
		require.NoError(t, err)
		sub := New(proj, filepath.Join(tr.root, "sub"), pterm.DefaultLogger.WithWriter(io.Discard))
		files, err := sub.Files(mode, []string{"b.go"})
		require.NoError(t, err)
		assert.Equal(t, []string{"sub/b.go"}, files)
	})
}

func TestPathsWithWrongMode(t *testing.T) {
	tr := newTree(t, false)
	tr.write("a.go")
	_, err := tr.finder().Files(Mode{Kind: ModeGitStaged}, []string{"a.go"})
	assert.ErrorIs(t, err, ErrPathsWithWrongMode)
}

func TestGitModes(t *testing.T) {
	tr := newTree(t, true)
	tr.write("a.go", "b.go", "vendor/v.go")
	tr.commitAll("initial", "a.go", "b.go", "vendor/v.go")

	f := tr.finder("vendor")

	t.Run("nothing modified", func(t *testing.T) {
		_, err := f.Files(Mode{Kind: ModeGitModified}, nil)
		assert.ErrorIs(t, err, ErrNoFiles)
	})

	require.NoError(t, os.WriteFile(filepath.Join(tr.root, "a.go"), []byte("changed\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tr.root, "vendor", "v.go"), []byte("changed\n"), 0o644))

	t.Run("modified", func(t *testing.T) {
		files, err := f.Files(Mode{Kind: ModeGitModified}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.go"}, files)
	})

	t.Run("nothing staged", func(t *testing.T) {
		_, err := f.Files(Mode{Kind: ModeGitStaged}, nil)
		assert.ErrorIs(t, err, ErrNoFiles)
	})

	t.Run("staged file deleted afterwards", func(t *testing.T) {
		tr.write("c.go", "d.go")
		wt, err := tr.repo.Worktree()
		require.NoError(t, err)
		_, err = wt.Add("c.go")
		require.NoError(t, err)
		_, err = wt.Add("d.go")
		require.NoError(t, err)
		require.NoError(t, os.Remove(filepath.Join(tr.root, "d.go")))

		files, err := f.Files(Mode{Kind: ModeGitStaged}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"c.go"}, files)
	})
}

func TestGitModeOutsideRepository(t *testing.T) {
	tr := newTree(t, false)
	tr.write("a.go")
	_, err := tr.finder().Files(Mode{Kind: ModeGitModified}, nil)
	assert.Error(t, err)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "all files in the project", Mode{Kind: ModeAll}.String())
	assert.Equal(t, "files modified as compared to main", Mode{Kind: ModeGitDiffFrom, Ref: "main"}.String())
	assert.True(t, Mode{Kind: ModeGitStaged}.UsesGit())
	assert.False(t, Mode{Kind: ModeCLI}.UsesGit())
}
