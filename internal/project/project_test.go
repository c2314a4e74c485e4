package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProject(t *testing.T, exclude ...string) *Project {
	t.Helper()
	p, err := New(t.TempDir(), exclude)
	require.NoError(t, err)
	return p
}

func TestNew(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, err := New(filepath.Join(t.TempDir(), "nope"), nil)
		var re *RootError
		assert.ErrorAs(t, err, &re)
	})

	t.Run("root is a file", func(t *testing.T) {
		f := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(f, nil, 0o644))
		_, err := New(f, nil)
		assert.ErrorIs(t, err, ErrNotADirectory)
	})

	t.Run("root is canonical", func(t *testing.T) {
		p := newProject(t)
		assert.True(t, filepath.IsAbs(p.Root()))
		resolved, err := filepath.EvalSymlinks(p.Root())
		require.NoError(t, err)
		assert.Equal(t, resolved, p.Root())
	})
}

func TestExcluded(t *testing.T) {
	p := newProject(t, "target/**", "*.lock")

	tests := []struct {
		path     string
		excluded bool
	}{
		{".git/config", true},
		{"sub/.hg/store", true},
		{".svn", true},
		{"target/debug/app", true},
		{"Cargo.lock", true},
		{"src/main.rs", false},
		{".github/workflows/ci.yml", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.excluded, p.Excluded(tt.path, false))
		})
	}
	assert.Equal(t, []string{"target/**", "*.lock"}, p.Exclude())
}

func TestAbsAndRel(t *testing.T) {
	p := newProject(t)
	root := p.Root()

	tests := []struct {
		name    string
		input   string
		abs     string
		rel     string
		outside bool
	}{
		{name: "relative", input: "src/main.go", abs: filepath.Join(root, "src", "main.go"), rel: "src/main.go"},
		{name: "absolute inside", input: filepath.Join(root, "a.txt"), abs: filepath.Join(root, "a.txt"), rel: "a.txt"},
		{name: "dots", input: "src/../src/x", abs: filepath.Join(root, "src", "x"), rel: "src/x"},
		{name: "root", input: ".", abs: root, rel: "."},
		{name: "escape", input: "../../etc/passwd", outside: true},
		{name: "absolute outside", input: "/etc/passwd", outside: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			abs, err := p.Abs(tt.input)
			if tt.outside {
				assert.ErrorIs(t, err, ErrOutsideRoot)
				_, err = p.Rel(tt.input)
				assert.ErrorIs(t, err, ErrOutsideRoot)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.abs, abs)

			rel, err := p.Rel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.rel, rel)
		})
	}
}
