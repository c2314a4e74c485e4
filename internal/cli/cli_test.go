package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyclone1070/precious/internal/finder"
)

const testConfig = `
[commands.has-ok]
type = "lint"
include = "*.txt"
cmd = ["grep", "-q", "ok"]
ok-exit-codes = 0
lint-failure-exit-codes = 1

[commands.stamp]
type = "tidy"
include = "*.txt"
cmd = ["sh", "-c", "printf ok > \"$0\""]
ok-exit-codes = 0
labels = ["fix"]
`

type testApp struct {
	*App
	root   string
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestApp(t *testing.T, files map[string]string) *testApp {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses sh and grep")
	}
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	}

	var stdout, stderr bytes.Buffer
	app := NewApp(&stdout, &stderr)
	app.getwd = func() (string, error) { return root, nil }
	app.getenv = func(string) string { return "" }
	return &testApp{App: app, root: root, stdout: &stdout, stderr: &stderr}
}

func (a *testApp) run(args ...string) int {
	return a.Run(context.Background(), append(args, "--no-color", "--ascii"))
}

func TestLintPasses(t *testing.T) {
	app := newTestApp(t, map[string]string{"precious.toml": testConfig, "a.txt": "ok\n"})

	code := app.run("lint", "--all")

	assert.Equal(t, 0, code, app.stderr.String())
	assert.Contains(t, app.stdout.String(), ": Linting all files in the project\n")
	assert.Contains(t, app.stdout.String(), "| Passed has-ok: a.txt\n")
}

func TestUnknownKeysAreWarnedAbout(t *testing.T) {
	cfg := strings.Replace(testConfig, "lint-failure-exit-codes = 1\n", "lint-failure-exit-codes = 1\nlint-falgs = \"--check\"\n", 1)
	app := newTestApp(t, map[string]string{"precious.toml": cfg, "a.txt": "ok\n"})

	code := app.run("lint", "--all")

	assert.Equal(t, 0, code, app.stderr.String())
	assert.Contains(t, app.stderr.String(), "ignoring unknown keys")
	assert.Contains(t, app.stderr.String(), "lint-falgs")
}

func TestLintFails(t *testing.T) {
	app := newTestApp(t, map[string]string{"precious.toml": testConfig, "a.txt": "ok\n", "b.txt": "nope\n"})

	code := app.run("lint", "--all")

	assert.Equal(t, 1, code, app.stderr.String())
	out := app.stdout.String()
	assert.Contains(t, out, "| Passed has-ok: a.txt\n")
	assert.Contains(t, out, "* Failed has-ok: b.txt\n")
	assert.Contains(t, out, "Error when linting files:\n  * [commands.has-ok] failed for [b.txt]\n")
}

func TestLintExplicitPaths(t *testing.T) {
	app := newTestApp(t, map[string]string{"precious.toml": testConfig, "a.txt": "ok\n", "b.txt": "nope\n"})

	code := app.run("lint", "a.txt")

	assert.Equal(t, 0, code, app.stderr.String())
	assert.Contains(t, app.stdout.String(), ": Linting paths passed on the command line (recursively)\n")
	assert.NotContains(t, app.stdout.String(), "b.txt")
}

func TestTidyWithAlias(t *testing.T) {
	app := newTestApp(t, map[string]string{"precious.toml": testConfig, "a.txt": "ok", "b.txt": "nope\n"})

	code := app.run("fix", "--all", "--label", "fix")

	assert.Equal(t, 0, code, app.stderr.String())
	out := app.stdout.String()
	assert.Contains(t, out, "| Unchanged by stamp: a.txt\n")
	assert.Contains(t, out, "* Tidied by stamp:    b.txt\n")

	content, err := os.ReadFile(filepath.Join(app.root, "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ok", string(content))
}

func TestNoFilesFromGit(t *testing.T) {
	app := newTestApp(t, map[string]string{"precious.toml": testConfig, "a.txt": "ok\n"})
	repo, err := git.PlainInit(app.root, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("a.txt")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	code := app.run("lint", "--git")

	assert.Equal(t, 0, code, app.stderr.String())
	assert.Contains(t, app.stdout.String(), "_ No files found\n")
}

func TestFatalErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		args    []string
		wantErr string
	}{
		{
			name:    "unknown command name",
			files:   map[string]string{"precious.toml": testConfig, "a.txt": "ok\n"},
			args:    []string{"lint", "--all", "--command", "nope"},
			wantErr: "no linting commands match the given command name, nope",
		},
		{
			name:    "unknown label",
			files:   map[string]string{"precious.toml": testConfig, "a.txt": "ok\n"},
			args:    []string{"lint", "--all", "--label", "slow"},
			wantErr: "no linting commands match the given label, slow",
		},
		{
			name:    "no mode",
			files:   map[string]string{"precious.toml": testConfig},
			args:    []string{"lint"},
			wantErr: errNoMode.Error(),
		},
		{
			name:    "two modes",
			files:   map[string]string{"precious.toml": testConfig},
			args:    []string{"lint", "--all", "--git"},
			wantErr: errTooManyModes.Error(),
		},
		{
			name:    "missing path",
			files:   map[string]string{"precious.toml": testConfig},
			args:    []string{"lint", "missing.txt"},
			wantErr: "path passed on the command line does not exist: missing.txt",
		},
		{
			name:    "zero jobs",
			files:   map[string]string{"precious.toml": testConfig},
			args:    []string{"lint", "--all", "--jobs", "0"},
			wantErr: "jobs must be >= 1",
		},
		{
			name:    "broken config file",
			files:   map[string]string{"precious.toml": "[commands.x\n"},
			args:    []string{"lint", "--all"},
			wantErr: "cannot be read",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, tt.files)
			code := app.run(tt.args...)
			assert.Equal(t, FatalExitCode, code)
			assert.Contains(t, app.stderr.String(), tt.wantErr)
		})
	}
}

func TestConfigList(t *testing.T) {
	app := newTestApp(t, map[string]string{"precious.toml": testConfig})

	code := app.run("config", "list")

	assert.Equal(t, 0, code, app.stderr.String())
	out := app.stdout.String()
	assert.Contains(t, out, "Found config file at: "+filepath.Join(app.root, "precious.toml"))
	assert.Contains(t, out, "grep -q ok")
	assert.Contains(t, out, "stamp")
}

func TestModeFlags(t *testing.T) {
	tests := []struct {
		name  string
		flags modeFlags
		paths []string
		want  finder.Mode
		err   error
	}{
		{"paths", modeFlags{}, []string{"a"}, finder.Mode{Kind: finder.ModeCLI}, nil},
		{"all", modeFlags{all: true}, nil, finder.Mode{Kind: finder.ModeAll}, nil},
		{"git", modeFlags{git: true}, nil, finder.Mode{Kind: finder.ModeGitModified}, nil},
		{"staged", modeFlags{staged: true}, nil, finder.Mode{Kind: finder.ModeGitStaged}, nil},
		{"diff from", modeFlags{gitDiffFrom: "main"}, nil, finder.Mode{Kind: finder.ModeGitDiffFrom, Ref: "main"}, nil},
		{"flag and paths", modeFlags{staged: true}, []string{"a"}, finder.Mode{Kind: finder.ModeGitStaged}, nil},
		{"nothing", modeFlags{}, nil, finder.Mode{}, errNoMode},
		{"too many", modeFlags{all: true, staged: true}, nil, finder.Mode{}, errTooManyModes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.flags.mode(tt.paths)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
