package executor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Result represents the outcome of a command execution. A non-zero exit
// code is not an error; callers classify it.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Signaled is set when the process was killed by a signal. ExitCode is
	// -1 in that case.
	Signaled bool
	// State is the process state description, e.g. "signal: killed".
	State    string
	Duration time.Duration
}

// OSCommandExecutor runs commands as subprocesses using os/exec.
type OSCommandExecutor struct {
	lookPath func(string) (string, error)
	getenv   func(string) string
}

// NewOSCommandExecutor creates an executor that resolves executables on the
// process PATH.
func NewOSCommandExecutor() *OSCommandExecutor {
	return &OSCommandExecutor{lookPath: exec.LookPath, getenv: os.Getenv}
}

// Run executes command in dir with env as its full environment, capturing
// stdout and stderr separately and in full. The returned error is non-nil
// only when the process could not be found, started, or waited on.
func (f *OSCommandExecutor) Run(ctx context.Context, command []string, dir string, env []string) (*Result, error) {
	if len(command) == 0 {
		return nil, os.ErrInvalid
	}

	if err := f.checkExecutable(command[0], dir); err != nil {
		return nil, &CommandError{Cmd: command[0], Cause: err, Stage: "lookup"}
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdin = nil

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &CommandError{Cmd: command[0], Cause: err, Stage: "start"}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, &CommandError{Cmd: command[0], Cause: err, Stage: "start"}
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Cmd: command[0], Cause: err, Stage: "start"}
	}

	stdoutStr, stderrStr := collectOutput(stdoutPipe, stderrPipe)

	waitErr := cmd.Wait()
	res := &Result{
		Stdout:   stdoutStr,
		Stderr:   stderrStr,
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
		res.State = cmd.ProcessState.String()
		res.Signaled = !cmd.ProcessState.Exited()
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, &CommandError{Cmd: command[0], Cause: ctxErr, Stage: "execution"}
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return res, &CommandError{Cmd: command[0], Cause: waitErr, Stage: "execution"}
		}
	}
	return res, nil
}

// checkExecutable fails early with a NotFoundError instead of a start error.
// Bare names are searched on PATH; paths with a separator are resolved
// against dir like the subprocess itself would.
func (f *OSCommandExecutor) checkExecutable(exe, dir string) error {
	if !strings.ContainsRune(exe, '/') && !strings.ContainsRune(exe, filepath.Separator) {
		if _, err := f.lookPath(exe); err != nil {
			return &NotFoundError{Exe: exe, Path: f.getenv("PATH")}
		}
		return nil
	}

	p := exe
	if !filepath.IsAbs(p) && dir != "" {
		p = filepath.Join(dir, p)
	}
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return &NotFoundError{Exe: exe, Path: f.getenv("PATH")}
	}
	return nil
}

func collectOutput(stdout, stderr io.Reader) (string, string) {
	var stdoutBuf, stderrBuf bytes.Buffer

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		_, _ = io.Copy(&stdoutBuf, stdout)
	}()

	go func() {
		defer wg.Done()
		_, _ = io.Copy(&stderrBuf, stderr)
	}()

	wg.Wait()

	return stdoutBuf.String(), stderrBuf.String()
}

// Environ layers overlay on top of base. Overlay keys are appended in
// sorted order so the result is stable; later entries win.
func Environ(base []string, overlay map[string]string) []string {
	env := make([]string, 0, len(base)+len(overlay))
	env = append(env, base...)

	keys := make([]string, 0, len(overlay))
	for k := range overlay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+overlay[k])
	}
	return env
}
