package mocks

import (
	"context"
	"sync"

	"github.com/Cyclone1070/precious/internal/service/executor"
)

// RunnerCall records one MockRunner.Run call.
type RunnerCall struct {
	Argv []string
	Dir  string
	Env  []string
}

// MockRunner records every command it is asked to run. RunFunc decides the
// result; a nil RunFunc succeeds with no output.
type MockRunner struct {
	mu      sync.Mutex
	Calls   []RunnerCall
	RunFunc func(argv []string, dir string) (*executor.Result, error)
}

func (m *MockRunner) Run(_ context.Context, argv []string, dir string, env []string) (*executor.Result, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, RunnerCall{Argv: argv, Dir: dir, Env: env})
	m.mu.Unlock()
	if m.RunFunc == nil {
		return &executor.Result{}, nil
	}
	return m.RunFunc(argv, dir)
}
