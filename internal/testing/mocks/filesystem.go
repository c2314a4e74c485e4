package mocks

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MockFileInfo implements fs.FileInfo
type MockFileInfo struct {
	NameVal  string
	SizeVal  int64
	IsDirVal bool
}

func (f *MockFileInfo) Name() string       { return f.NameVal }
func (f *MockFileInfo) Size() int64        { return f.SizeVal }
func (f *MockFileInfo) ModTime() time.Time { return time.Time{} }
func (f *MockFileInfo) IsDir() bool        { return f.IsDirVal }
func (f *MockFileInfo) Sys() any           { return nil }

func (f *MockFileInfo) Mode() fs.FileMode {
	if f.IsDirVal {
		return fs.ModeDir | 0o755
	}
	return 0o644
}

// MockFileSystem is an in-memory file system for config loading tests.
// Files maps absolute paths to contents; Dirs marks directories.
type MockFileSystem struct {
	Mu    sync.Mutex
	Files map[string][]byte
	Dirs  map[string]bool
	// OpErrors forces an operation ("Stat" or "ReadFile") to fail.
	OpErrors map[string]error
}

// NewMockFileSystem creates an empty MockFileSystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files:    make(map[string][]byte),
		Dirs:     make(map[string]bool),
		OpErrors: make(map[string]error),
	}
}

// WithFile adds a file and returns the receiver.
func (m *MockFileSystem) WithFile(path string, content []byte) *MockFileSystem {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Files == nil {
		m.Files = make(map[string][]byte)
	}
	m.Files[path] = content
	return m
}

// WithDir adds a directory and returns the receiver.
func (m *MockFileSystem) WithDir(path string) *MockFileSystem {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Dirs == nil {
		m.Dirs = make(map[string]bool)
	}
	m.Dirs[path] = true
	return m
}

func (m *MockFileSystem) Stat(path string) (fs.FileInfo, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if err, ok := m.OpErrors["Stat"]; ok {
		return nil, err
	}
	if data, ok := m.Files[path]; ok {
		return &MockFileInfo{NameVal: filepath.Base(path), SizeVal: int64(len(data))}, nil
	}
	if m.Dirs[path] {
		return &MockFileInfo{NameVal: filepath.Base(path), IsDirVal: true}, nil
	}
	return nil, os.ErrNotExist
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if err, ok := m.OpErrors["ReadFile"]; ok {
		return nil, err
	}
	data, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}
