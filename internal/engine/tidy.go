package engine

import (
	"crypto/sha256"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

type fileState struct {
	size    int64
	modTime time.Time
	sum     [sha256.Size]byte
}

// snapshot records size, mtime and content hash of the files a tidy
// invocation is about to touch.
type snapshot struct {
	files map[string]fileState
}

func takeSnapshot(root string, files []string) (*snapshot, error) {
	s := &snapshot{files: make(map[string]fileState, len(files))}
	for _, f := range files {
		abs := filepath.Join(root, filepath.FromSlash(f))
		st, err := stateOf(abs)
		if err != nil {
			return nil, err
		}
		s.files[abs] = st
	}
	return s, nil
}

// changed compares the current state of every snapshotted file. A file
// whose mtime is unchanged is assumed unchanged; otherwise size and then
// content decide.
func (s *snapshot) changed() (bool, error) {
	for abs, prev := range s.files {
		info, err := os.Stat(abs)
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		if info.ModTime().Equal(prev.modTime) {
			continue
		}
		if info.Size() != prev.size {
			return true, nil
		}
		cur, err := stateOf(abs)
		if err != nil {
			return false, err
		}
		if cur.sum != prev.sum {
			return true, nil
		}
	}
	return false, nil
}

func stateOf(abs string) (fileState, error) {
	f, err := os.Open(abs)
	if err != nil {
		return fileState{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fileState{}, err
	}
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fileState{}, err
	}
	st := fileState{size: info.Size(), modTime: info.ModTime()}
	copy(st.sum[:], h.Sum(nil))
	return st, nil
}
