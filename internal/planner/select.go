package planner

import (
	"path"

	"github.com/Cyclone1070/precious/internal/command"
)

// Counts are the distinct files and directories in a filtered path set.
type Counts struct {
	Files int
	Dirs  int
}

// Count counts distinct files and their distinct parent directories.
// Top-level files share the root as their directory.
func Count(files []string) Counts {
	fileSet := make(map[string]struct{}, len(files))
	dirSet := make(map[string]struct{})
	for _, f := range files {
		fileSet[f] = struct{}{}
		dirSet[dirOf(f)] = struct{}{}
	}
	return Counts{Files: len(fileSet), Dirs: len(dirSet)}
}

// Select resolves an invoke to the concrete strategy used for files.
// Concrete modes are returned unchanged. Adaptive modes pick the coarser
// strategy when the count is at most the threshold.
func Select(inv command.Invoke, files []string) command.InvokeMode {
	switch inv.Mode {
	case command.InvokePerFileOrDir:
		if Count(files).Dirs <= inv.Threshold {
			return command.InvokePerDir
		}
		return command.InvokePerFile
	case command.InvokePerFileOrOnce:
		if Count(files).Files <= inv.Threshold {
			return command.InvokeOnce
		}
		return command.InvokePerFile
	case command.InvokePerDirOrOnce:
		if Count(files).Dirs <= inv.Threshold {
			return command.InvokeOnce
		}
		return command.InvokePerDir
	default:
		return inv.Mode
	}
}

// dirOf returns the slash-separated parent of a project-relative file, with
// the root written as "".
func dirOf(file string) string {
	d := path.Dir(file)
	if d == "." || d == "/" {
		return ""
	}
	return d
}
