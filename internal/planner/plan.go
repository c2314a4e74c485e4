package planner

import (
	"errors"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Cyclone1070/precious/internal/command"
)

type scope struct {
	base  string
	files []string
}

type group struct {
	dir   string
	files []string
}

// Plan splits the filtered, project-relative files of cmd into invocations
// for action. root must be the absolute project root. It returns the
// concrete strategy that was used, which differs from the configured invoke
// only for adaptive modes. An empty file list yields no invocations.
func Plan(cmd *command.Command, root string, files []string, action command.Action) ([]*Invocation, command.InvokeMode, error) {
	policy := cmd.Policy()
	if err := policy.Validate(); err != nil {
		var ve *command.ValidationError
		if errors.As(err, &ve) {
			ve.Command = cmd.Name()
		}
		return nil, 0, err
	}

	scs := scopes(policy.WorkingDir, normalize(files))
	strategy := Select(policy.Invoke, scopedFiles(scs))
	if len(scs) == 0 {
		return nil, strategy, nil
	}

	base := cmd.Argv(action, root)
	env := cmd.Env(root)

	var invocations []*Invocation
	for _, sc := range scs {
		for _, g := range groups(strategy, sc.files) {
			dir := workingDir(policy.WorkingDir, root, sc.base, g.dir)
			args := pathArgs(policy.PathArgs, root, dir, g.files)

			argv := append([]string{}, base...)
			for _, p := range args {
				if cmd.PathFlag() != "" {
					argv = append(argv, cmd.PathFlag())
				}
				argv = append(argv, p)
			}

			invocations = append(invocations, &Invocation{
				Argv:     argv,
				Dir:      dir,
				Env:      copyEnv(env),
				Files:    g.files,
				PathArgs: args,
				Strategy: strategy,
				baseLen:  len(base),
			})
		}
	}
	return invocations, strategy, nil
}

// Matched returns the files a command with working dir wd runs on. Only
// sub-roots narrow the set: files under no sub-root are never matched.
func Matched(wd command.WorkingDir, files []string) []string {
	return scopedFiles(scopes(wd, normalize(files)))
}

// scopes partitions files by sub-root. Without sub-roots there is a single
// scope holding every file. A file under nested sub-roots belongs to the
// deepest one only; files under no sub-root are dropped. Scopes keep the
// order the sub-roots were declared in and empty ones are left out.
func scopes(wd command.WorkingDir, files []string) []scope {
	if wd.Mode != command.WorkingDirSubRoots {
		if len(files) == 0 {
			return nil
		}
		return []scope{{files: files}}
	}

	var bases []string
	seen := make(map[string]bool, len(wd.SubRoots))
	for _, sr := range wd.SubRoots {
		base := path.Clean(filepath.ToSlash(sr))
		if base == "." {
			base = ""
		}
		if !seen[base] {
			seen[base] = true
			bases = append(bases, base)
		}
	}

	byBase := make(map[string][]string, len(bases))
	for _, f := range files {
		best, found := "", false
		for _, b := range bases {
			if !within(f, b) {
				continue
			}
			if !found || len(b) > len(best) {
				best, found = b, true
			}
		}
		if found {
			byBase[best] = append(byBase[best], f)
		}
	}

	var out []scope
	for _, b := range bases {
		if in := byBase[b]; len(in) > 0 {
			out = append(out, scope{base: b, files: in})
		}
	}
	return out
}

// within reports whether file lies below base. The root base "" holds
// everything.
func within(file, base string) bool {
	return base == "" || strings.HasPrefix(file, base+"/")
}

func scopedFiles(scs []scope) []string {
	var out []string
	for _, sc := range scs {
		out = append(out, sc.files...)
	}
	sort.Strings(out)
	return out
}

func groups(strategy command.InvokeMode, files []string) []group {
	switch strategy {
	case command.InvokePerFile:
		out := make([]group, 0, len(files))
		for _, f := range files {
			out = append(out, group{dir: dirOf(f), files: []string{f}})
		}
		return out
	case command.InvokePerDir:
		byDir := make(map[string][]string)
		var dirs []string
		for _, f := range files {
			d := dirOf(f)
			if _, ok := byDir[d]; !ok {
				dirs = append(dirs, d)
			}
			byDir[d] = append(byDir[d], f)
		}
		sort.Strings(dirs)
		out := make([]group, 0, len(dirs))
		for _, d := range dirs {
			out = append(out, group{dir: d, files: byDir[d]})
		}
		return out
	default:
		return []group{{files: files}}
	}
}

func workingDir(wd command.WorkingDir, root, base, groupDir string) string {
	switch wd.Mode {
	case command.WorkingDirDir:
		return joinRoot(root, groupDir)
	case command.WorkingDirSubRoots:
		return joinRoot(root, base)
	case command.WorkingDirChdirTo:
		return joinRoot(root, path.Clean(filepath.ToSlash(wd.ChdirTo)))
	default:
		return root
	}
}

func pathArgs(pa command.PathArgs, root, cwd string, files []string) []string {
	switch pa {
	case command.PathArgsFile:
		out := make([]string, 0, len(files))
		for _, f := range files {
			out = append(out, relativeTo(joinRoot(root, f), cwd))
		}
		return out
	case command.PathArgsDir:
		dirs := distinctDirs(files)
		out := make([]string, 0, len(dirs))
		for _, d := range dirs {
			out = append(out, relativeTo(joinRoot(root, d), cwd))
		}
		return out
	case command.PathArgsAbsoluteFile:
		out := make([]string, 0, len(files))
		for _, f := range files {
			out = append(out, joinRoot(root, f))
		}
		return out
	case command.PathArgsAbsoluteDir:
		dirs := distinctDirs(files)
		out := make([]string, 0, len(dirs))
		for _, d := range dirs {
			out = append(out, joinRoot(root, d))
		}
		return out
	case command.PathArgsDot:
		return []string{"."}
	default:
		return nil
	}
}

func distinctDirs(files []string) []string {
	seen := make(map[string]struct{})
	var dirs []string
	for _, f := range files {
		d := dirOf(f)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// relativeTo returns target relative to base, using "." when they are the
// same directory.
func relativeTo(target, base string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	if rel == "" {
		return "."
	}
	return rel
}

func joinRoot(root, rel string) string {
	if rel == "" || rel == "." {
		return root
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}

// normalize cleans, dedupes and sorts project-relative paths.
func normalize(files []string) []string {
	seen := make(map[string]struct{}, len(files))
	out := make([]string, 0, len(files))
	for _, f := range files {
		c := path.Clean(filepath.ToSlash(f))
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func copyEnv(env map[string]string) map[string]string {
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}
