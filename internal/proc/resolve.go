package proc

import (
	"log/slog"
	"os"
)

// DefaultMaxDepth caps the recursive descent. True cycles should not occur in
// the process table, but its depth is not something worth trusting.
const DefaultMaxDepth = 32

// Source is the process-table surface the resolver walks. *Table implements
// it against /proc; tests substitute a fixture.
type Source interface {
	Exe(pid uint32) (string, error)
	Cwd(pid uint32) (string, error)
	Children(pid uint32) ([]uint32, error)
}

// Resolver walks the process tree below a root pid and picks the single most
// relevant working directory, using the priority list to break ties between
// an ancestor and its descendants.
type Resolver struct {
	source   Source
	priority []string
	logger   *slog.Logger
	maxDepth int
	exists   func(string) bool
}

// NewResolver creates a resolver over source. priority entries may be full
// executable paths or bare command names.
func NewResolver(source Source, priority []string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		source:   source,
		priority: priority,
		logger:   logger,
		maxDepth: DefaultMaxDepth,
		exists:   pathExists,
	}
}

// SetMaxDepth overrides the descent cap. Values below 1 are ignored.
func (r *Resolver) SetMaxDepth(depth int) {
	if depth >= 1 {
		r.maxDepth = depth
	}
}

// Resolve resolves the working directory for the tree rooted at pid. Only a
// failure on the root pid itself surfaces as an error; failures further down
// are absorbed by falling back to the nearest resolved ancestor.
func (r *Resolver) Resolve(pid uint32) (Cwd, error) {
	return r.resolve(pid, 0)
}

func (r *Resolver) resolve(pid uint32, depth int) (Cwd, error) {
	exe, err := r.source.Exe(pid)
	if err != nil {
		return Cwd{}, err
	}
	dir, err := r.source.Cwd(pid)
	if err != nil {
		return Cwd{}, err
	}
	own := Classify(dir, exe, r.priority)

	if depth >= r.maxDepth {
		r.logger.Warn("process tree exceeds descent cap, stopping here",
			"pid", pid, "depth", depth)
		return r.ownResult(pid, own)
	}

	children, err := r.source.Children(pid)
	if err != nil {
		r.logger.Debug("unable to list children, using this process",
			"pid", pid, "error", err)
		return r.ownResult(pid, own)
	}
	if len(children) == 0 {
		return r.ownResult(pid, own)
	}

	resolved := make([]Cwd, 0, len(children))
	resolvedPids := make([]uint32, 0, len(children))
	for _, child := range children {
		cwd, err := r.resolve(child, depth+1)
		if err != nil {
			// The child exited or its directory vanished mid-walk.
			r.logger.Debug("dropping child from consideration",
				"pid", pid, "child", child, "error", err)
			continue
		}
		resolved = append(resolved, cwd)
		resolvedPids = append(resolvedPids, child)
	}

	idx, ok := preferChild(resolved)
	if !ok {
		return r.ownResult(pid, own)
	}
	if len(children) > 1 {
		r.logger.Info("process has multiple children",
			"pid", pid, "children", len(children), "following", resolvedPids[idx])
	}
	return merge(own, resolved[idx], r.exists), nil
}

// ownResult returns a node's own directory. Every path where a node's own Cwd
// is selected passes through here, so existence is re-verified consistently:
// a process may have exited (taking a tmpfs directory with it) mid-walk.
func (r *Resolver) ownResult(pid uint32, own Cwd) (Cwd, error) {
	if r.exists(own.Path) {
		return own, nil
	}
	return Cwd{}, &StaleError{PID: pid, Path: own.Path}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
