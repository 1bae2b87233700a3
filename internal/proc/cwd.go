package proc

import "path/filepath"

// Kind tags how a working directory was classified.
type Kind int

const (
	// Regular marks a directory owned by a process outside the priority list.
	Regular Kind = iota
	// Priority marks a directory owned by a priority-listed process.
	Priority
)

func (k Kind) String() string {
	if k == Priority {
		return "priority"
	}
	return "regular"
}

// Cwd is a working directory tagged by whether its owning process matched the
// caller's priority list. The tag is assigned once at classification and is
// only compared and propagated during merges afterwards.
type Cwd struct {
	Path string
	Kind Kind
}

// Classify tags cwd as Priority when exe matches an entry of the priority
// list. Entries may name the executable by full path or by bare command name.
func Classify(cwd, exe string, priority []string) Cwd {
	for _, entry := range priority {
		if entry == exe || entry == filepath.Base(exe) {
			return Cwd{Path: cwd, Kind: Priority}
		}
	}
	return Cwd{Path: cwd, Kind: Regular}
}

// preferChild picks which resolved child result a node should merge against:
// the first Priority result when any child produced one, otherwise the first
// resolved child. Returns the index into resolved.
func preferChild(resolved []Cwd) (int, bool) {
	if len(resolved) == 0 {
		return 0, false
	}
	for i, c := range resolved {
		if c.Kind == Priority {
			return i, true
		}
	}
	return 0, true
}

// merge applies the tie-break policy between a node's own directory and its
// chosen child result:
//
//   - child Priority: child wins outright
//   - both Regular: child wins (deepest plain descendant)
//   - own Priority, child Regular: own wins, unless its path vanished, in
//     which case the child's path is still more useful to the caller
func merge(own, child Cwd, exists func(string) bool) Cwd {
	if own.Kind == Priority && child.Kind == Regular {
		if exists(own.Path) {
			return own
		}
		return child
	}
	return child
}
