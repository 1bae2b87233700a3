package proc

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

type fakeProc struct {
	exe      string
	cwd      string
	children []uint32
}

// fakeSource is an in-memory process table. Paths listed in gone are treated
// as no longer existing on disk.
type fakeSource struct {
	procs map[uint32]fakeProc
	gone  map[string]bool
}

var errNoSuchProcess = errors.New("no such process")

func (s *fakeSource) lookup(pid uint32) (fakeProc, error) {
	p, ok := s.procs[pid]
	if !ok {
		return fakeProc{}, &ReadError{PID: pid, Path: "proc", Err: errNoSuchProcess}
	}
	return p, nil
}

func (s *fakeSource) Exe(pid uint32) (string, error) {
	p, err := s.lookup(pid)
	return p.exe, err
}

func (s *fakeSource) Cwd(pid uint32) (string, error) {
	p, err := s.lookup(pid)
	return p.cwd, err
}

func (s *fakeSource) Children(pid uint32) ([]uint32, error) {
	p, err := s.lookup(pid)
	return p.children, err
}

func newTestResolver(s *fakeSource, priority []string) *Resolver {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewResolver(s, priority, logger)
	r.exists = func(path string) bool { return !s.gone[path] }
	return r
}

func TestResolve_Leaf(t *testing.T) {
	s := &fakeSource{procs: map[uint32]fakeProc{
		1: {exe: "/usr/bin/xterm", cwd: "/home/a"},
	}}
	cwd, err := newTestResolver(s, nil).Resolve(1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cwd.Path != "/home/a" || cwd.Kind != Regular {
		t.Fatalf("expected Regular /home/a, got %+v", cwd)
	}
}

func TestResolve_PriorityChildWinsRegardlessOfOrder(t *testing.T) {
	s := &fakeSource{procs: map[uint32]fakeProc{
		1: {exe: "/usr/bin/xterm", cwd: "/home", children: []uint32{2, 3}},
		2: {exe: "/usr/bin/sh", cwd: "/tmp"},
		3: {exe: "/usr/bin/vim", cwd: "/opt"},
	}}
	cwd, err := newTestResolver(s, []string{"vim"}).Resolve(1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cwd.Path != "/opt" || cwd.Kind != Priority {
		t.Fatalf("expected Priority /opt, got %+v", cwd)
	}

	// Same tree with the priority child listed first.
	s.procs[1] = fakeProc{exe: "/usr/bin/xterm", cwd: "/home", children: []uint32{3, 2}}
	cwd, err = newTestResolver(s, []string{"vim"}).Resolve(1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cwd.Path != "/opt" || cwd.Kind != Priority {
		t.Fatalf("expected Priority /opt with swapped order, got %+v", cwd)
	}
}

func TestResolve_DeepestRegularDescendantWins(t *testing.T) {
	s := &fakeSource{procs: map[uint32]fakeProc{
		1: {exe: "/usr/bin/xterm", cwd: "/home", children: []uint32{2}},
		2: {exe: "/usr/bin/sh", cwd: "/tmp"},
	}}
	cwd, err := newTestResolver(s, nil).Resolve(1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cwd.Path != "/tmp" || cwd.Kind != Regular {
		t.Fatalf("expected Regular /tmp, got %+v", cwd)
	}
}

func TestResolve_PriorityParentBeatsRegularChild(t *testing.T) {
	s := &fakeSource{procs: map[uint32]fakeProc{
		1: {exe: "/usr/bin/bash", cwd: "/home", children: []uint32{2}},
		2: {exe: "/usr/bin/sleep", cwd: "/tmp"},
	}}
	cwd, err := newTestResolver(s, []string{"bash"}).Resolve(1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cwd.Path != "/home" || cwd.Kind != Priority {
		t.Fatalf("expected Priority /home, got %+v", cwd)
	}
}

func TestResolve_VanishedPriorityParentFallsBackToChild(t *testing.T) {
	s := &fakeSource{
		procs: map[uint32]fakeProc{
			1: {exe: "/usr/bin/bash", cwd: "/home/gone", children: []uint32{2}},
			2: {exe: "/usr/bin/sleep", cwd: "/tmp"},
		},
		gone: map[string]bool{"/home/gone": true},
	}
	cwd, err := newTestResolver(s, []string{"bash"}).Resolve(1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cwd.Path != "/tmp" {
		t.Fatalf("expected child /tmp after parent cwd vanished, got %+v", cwd)
	}
}

func TestResolve_FailedChildIsDropped(t *testing.T) {
	s := &fakeSource{procs: map[uint32]fakeProc{
		1: {exe: "/usr/bin/xterm", cwd: "/home", children: []uint32{99, 2}},
		2: {exe: "/usr/bin/sh", cwd: "/tmp"},
	}}
	cwd, err := newTestResolver(s, nil).Resolve(1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cwd.Path != "/tmp" {
		t.Fatalf("expected surviving child /tmp, got %+v", cwd)
	}
}

func TestResolve_AllChildrenFailedFallsBackToOwn(t *testing.T) {
	s := &fakeSource{procs: map[uint32]fakeProc{
		1: {exe: "/usr/bin/xterm", cwd: "/home", children: []uint32{98, 99}},
	}}
	cwd, err := newTestResolver(s, nil).Resolve(1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cwd.Path != "/home" {
		t.Fatalf("expected own /home, got %+v", cwd)
	}
}

func TestResolve_RootReadFailureSurfaces(t *testing.T) {
	s := &fakeSource{procs: map[uint32]fakeProc{}}
	_, err := newTestResolver(s, nil).Resolve(1)
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected ReadError for unreadable root, got %v", err)
	}
}

func TestResolve_VanishedLeafSurfacesAtRoot(t *testing.T) {
	s := &fakeSource{
		procs: map[uint32]fakeProc{
			1: {exe: "/usr/bin/xterm", cwd: "/home/gone"},
		},
		gone: map[string]bool{"/home/gone": true},
	}
	_, err := newTestResolver(s, nil).Resolve(1)
	var staleErr *StaleError
	if !errors.As(err, &staleErr) {
		t.Fatalf("expected StaleError for vanished leaf cwd, got %v", err)
	}
}

func TestResolve_DepthCapStopsDescent(t *testing.T) {
	// A chain longer than the cap: 1 -> 2 -> 3 -> ... Each node's cwd encodes
	// its pid so the result shows where the descent stopped.
	s := &fakeSource{procs: map[uint32]fakeProc{}}
	for pid := uint32(1); pid <= 10; pid++ {
		p := fakeProc{exe: "/usr/bin/sh", cwd: "/d/10"}
		if pid < 10 {
			p.children = []uint32{pid + 1}
		}
		s.procs[pid] = p
	}
	r := newTestResolver(s, nil)
	r.SetMaxDepth(3)
	cwd, err := r.Resolve(1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// The cap keeps resolution finite; the result is still a valid directory.
	if cwd.Path != "/d/10" {
		t.Fatalf("unexpected result %+v", cwd)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	s := &fakeSource{procs: map[uint32]fakeProc{
		1: {exe: "/usr/bin/xterm", cwd: "/home", children: []uint32{2, 3}},
		2: {exe: "/usr/bin/sh", cwd: "/tmp", children: []uint32{4}},
		3: {exe: "/usr/bin/vim", cwd: "/opt"},
		4: {exe: "/usr/bin/make", cwd: "/var"},
	}}
	r := newTestResolver(s, []string{"vim"})
	first, err := r.Resolve(1)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := r.Resolve(1)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical results, got %+v then %+v", first, second)
	}
}
