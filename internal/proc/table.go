package proc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// maxChildEntries bounds how many child pids one children file may list. The
// file comes from the kernel, but the walk treats it as untrusted input.
const maxChildEntries = 4096

// Table is a pinned view of the process table. All reads resolve relative to
// the held directory descriptor, so the caller controls when the view is
// acquired relative to the focused-window lookup and the view survives the
// mount moving underneath it.
type Table struct {
	dir  *os.File
	root string
}

// Open pins a view of /proc.
func Open() (*Table, error) {
	return OpenPath("/proc")
}

// OpenPath pins a view of an alternate process-table root. Used by tests.
func OpenPath(path string) (*Table, error) {
	dir, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	info, err := dir.Stat()
	if err != nil {
		dir.Close()
		return nil, fmt.Errorf("unable to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		dir.Close()
		return nil, fmt.Errorf("%s is not a directory", path)
	}
	return &Table{dir: dir, root: path}, nil
}

// Close releases the pinned view.
func (t *Table) Close() error {
	if t == nil || t.dir == nil {
		return nil
	}
	err := t.dir.Close()
	t.dir = nil
	return err
}

// Exe returns the absolute path of pid's executable.
func (t *Table) Exe(pid uint32) (string, error) {
	return t.readLink(pid, "exe")
}

// Cwd returns the absolute path of pid's current working directory.
func (t *Table) Cwd(pid uint32) (string, error) {
	return t.readLink(pid, "cwd")
}

func (t *Table) readLink(pid uint32, name string) (string, error) {
	rel := filepath.Join(strconv.FormatUint(uint64(pid), 10), name)
	buf := make([]byte, unix.PathMax)
	n, err := unix.Readlinkat(int(t.dir.Fd()), rel, buf)
	if err != nil {
		return "", &ReadError{PID: pid, Path: filepath.Join(t.root, rel), Err: err}
	}
	if n >= len(buf) {
		return "", &ReadError{PID: pid, Path: filepath.Join(t.root, rel), Err: fmt.Errorf("link target exceeds %d bytes", len(buf))}
	}
	return string(buf[:n]), nil
}

// Children returns the immediate children of pid's primary thread, read from
// <pid>/task/<pid>/children. Children forked by other threads of the process
// are not discovered; that file only covers the thread-group leader.
func (t *Table) Children(pid uint32) ([]uint32, error) {
	p := strconv.FormatUint(uint64(pid), 10)
	rel := filepath.Join(p, "task", p, "children")
	path := filepath.Join(t.root, rel)
	fd, err := unix.Openat(int(t.dir.Fd()), rel, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &ReadError{PID: pid, Path: path, Err: err}
	}
	f := os.NewFile(uintptr(fd), path)
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &ReadError{PID: pid, Path: path, Err: err}
	}
	pids, err := parseChildList(string(data))
	if err != nil {
		return nil, &ReadError{PID: pid, Path: path, Err: err}
	}
	return pids, nil
}

// parseChildList parses a whitespace-separated pid list. Anything that is not
// a positive decimal pid is rejected rather than skipped.
func parseChildList(s string) ([]uint32, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}
	if len(fields) > maxChildEntries {
		return nil, fmt.Errorf("child list has %d entries (max %d)", len(fields), maxChildEntries)
	}
	pids := make([]uint32, 0, len(fields))
	for _, field := range fields {
		pid, err := strconv.ParseUint(field, 10, 32)
		if err != nil || pid == 0 {
			return nil, fmt.Errorf("malformed child pid %q", field)
		}
		pids = append(pids, uint32(pid))
	}
	return pids, nil
}
