package proc

import "fmt"

// ReadError reports a failed process-table read for a single pid, typically a
// benign race from the process exiting mid-walk.
type ReadError struct {
	PID  uint32
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("unable to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// StaleError reports a resolved working directory that no longer exists by
// the time it would be returned.
type StaleError struct {
	PID  uint32
	Path string
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("%s does not exist anymore (pid %d)", e.Path, e.PID)
}
