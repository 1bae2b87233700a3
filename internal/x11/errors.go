package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// ConnectionError reports a failed connection attempt to the X server.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("unable to open X11 connection: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ConfigurationError reports a default screen number the server's setup does
// not actually have.
type ConfigurationError struct {
	Screen int
	Count  int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("default screen %d is out of range (server has %d screens)", e.Screen, e.Count)
}

// ProtocolError reports a property exchange that failed or produced a reply
// the protocol does not allow. At most one of Err and Reason is set: Err
// carries a transport failure, Reason describes a malformed reply.
type ProtocolError struct {
	Property string
	Window   xproto.Window
	Reason   string
	Err      error
}

func (e *ProtocolError) Error() string {
	msg := fmt.Sprintf("unable to retrieve %s", e.Property)
	if e.Window != windowNone {
		msg = fmt.Sprintf("%s from window %d", msg, e.Window)
	}
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	case e.Reason != "":
		return fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	return msg
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// NoFocusError reports that no window currently holds focus.
type NoFocusError struct{}

func (e *NoFocusError) Error() string {
	return "no window is focused"
}

// StateError reports a focused window whose WM_STATE is not Normal, meaning
// it is withdrawn or iconified rather than visible.
type StateError struct {
	Window xproto.Window
	State  uint32
}

func (e *StateError) Error() string {
	return fmt.Sprintf("focused window %d is not in normal (visible) state (%d != %d)", e.Window, e.State, StateNormal)
}

// UnimplementedError reports a focused window that carries no _NET_WM_PID.
// Locating the owning process by its WM_CLASS name would need a scan of the
// whole process table, which this tool does not do.
type UnimplementedError struct {
	Class string
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("focused window has no _NET_WM_PID and resolving class %q is not implemented", e.Class)
}
