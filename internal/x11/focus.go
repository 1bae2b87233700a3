package x11

import (
	"bytes"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// ICCCM WM_STATE values. 2 is reserved and unused by convention.
const (
	StateWithdrawn uint32 = 0
	StateNormal    uint32 = 1
	StateIconic    uint32 = 3
)

const (
	netActiveWindow = "_NET_ACTIVE_WINDOW"
	netWmPid        = "_NET_WM_PID"
	wmState         = "WM_STATE"
	wmClass         = "WM_CLASS"
)

// windowNone is the X11 "no window" sentinel.
const windowNone xproto.Window = 0

// wmClassLongs bounds the WM_CLASS fallback read to 64 bytes.
const wmClassLongs = 16

// protoClient abstracts the atom and property round trips so the resolution
// sequence can be exercised against canned replies.
type protoClient interface {
	InternAtom(name string) (xproto.Atom, error)
	Property(win xproto.Window, prop, typ xproto.Atom, longs uint32) (*xproto.GetPropertyReply, error)
}

type connClient struct {
	conn *xgb.Conn
}

func (c connClient) InternAtom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}

func (c connClient) Property(win xproto.Window, prop, typ xproto.Atom, longs uint32) (*xproto.GetPropertyReply, error) {
	return xproto.GetProperty(c.conn, false, win, prop, typ, 0, longs).Reply()
}

// FocusResolver resolves the pid of the process behind the currently focused,
// visible window.
type FocusResolver struct {
	root   xproto.Window
	client protoClient
	logger *slog.Logger
}

// NewFocusResolver creates a resolver over an established connection.
func NewFocusResolver(conn *Connection, logger *slog.Logger) *FocusResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &FocusResolver{
		root:   conn.Root,
		client: connClient{conn: conn.XUtil.Conn()},
		logger: logger,
	}
}

// Resolve runs the focused-window pid lookup. Every failure is terminal for
// the attempt; only an absent WM_STATE is tolerated, since many windows never
// set it.
//
// beforePid, when non-nil, runs after the focused window handle is obtained
// but before any of its properties are read. The caller uses it to pin its
// process-table view: pinning earlier risks later matching the pid against an
// unrelated process started after the view was taken, pinning later risks the
// process having already exited. Pinning in between bounds the race without
// eliminating it.
func (r *FocusResolver) Resolve(beforePid func() error) (uint32, error) {
	activeAtom, err := r.client.InternAtom(netActiveWindow)
	if err != nil {
		return 0, &ProtocolError{Property: netActiveWindow, Err: fmt.Errorf("intern: %w", err)}
	}
	pidAtom, err := r.client.InternAtom(netWmPid)
	if err != nil {
		return 0, &ProtocolError{Property: netWmPid, Err: fmt.Errorf("intern: %w", err)}
	}
	stateAtom, err := r.client.InternAtom(wmState)
	if err != nil {
		return 0, &ProtocolError{Property: wmState, Err: fmt.Errorf("intern: %w", err)}
	}

	window, err := r.activeWindow(activeAtom)
	if err != nil {
		return 0, err
	}

	if beforePid != nil {
		if err := beforePid(); err != nil {
			return 0, err
		}
	}

	if err := r.checkState(window, stateAtom); err != nil {
		return 0, err
	}

	return r.windowPid(window, pidAtom)
}

func (r *FocusResolver) activeWindow(atom xproto.Atom) (xproto.Window, error) {
	reply, err := r.client.Property(r.root, atom, xproto.AtomWindow, 1)
	if err != nil {
		return 0, &ProtocolError{Property: netActiveWindow, Window: r.root, Err: err}
	}
	if reply.ValueLen == 0 {
		return 0, &ProtocolError{Property: netActiveWindow, Window: r.root, Reason: "empty reply"}
	}
	value, err := decodeCardinal(reply)
	if err != nil {
		return 0, &ProtocolError{Property: netActiveWindow, Window: r.root, Reason: err.Error()}
	}
	window := xproto.Window(value)
	if window == windowNone {
		return 0, &NoFocusError{}
	}
	return window, nil
}

// checkState rejects focused windows that are withdrawn or iconic. WM_STATE
// has its own atom as its type.
func (r *FocusResolver) checkState(window xproto.Window, atom xproto.Atom) error {
	reply, err := r.client.Property(window, atom, atom, 1)
	if err != nil || reply.ValueLen == 0 {
		r.logger.Warn("unable to retrieve WM_STATE from focused window", "window", window)
		return nil
	}
	state, err := decodeCardinal(reply)
	if err != nil {
		return &ProtocolError{Property: wmState, Window: window, Reason: err.Error()}
	}
	if state != StateNormal {
		return &StateError{Window: window, State: state}
	}
	return nil
}

func (r *FocusResolver) windowPid(window xproto.Window, atom xproto.Atom) (uint32, error) {
	reply, err := r.client.Property(window, atom, xproto.AtomCardinal, 1)
	if err != nil {
		return 0, &ProtocolError{Property: netWmPid, Window: window, Err: err}
	}
	if reply.ValueLen == 0 {
		r.logger.Warn("focused window has no _NET_WM_PID, trying WM_CLASS", "window", window)
		return 0, r.classFallback(window)
	}
	pid, err := decodeCardinal(reply)
	if err != nil {
		return 0, &ProtocolError{Property: netWmPid, Window: window, Reason: err.Error()}
	}
	return pid, nil
}

// classFallback reads the window's class name and reports it in an
// UnimplementedError: scanning the process table for processes of that class
// is explicitly out of scope.
func (r *FocusResolver) classFallback(window xproto.Window) error {
	reply, err := r.client.Property(window, xproto.AtomWmClass, xproto.AtomString, wmClassLongs)
	if err != nil {
		return &ProtocolError{Property: wmClass, Window: window, Err: err}
	}
	class, err := decodeClass(reply.Value)
	if err != nil {
		return &ProtocolError{Property: wmClass, Window: window, Reason: err.Error()}
	}
	return &UnimplementedError{Class: class}
}

// decodeCardinal decodes a fixed-width 32-bit property reply. A reply that
// claims any count other than one value, or that carries a byte count not
// matching its claim, violates the protocol.
func decodeCardinal(reply *xproto.GetPropertyReply) (uint32, error) {
	if reply.ValueLen != 1 {
		return 0, fmt.Errorf("expected exactly 1 value, got %d", reply.ValueLen)
	}
	if len(reply.Value) != 4 {
		return 0, fmt.Errorf("expected 4 value bytes, got %d", len(reply.Value))
	}
	return xgb.Get32(reply.Value), nil
}

// decodeClass decodes the leading nul-terminated string of a WM_CLASS reply.
func decodeClass(raw []byte) (string, error) {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("class name %q is not valid UTF-8", raw)
	}
	return string(raw), nil
}
