package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Connection manages the X11 connection and core X resources.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection establishes a connection to the X11 server and selects the
// default screen's root window. An empty display falls back to the DISPLAY
// environment variable; authority overrides are the caller's concern.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	conn := xu.Conn()
	setup := xproto.Setup(conn)
	if conn.DefaultScreen < 0 || conn.DefaultScreen >= len(setup.Roots) {
		conn.Close()
		return nil, &ConfigurationError{Screen: conn.DefaultScreen, Count: len(setup.Roots)}
	}

	return &Connection{
		XUtil: xu,
		Root:  setup.Roots[conn.DefaultScreen].Root,
	}, nil
}

// Close cleanly disconnects from the X11 server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
