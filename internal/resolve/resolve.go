// Package resolve wires the focused-window lookup to the process-tree walk.
package resolve

import (
	"log/slog"
	"os"

	"github.com/1broseidon/focuscwd/internal/config"
	"github.com/1broseidon/focuscwd/internal/proc"
	"github.com/1broseidon/focuscwd/internal/x11"
)

// Focused resolves the working directory behind the currently focused window.
// Each call owns its X11 connection and process-table view exclusively and
// releases both before returning. The process table is pinned between the
// focused-window lookup and the pid read, which is the ordering that bounds
// the pid-reuse race.
func Focused(cfg *config.Config, priority []string, logger *slog.Logger) (proc.Cwd, error) {
	setXAuthority(cfg.XAuthority)
	conn, err := x11.NewConnection(cfg.Display)
	if err != nil {
		return proc.Cwd{}, err
	}
	defer conn.Close()

	var table *proc.Table
	focus := x11.NewFocusResolver(conn, logger)
	pid, err := focus.Resolve(func() error {
		t, err := proc.Open()
		if err != nil {
			return err
		}
		table = t
		return nil
	})
	if table != nil {
		defer table.Close()
	}
	if err != nil {
		return proc.Cwd{}, err
	}

	return walk(table, pid, priority, cfg.MaxDepth, logger)
}

// Pid resolves the working directory for an explicit process tree root,
// skipping the window lookup.
func Pid(pid uint32, priority []string, maxDepth int, logger *slog.Logger) (proc.Cwd, error) {
	table, err := proc.Open()
	if err != nil {
		return proc.Cwd{}, err
	}
	defer table.Close()

	return walk(table, pid, priority, maxDepth, logger)
}

// setXAuthority exports a configured authority file for the X connection.
// An empty value leaves the inherited environment alone.
func setXAuthority(xauthority string) {
	if xauthority != "" {
		os.Setenv("XAUTHORITY", xauthority)
	}
}

func walk(table *proc.Table, pid uint32, priority []string, maxDepth int, logger *slog.Logger) (proc.Cwd, error) {
	resolver := proc.NewResolver(table, priority, logger)
	resolver.SetMaxDepth(maxDepth)
	return resolver.Resolve(pid)
}
