package mcp

import (
	"context"
	"fmt"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/focuscwd/internal/config"
	"github.com/1broseidon/focuscwd/internal/proc"
	"github.com/1broseidon/focuscwd/internal/resolve"
)

const (
	ServerName    = "focuscwd"
	ServerVersion = "0.1.0"
)

// Server exposes the resolver to MCP clients over stdio.
type Server struct {
	mcpServer *mcpsdk.Server
	config    *config.Config
	logger    *slog.Logger
}

// NewServer creates the MCP server.
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{config: cfg, logger: logger}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resolve_focus",
		Description: "Resolve the working directory of the application behind the currently focused X11 window. Walks the window owner's process tree and prefers directories of priority-listed commands.",
	}, s.handleResolveFocus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resolve_pid",
		Description: "Resolve the most relevant working directory for the process tree rooted at an explicit pid, without touching the display server.",
	}, s.handleResolvePid)
}

func (s *Server) handleResolveFocus(_ context.Context, _ *mcpsdk.CallToolRequest, args ResolveFocusInput) (*mcpsdk.CallToolResult, ResolveFocusOutput, error) {
	priority := s.priorityFor(args.PriorityCommands)
	cwd, err := resolve.Focused(s.config, priority, s.logger)
	if err != nil {
		return nil, ResolveFocusOutput{}, err
	}
	return nil, ResolveFocusOutput{
		Path:     cwd.Path,
		Priority: cwd.Kind == proc.Priority,
	}, nil
}

func (s *Server) handleResolvePid(_ context.Context, _ *mcpsdk.CallToolRequest, args ResolvePidInput) (*mcpsdk.CallToolResult, ResolvePidOutput, error) {
	if args.Pid == 0 {
		return nil, ResolvePidOutput{}, fmt.Errorf("pid is required and must be positive")
	}
	priority := s.priorityFor(args.PriorityCommands)
	cwd, err := resolve.Pid(args.Pid, priority, s.config.MaxDepth, s.logger)
	if err != nil {
		return nil, ResolvePidOutput{}, err
	}
	return nil, ResolvePidOutput{
		Path:     cwd.Path,
		Priority: cwd.Kind == proc.Priority,
	}, nil
}

// priorityFor falls back to the configured priority list when the tool call
// supplies none.
func (s *Server) priorityFor(requested []string) []string {
	if len(requested) > 0 {
		return requested
	}
	return s.config.PriorityCommands
}
