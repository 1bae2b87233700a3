package mcp

// ResolveFocusInput is the input for the resolve_focus tool.
type ResolveFocusInput struct {
	PriorityCommands []string `json:"priority_commands,omitempty" jsonschema:"Executable paths or command names whose working directory should win tie-breaks (default: priority_commands from config)"`
}

// ResolveFocusOutput is the output for the resolve_focus tool.
type ResolveFocusOutput struct {
	Path     string `json:"path"`
	Priority bool   `json:"priority"`
}

// ResolvePidInput is the input for the resolve_pid tool.
type ResolvePidInput struct {
	Pid              uint32   `json:"pid" jsonschema:"required,Root pid of the process tree to inspect"`
	PriorityCommands []string `json:"priority_commands,omitempty" jsonschema:"Executable paths or command names whose working directory should win tie-breaks (default: priority_commands from config)"`
}

// ResolvePidOutput is the output for the resolve_pid tool.
type ResolvePidOutput struct {
	Path     string `json:"path"`
	Priority bool   `json:"priority"`
}
