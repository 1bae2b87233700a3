package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Config is the effective focuscwd configuration.
type Config struct {
	// PriorityCommands is the default priority list applied when the command
	// line supplies none. Entries may be full executable paths or bare
	// command names.
	PriorityCommands []string `yaml:"priority_commands,omitempty"`

	// Display and XAuthority override the environment when connecting to X11.
	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`

	// FallbackDir replaces the home directory as the degraded-default output.
	FallbackDir string `yaml:"fallback_dir,omitempty"`

	// MaxDepth caps the process-tree descent.
	MaxDepth int `yaml:"max_depth,omitempty"`

	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// LoggingConfig controls resolver diagnostics on stderr.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
}

// DefaultMaxDepth mirrors the resolver's own default descent cap.
const DefaultMaxDepth = 32

// DefaultConfig returns the built-in defaults used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		MaxDepth: DefaultMaxDepth,
		Logging:  LoggingConfig{Level: "warn"},
	}
}

// Validate checks the configuration for values the resolver cannot work with.
func (c *Config) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be at least 1, got %d", c.MaxDepth)
	}
	if c.FallbackDir != "" && !filepath.IsAbs(c.FallbackDir) {
		return fmt.Errorf("fallback_dir must be an absolute path, got %q", c.FallbackDir)
	}
	for i, entry := range c.PriorityCommands {
		if strings.TrimSpace(entry) == "" {
			return fmt.Errorf("priority_commands[%d] is empty", i)
		}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}

// SlogLevel maps the configured logging level onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
