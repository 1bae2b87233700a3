package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RawConfig is the file-level shape. Pointer fields distinguish "not set"
// from zero values so file entries override defaults selectively.
type RawConfig struct {
	PriorityCommands *[]string   `yaml:"priority_commands,omitempty"`
	Display          *string     `yaml:"display,omitempty"`
	XAuthority       *string     `yaml:"xauthority,omitempty"`
	FallbackDir      *string     `yaml:"fallback_dir,omitempty"`
	MaxDepth         *int        `yaml:"max_depth,omitempty"`
	Logging          *RawLogging `yaml:"logging,omitempty"`
}

type RawLogging struct {
	Level *string `yaml:"level,omitempty"`
}

// DefaultConfigPath returns ~/.config/focuscwd/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "focuscwd", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from path. A missing file yields the
// defaults; an unreadable or invalid one is an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	exists, err := pathExists(path)
	if err != nil {
		return nil, err
	}
	if exists {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read: %w", path, err)
		}
		var raw RawConfig
		if err := decodeStrictYAML(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		raw.apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r RawConfig) apply(cfg *Config) {
	if r.PriorityCommands != nil {
		cfg.PriorityCommands = *r.PriorityCommands
	}
	if r.Display != nil {
		cfg.Display = *r.Display
	}
	if r.XAuthority != nil {
		cfg.XAuthority = *r.XAuthority
	}
	if r.FallbackDir != nil {
		cfg.FallbackDir = *r.FallbackDir
	}
	if r.MaxDepth != nil {
		cfg.MaxDepth = *r.MaxDepth
	}
	if r.Logging != nil && r.Logging.Level != nil {
		cfg.Logging.Level = *r.Logging.Level
	}
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
