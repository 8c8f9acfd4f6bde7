package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the full notemill configuration.
type Config struct {
	Listen   string       `yaml:"listen"`
	DBPath   string       `yaml:"db_path"`
	LogLevel string       `yaml:"log_level"`
	Remote   RemoteConfig `yaml:"remote"`
	Auth     AuthConfig   `yaml:"auth"`
	MCP      MCPConfig    `yaml:"mcp"`
}

// RemoteConfig points at a remote note-storage service. When URL is empty
// the local SQLite store is used instead.
type RemoteConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

// AuthConfig enables HTTP basic auth when User is set.
type AuthConfig struct {
	User           string `yaml:"user"`
	PasswordBcrypt string `yaml:"password_bcrypt"`
}

// MCPConfig selects the MCP transport.
type MCPConfig struct {
	Stdio bool `yaml:"stdio"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:   ":8084",
		DBPath:   "notemill.db",
		LogLevel: "info",
	}
}

// LoadConfig reads and parses a YAML config file. Returns DefaultConfig
// merged with the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.Remote.URL == "" && c.DBPath == "" {
		return fmt.Errorf("either db_path or remote.url is required")
	}
	if !c.MCP.Stdio && c.Listen == "" {
		return fmt.Errorf("listen is required unless mcp.stdio is enabled")
	}
	if c.Auth.User != "" && c.Auth.PasswordBcrypt == "" {
		return fmt.Errorf("auth.password_bcrypt is required when auth.user is set")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log_level %q (use debug, info, warn or error)", c.LogLevel)
	}
	return nil
}
