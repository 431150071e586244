// Package config provides configuration management for the TaskForge server.
// It handles loading and persisting the YAML configuration file, which carries
// server settings alongside the GitHub credential record written by the device
// login flow.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application's configuration, loaded from a YAML file.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port int `yaml:"port"`

	// ProxyURL is the URL of an optional proxy server to use for outbound
	// requests to GitHub.
	ProxyURL string `yaml:"proxy-url,omitempty"`

	// Logging configures optional rotating file output.
	Logging LoggingConfig `yaml:"logging,omitempty"`

	// Analytics configures the product analytics emitter. Analytics stays
	// disabled until an API key is set.
	Analytics AnalyticsConfig `yaml:"analytics,omitempty"`

	// Chat configures the local coding-agent CLI used by the chat relay.
	Chat ChatConfig `yaml:"chat,omitempty"`

	// GitHub is the credential record written by a completed device login.
	GitHub GitHubConfig `yaml:"github,omitempty"`

	// GitHubLoginAcknowledged records that the user completed the GitHub
	// login step of onboarding.
	GitHubLoginAcknowledged bool `yaml:"github-login-acknowledged,omitempty"`
}

// GitHubConfig holds the persisted GitHub identity and access token.
type GitHubConfig struct {
	// Username is the GitHub login of the authenticated account, when known.
	Username string `yaml:"username,omitempty"`

	// PrimaryEmail is the account's primary email address, when known.
	PrimaryEmail string `yaml:"primary-email,omitempty"`

	// Token is the OAuth access token issued by the device grant.
	Token string `yaml:"token,omitempty"`
}

// LoggingConfig holds rotating log file settings.
type LoggingConfig struct {
	// File is the log file path. Empty disables file output.
	File string `yaml:"file,omitempty"`

	// MaxSizeMB is the size at which the log file rotates. Default 20.
	MaxSizeMB int `yaml:"max-size-mb,omitempty"`

	// MaxBackups is the number of rotated files to keep. Default 3.
	MaxBackups int `yaml:"max-backups,omitempty"`
}

// AnalyticsConfig holds product analytics settings.
type AnalyticsConfig struct {
	// Endpoint is the capture endpoint of a PostHog-compatible service.
	Endpoint string `yaml:"endpoint,omitempty"`

	// APIKey is the project API key. Empty disables analytics.
	APIKey string `yaml:"api-key,omitempty"`

	// DistinctID identifies this installation across events. Generated on
	// first use when empty.
	DistinctID string `yaml:"distinct-id,omitempty"`
}

// ChatConfig holds the coding-agent CLI settings for the chat relay.
type ChatConfig struct {
	// Command is the agent binary to invoke. Default "codex".
	Command string `yaml:"command,omitempty"`

	// Args are fixed arguments placed before the relayed message.
	Args []string `yaml:"args,omitempty"`

	// TimeoutSeconds bounds a single agent invocation. Default 120.
	TimeoutSeconds int `yaml:"timeout-seconds,omitempty"`
}

// DefaultPort is used when the config file does not set one.
const DefaultPort = 8317

// Load reads and parses the YAML configuration at path. A missing file yields
// a default configuration rather than an error, so a fresh install can start
// the server and log in before anything has been persisted.
func Load(path string) (*Config, error) {
	cfg := &Config{Port: DefaultPort}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Port <= 0 {
		cfg.Port = DefaultPort
	}
	return cfg, nil
}

// Save writes the configuration to path as YAML, creating parent directories
// as needed. The file is written 0600 because it carries the GitHub token.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
