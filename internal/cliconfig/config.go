package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/houlog/pkg/encode"
	"github.com/bft-labs/houlog/pkg/houlog"
	"github.com/bft-labs/houlog/pkg/sink"
)

// DefaultBridgeURL is the live-session bridge on the local machine.
const DefaultBridgeURL = "http://127.0.0.1:9090"

// HostInstallEnv names the variable pointing at the host application's
// install location.
const HostInstallEnv = "HFS"

// Config holds CLI configuration for houlog.
type Config struct {
	BridgeURL   string
	NodePath    string
	NodeName    string
	HostInstall string

	// Output switches from the bridge to writing files at this path.
	Output string

	HTTPTimeout time.Duration
	Debounce    time.Duration

	ClearOnSend bool
	NonFinite   string
	LogLevel    string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		BridgeURL:   DefaultBridgeURL,
		NodePath:    sink.DefaultNodePath,
		NodeName:    sink.DefaultNodeName,
		HostInstall: os.Getenv(HostInstallEnv),
		HTTPTimeout: 15 * time.Second,
		Debounce:    200 * time.Millisecond,
		NonFinite:   encode.NonFiniteFail.String(),
		LogLevel:    "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.Output == "" {
		if c.BridgeURL == "" {
			c.BridgeURL = DefaultBridgeURL
		}
		if !strings.HasPrefix(c.BridgeURL, "http://") && !strings.HasPrefix(c.BridgeURL, "https://") {
			return fmt.Errorf("bridge-url must start with http:// or https://")
		}
	}

	// Ensure no trailing slash
	c.BridgeURL = strings.TrimRight(c.BridgeURL, "/")

	if c.NodePath == "" {
		return fmt.Errorf("node-path is required")
	}
	if !strings.HasPrefix(c.NodePath, "/") {
		return fmt.Errorf("node-path must be absolute, got %q", c.NodePath)
	}
	if c.NodeName == "" {
		return fmt.Errorf("node-name is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative")
	}
	if _, err := encode.ParseNonFinitePolicy(c.NonFinite); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// SessionConfig converts c into the library session configuration.
// Call Validate first.
func (c Config) SessionConfig() houlog.Config {
	cfg := houlog.DefaultConfig()
	cfg.NodePath = c.NodePath
	cfg.NodeName = c.NodeName
	cfg.HostInstall = c.HostInstall
	if c.ClearOnSend {
		cfg.Retention = houlog.RetainClearOnSend
	}
	cfg.NonFinite, _ = encode.ParseNonFinitePolicy(c.NonFinite)
	return cfg
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a bool the way strconv.ParseBool does.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = b
	return nil
}
