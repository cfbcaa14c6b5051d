package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	BridgeURL   string `toml:"bridge_url"`
	NodePath    string `toml:"node_path"`
	NodeName    string `toml:"node_name"`
	HostInstall string `toml:"host_install"`
	Output      string `toml:"output"`
	HTTPTimeout string `toml:"http_timeout"`
	Debounce    string `toml:"debounce"`
	ClearOnSend *bool  `toml:"clear_on_send"`
	NonFinite   string `toml:"non_finite"`
	LogLevel    string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.houlog/config.toml, or "" if the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".houlog", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("bridge-url", fc.BridgeURL, &cfg.BridgeURL)
	s.setString("node-path", fc.NodePath, &cfg.NodePath)
	s.setString("node-name", fc.NodeName, &cfg.NodeName)
	s.setString("host-install", fc.HostInstall, &cfg.HostInstall)
	s.setString("output", fc.Output, &cfg.Output)
	s.setString("non-finite", fc.NonFinite, &cfg.NonFinite)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("debounce", fc.Debounce, &cfg.Debounce); err != nil {
		return err
	}

	s.setBool("clear-on-send", fc.ClearOnSend, &cfg.ClearOnSend)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
