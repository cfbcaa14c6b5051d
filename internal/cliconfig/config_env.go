package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (HOULOG_*).
// HOULOG_HOST_INSTALL takes priority over HFS. Flags that were set
// explicitly (changed map) are left alone.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("bridge-url", os.Getenv("HOULOG_BRIDGE_URL"), &cfg.BridgeURL)
	s.setString("node-path", os.Getenv("HOULOG_NODE_PATH"), &cfg.NodePath)
	s.setString("node-name", os.Getenv("HOULOG_NODE_NAME"), &cfg.NodeName)
	s.setString("host-install", os.Getenv(HostInstallEnv), &cfg.HostInstall)
	s.setString("host-install", os.Getenv("HOULOG_HOST_INSTALL"), &cfg.HostInstall)
	s.setString("output", os.Getenv("HOULOG_OUTPUT"), &cfg.Output)
	s.setString("non-finite", os.Getenv("HOULOG_NON_FINITE"), &cfg.NonFinite)
	s.setString("log-level", os.Getenv("HOULOG_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("timeout", os.Getenv("HOULOG_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv("HOULOG_DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}

	return s.setBoolFromString("clear-on-send", os.Getenv("HOULOG_CLEAR_ON_SEND"), &cfg.ClearOnSend)
}
