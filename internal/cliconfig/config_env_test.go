package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"HOULOG_BRIDGE_URL":    "http://env:9090",
				"HOULOG_NODE_PATH":     "/obj/env",
				"HOULOG_NODE_NAME":     "env-node",
				"HOULOG_OUTPUT":        "/tmp/env.json",
				"HOULOG_HTTP_TIMEOUT":  "2s",
				"HOULOG_DEBOUNCE":      "50ms",
				"HOULOG_CLEAR_ON_SEND": "1",
				"HOULOG_NON_FINITE":    "null",
				"HOULOG_LOG_LEVEL":     "warn",
				"HFS":                  "/opt/hfs",
			},
			changed: map[string]bool{},
			expected: Config{
				BridgeURL:   "http://env:9090",
				NodePath:    "/obj/env",
				NodeName:    "env-node",
				HostInstall: "/opt/hfs",
				Output:      "/tmp/env.json",
				HTTPTimeout: 2 * time.Second,
				Debounce:    50 * time.Millisecond,
				ClearOnSend: true,
				NonFinite:   "null",
				LogLevel:    "warn",
			},
		},
		{
			name: "HOULOG_HOST_INSTALL overrides HFS",
			envVars: map[string]string{
				"HFS":                 "/opt/hfs",
				"HOULOG_HOST_INSTALL": "/custom/hfs",
			},
			changed:  map[string]bool{},
			expected: Config{HostInstall: "/custom/hfs"},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"HOULOG_NODE_PATH": "/obj/env",
				"HOULOG_NODE_NAME": "env-node",
			},
			changed:  map[string]bool{"node-path": true},
			initial:  Config{NodePath: "/obj/flag"},
			expected: Config{NodePath: "/obj/flag", NodeName: "env-node"},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"HOULOG_HTTP_TIMEOUT": "not-a-duration"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid bool",
			envVars: map[string]string{"HOULOG_CLEAR_ON_SEND": "maybe"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:     "handles bool 'false' as false",
			envVars:  map[string]string{"HOULOG_CLEAR_ON_SEND": "false"},
			changed:  map[string]bool{},
			initial:  Config{ClearOnSend: true},
			expected: Config{ClearOnSend: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Isolate from the developer's own environment.
			t.Setenv("HFS", "")
			t.Setenv("HOULOG_HOST_INSTALL", "")
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("config = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File)
func TestConfigPrecedence(t *testing.T) {
	trueVal := true

	fileConf := FileConfig{
		NodePath:    "/obj/file",
		NodeName:    "file-node",
		ClearOnSend: &trueVal,
	}

	t.Setenv("HOULOG_NODE_PATH", "/obj/env")
	t.Setenv("HOULOG_NODE_NAME", "env-node")
	t.Setenv("HOULOG_BRIDGE_URL", "http://env:1")

	changed := map[string]bool{
		"node-path": true,
	}

	cfg := Config{
		NodePath: "/obj/cli",
	}

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.NodePath != "/obj/cli" {
		t.Errorf("NodePath = %v, want /obj/cli (CLI should win)", cfg.NodePath)
	}
	if cfg.NodeName != "env-node" {
		t.Errorf("NodeName = %v, want env-node (env should override file)", cfg.NodeName)
	}
	if cfg.BridgeURL != "http://env:1" {
		t.Errorf("BridgeURL = %v, want http://env:1 (env should set)", cfg.BridgeURL)
	}
	if !cfg.ClearOnSend {
		t.Error("ClearOnSend = false, want true (file should set)")
	}
}
