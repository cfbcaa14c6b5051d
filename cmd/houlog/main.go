package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bft-labs/houlog/internal/cliconfig"
)

const helpDescription = `
Record per-frame 3D debugging data and inspect it in a host application's
live session.

Highlights:
  - Pushes recordings to the live-session bridge or writes them to disk.
  - Watches a recording file and republishes it whenever it changes.
  - Configure via file ($HOME/.houlog/config.toml), HOULOG_* env, or flags.
`

var exampleUsage = strings.TrimSpace(`
  houlog send run.json
  houlog watch --debounce 500ms out/run.json
  houlog demo --frames 200 --output /tmp/demo.json
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	log := cliconfig.Logger()

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("houlog")
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Each call gets its own config so tests
// can run commands side by side.
func newRootCmd() *cobra.Command {
	return rootCmd(&app{cfg: cliconfig.DefaultConfig()})
}

func rootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:               "houlog",
		Short:             "Frame-buffered 3D debug logging for live host sessions",
		Long:              strings.TrimSpace(helpDescription),
		Example:           exampleUsage,
		Version:           fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	cfg := &a.cfg
	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgPath, "config", "", "path to config file (default: $HOME/.houlog/config.toml)")
	flags.StringVar(&cfg.BridgeURL, "bridge-url", cfg.BridgeURL, "live-session bridge URL")
	flags.StringVar(&cfg.NodePath, "node-path", cfg.NodePath, "parent node of the recording in the host scene")
	flags.StringVar(&cfg.NodeName, "node-name", cfg.NodeName, "name of the recording node")
	flags.StringVar(&cfg.HostInstall, "host-install", cfg.HostInstall, "host application install location (default: $"+cliconfig.HostInstallEnv+")")
	flags.StringVar(&cfg.Output, "output", cfg.Output, "write the recording to this file instead of the bridge")
	flags.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout per push")
	flags.DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "delay before republishing a changed recording")
	flags.BoolVar(&cfg.ClearOnSend, "clear-on-send", cfg.ClearOnSend, "drop frames after each successful push")
	flags.StringVar(&cfg.NonFinite, "non-finite", cfg.NonFinite, "NaN/Inf handling: fail or null")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	root.AddCommand(
		newSendCmd(a),
		newWatchCmd(a),
		newDemoCmd(a),
	)
	return root
}
