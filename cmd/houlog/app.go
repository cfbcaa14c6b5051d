package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/houlog/internal/cliconfig"
	"github.com/bft-labs/houlog/pkg/houlog"
	"github.com/bft-labs/houlog/pkg/log"
	"github.com/bft-labs/houlog/pkg/sink"
)

// app carries resolved configuration between cobra hooks.
type app struct {
	cfg     cliconfig.Config
	cfgPath string

	zl     zerolog.Logger
	logger log.Logger
}

// setup resolves configuration with precedence flags > env > file > defaults.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfgFile := a.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&a.cfg, fc, changed); err != nil {
			return err
		}
	} else if a.cfgPath != "" {
		return fmt.Errorf("config file %s not found", a.cfgPath)
	}

	if err := cliconfig.ApplyEnvConfig(&a.cfg, changed); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	level, _ := cliconfig.ParseLevel(a.cfg.LogLevel)
	a.zl = cliconfig.Logger().Level(level)
	a.logger = log.NewZerologAdapterWithLogger(a.zl)

	a.zl.Debug().Interface("config", a.cfg).Msg("configuration")
	return nil
}

// sink returns a FileSink when an output path is configured, otherwise an
// HTTPSink pointed at the bridge.
func (a *app) sink() sink.Sink {
	if a.cfg.Output != "" {
		return sink.NewFileSink(a.cfg.Output, a.logger)
	}
	client := &http.Client{Timeout: a.cfg.HTTPTimeout}
	return sink.NewHTTPSink(a.cfg.BridgeURL, client, a.logger)
}

func (a *app) session() (*houlog.Session, error) {
	return houlog.New(a.cfg.SessionConfig(), a.sink(), houlog.WithLogger(a.logger))
}

// closeSession closes s and reports the final flush error unless err is
// already set.
func closeSession(ctx context.Context, s *houlog.Session, err error) error {
	if cerr := s.Close(ctx); cerr != nil && err == nil {
		return cerr
	}
	return err
}
