package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bft-labs/houlog/internal/watch"
	"github.com/bft-labs/houlog/pkg/recording"
)

func newSendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send <document>",
		Short: "Push a recording document once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			rec, err := watch.Load(args[0])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}

			s, err := a.session()
			if err != nil {
				return err
			}
			defer func() { err = closeSession(cmd.Context(), s, err) }()

			return s.Replace(rec)
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <document>",
		Short: "Republish a recording document whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s, err := a.session()
			if err != nil {
				return err
			}

			wcfg := watch.DefaultConfig()
			wcfg.DebounceDelay = a.cfg.Debounce
			w := watch.New(args[0], func(ctx context.Context, rec *recording.Recording) error {
				if err := s.Replace(rec); err != nil {
					return err
				}
				return s.Flush(ctx)
			}, wcfg, a.logger)

			err = w.Run(ctx)
			a.zl.Info().Msg("stopping")

			// The signal context is done by now; give the final flush a
			// fresh one.
			return closeSession(context.WithoutCancel(ctx), s, err)
		},
	}
}
