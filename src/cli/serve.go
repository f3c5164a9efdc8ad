package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/kernel"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/trace"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		addr     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo continuously and serve its trace over QUIC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %s", interval)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Trace.Addr = addr
			}

			sys, err := kernel.New(cfg, logger)
			if err != nil {
				return err
			}
			if err := sys.SetupDemo(cmd.OutOrStdout()); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			server := trace.NewServer(cfg.Trace.Addr, sys.Recorder, logger)
			if err := server.Listen(); err != nil {
				return err
			}
			cmd.Printf("serving trace on %s\n", server.Addr())

			done := make(chan error, 1)
			go func() { done <- server.Serve(ctx) }()

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			runErr := sys.Run(ctx, 0, func() {
				select {
				case <-ticker.C:
				case <-ctx.Done():
				}
			})
			stop()
			if err := <-done; err != nil {
				return err
			}
			if runErr == context.Canceled {
				return nil
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Trace listen address (default from config)")
	cmd.Flags().DurationVar(&interval, "interval", 500*time.Millisecond, "Delay between dispatches")
	return cmd
}
