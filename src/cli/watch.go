package cli

import (
	"context"
	"time"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/trace"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		addr    string
		limit   int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Fetch the newest gated yields from a trace server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				addr = cfg.Trace.Addr
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			events, err := trace.Fetch(ctx, addr, limit)
			if err != nil {
				return err
			}
			printEvents(cmd.OutOrStdout(), events, nil)
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Trace server address (default from config)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of events to fetch, 0 for all")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Give up after this long")
	return cmd
}
