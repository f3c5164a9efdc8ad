// Package cli implements the exosched command line.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/config"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/model"
	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagVerbose bool

	logger *log.Logger
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "exosched",
		Short: "Capability-gated cooperative scheduler",
		Long: "exosched runs a Beatty scheduler chained with a DAG scheduler, " +
			"where every context switch goes through a capability check.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			out := io.Discard
			if flagVerbose {
				out = os.Stderr
			}
			logger = log.New(out, "", log.LstdFlags|log.Lmicroseconds)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log scheduler activity to stderr")

	root.AddCommand(
		newDemoCmd(),
		newServeCmd(),
		newWatchCmd(),
	)
	return root
}

func loadConfig() (config.Config, error) {
	if flagConfig == "" {
		return config.Default(), nil
	}
	return config.Load(flagConfig)
}

// printEvents writes one line per event. name maps resource ids to
// spawn names; nil prints the raw id.
func printEvents(w io.Writer, events []model.SwitchEvent, name func(uint32) string) {
	for _, ev := range events {
		who := fmt.Sprintf("resource-%d", ev.Resource)
		if name != nil && ev.Resource != 0 {
			who = name(ev.Resource)
		}
		fmt.Fprintf(w, "%6d %-7s %-12s %-19s %s\n",
			ev.Seq, ev.Scheduler, ev.Handle, ev.Outcome, who)
	}
}
