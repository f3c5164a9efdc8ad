package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/kernel"
	"github.com/spf13/cobra"
)

func newDemoCmd() *cobra.Command {
	var (
		yields      int
		fairnessCSV string
		outcomesCSV string
		showTrace   bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the two-family Beatty/DAG demo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if yields > 0 {
				cfg.Demo.Yields = yields
			}

			sys, err := kernel.New(cfg, logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := sys.SetupDemo(out); err != nil {
				return err
			}

			fmt.Fprintln(out, "beatty_dag demo start")
			if err := sys.Run(context.Background(), cfg.Demo.Yields, nil); err != nil {
				return err
			}
			fmt.Fprintln(out, "beatty_dag demo done")

			if showTrace {
				printEvents(out, sys.Recorder.Snapshot(0), sys.Name)
			}
			fmt.Fprintf(out, "beatty jain index %.6f over %d switches\n",
				sys.Fairness.Jain(), sys.Fairness.Total())
			if fairnessCSV != "" {
				if err := writeCSV(fairnessCSV, sys.Fairness.WriteCSV); err != nil {
					return err
				}
			}
			if outcomesCSV != "" {
				return writeCSV(outcomesCSV, sys.Outcomes.WriteCSV)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&yields, "yields", "n", 0, "Number of dispatches (default from config)")
	cmd.Flags().StringVar(&fairnessCSV, "fairness-csv", "", "Write Beatty visit shares to this CSV file")
	cmd.Flags().StringVar(&outcomesCSV, "outcomes-csv", "", "Write per-scheduler yield outcomes to this CSV file")
	cmd.Flags().BoolVar(&showTrace, "trace", false, "Print every gated yield")
	return cmd
}

func writeCSV(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
