package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rae-holcomb/tess-scheduling/internal/cliconfig"
	"github.com/rae-holcomb/tess-scheduling/internal/transit"
)

func newCoverageCmd(cfg *cliconfig.Config) *cobra.Command {
	var (
		period float64
		epoch  float64
		phase  float64
	)

	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Report which sectors observe a transit of the given signal",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cfg.Logger()
			table, err := loadTable(cfg, logger)
			if err != nil {
				return err
			}

			var sig transit.Signal
			if cmd.Flags().Changed("epoch") {
				sig = transit.Signal{Period: period, Epoch: epoch}
			} else {
				start, _ := table.Span()
				sig = transit.SignalAtPhase(period, phase, start)
			}

			covered, err := transit.Coverage(sig, table, cfg.Window)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			n := 0
			for i, c := range covered {
				s := table.At(i)
				mark := " "
				if c {
					mark = "*"
					n++
				}
				fmt.Fprintf(out, "%s sector %3d  midpoint %10.4f\n", mark, s.Index, s.Midpoint)
			}
			fmt.Fprintf(out, "covered %d of %d sectors (P=%.6g d, tc=%.6g)\n", n, table.Len(), sig.Period, sig.Epoch)
			return nil
		},
	}

	cmd.Flags().Float64Var(&period, "period", 0, "orbital period in days (required)")
	cmd.Flags().Float64Var(&epoch, "epoch", 0, "reference transit epoch in mission days")
	cmd.Flags().Float64Var(&phase, "phase", 0, "fractional phase in [0,1), used when --epoch is absent")
	cmd.MarkFlagRequired("period")

	return cmd
}
