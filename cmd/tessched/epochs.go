package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rae-holcomb/tess-scheduling/internal/cliconfig"
	"github.com/rae-holcomb/tess-scheduling/internal/transit"
)

func newEpochsCmd(cfg *cliconfig.Config) *cobra.Command {
	var (
		period float64
		epoch  float64
		phase  float64
		start  float64
		stop   float64
	)

	cmd := &cobra.Command{
		Use:   "epochs",
		Short: "Print the transit epochs of a signal within a time window",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				epochs []float64
				err    error
			)
			if cmd.Flags().Changed("epoch") {
				epochs, err = transit.Epochs(period, epoch, start, stop)
			} else {
				epochs, err = transit.EpochsAtPhase(period, phase, start, stop)
			}
			if err != nil {
				return err
			}

			for _, t := range epochs {
				fmt.Fprintf(cmd.OutOrStdout(), "%.6f\n", t)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&period, "period", 0, "orbital period in days (required)")
	cmd.Flags().Float64Var(&epoch, "epoch", 0, "reference transit epoch in mission days")
	cmd.Flags().Float64Var(&phase, "phase", 0, "fractional phase in [0,1), used when --epoch is absent")
	cmd.Flags().Float64Var(&start, "start", 0, "window start in mission days")
	cmd.Flags().Float64Var(&stop, "stop", 0, "window stop in mission days (exclusive)")
	cmd.MarkFlagRequired("period")
	cmd.MarkFlagRequired("stop")

	return cmd
}
