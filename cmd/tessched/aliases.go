package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rae-holcomb/tess-scheduling/internal/alias"
	"github.com/rae-holcomb/tess-scheduling/internal/catalog"
	"github.com/rae-holcomb/tess-scheduling/internal/cliconfig"
	"github.com/rae-holcomb/tess-scheduling/internal/pointing"
	"github.com/rae-holcomb/tess-scheduling/internal/strategy"
	"github.com/rae-holcomb/tess-scheduling/internal/transit"
)

func newAliasesCmd(cfg *cliconfig.Config) *cobra.Command {
	var (
		period        float64
		epoch         float64
		aliasList     string
		repeatList    string
		targetSectors string
		matchMode     string
	)

	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "Check which alias periods an extended-mission strategy rules out",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cfg.Logger()
			table, err := loadTable(cfg, logger)
			if err != nil {
				return err
			}

			periods, err := parseFloatList(aliasList)
			if err != nil {
				return fmt.Errorf("--alias: %w", err)
			}
			if len(periods) == 0 {
				return fmt.Errorf("--alias requires at least one candidate period")
			}

			repeats, err := parseIntList(repeatList)
			if err != nil {
				return fmt.Errorf("--repeat: %w", err)
			}
			strat := strategy.Strategy{Repeats: repeats}

			tgtSectors, err := parseIntList(targetSectors)
			if err != nil {
				return fmt.Errorf("--target-sectors: %w", err)
			}

			realized, err := realizeExtension(table, strat, tgtSectors, matchMode)
			if err != nil {
				return err
			}

			set, err := alias.NewSet(epoch, periods)
			if err != nil {
				return err
			}

			halfWindow := effectiveHalfWindow(table, cfg.Window)

			truth := transit.Signal{Period: period, Epoch: epoch}
			ruled, err := alias.Resolve(truth, set, realized, halfWindow)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, c := range set.Candidates {
				status := "alive"
				if c.RuledOut {
					status = "ruled out"
				}
				fmt.Fprintf(out, "P=%-10.6g %s\n", c.Period, status)
			}
			fmt.Fprintf(out, "%d newly ruled out, %d remaining of %d\n", ruled, set.Remaining(), len(set.Candidates))
			return nil
		},
	}

	cmd.Flags().Float64Var(&period, "period", 0, "true orbital period in days (required)")
	cmd.Flags().Float64Var(&epoch, "epoch", 0, "shared reference transit epoch in mission days")
	cmd.Flags().StringVar(&aliasList, "alias", "", "comma-separated candidate alias periods (required)")
	cmd.Flags().StringVar(&repeatList, "repeat", "", "extension as repeated base sectors, e.g. 1-13 or 1,3,5")
	cmd.Flags().StringVar(&targetSectors, "target-sectors", "", "sectors the target was confirmed in; filters the extension")
	cmd.Flags().StringVar(&matchMode, "match", "field", "pointing match granularity: field or hemisphere")
	cmd.MarkFlagRequired("period")
	cmd.MarkFlagRequired("alias")

	return cmd
}

// realizeExtension expands the strategy against the base table, filtered to
// the target's confirmed sectors when given.
func realizeExtension(table pointing.Table, strat strategy.Strategy, tgtSectors []int, matchMode string) ([]pointing.Sector, error) {
	if len(tgtSectors) == 0 {
		return strategy.Extend(table, strat)
	}
	match := strategy.MatchField
	if matchMode == "hemisphere" {
		match = strategy.MatchHemisphere
	}
	return strategy.Apply(table, strat, catalog.Target{Sectors: tgtSectors}, match)
}
