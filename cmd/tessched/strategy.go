package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rae-holcomb/tess-scheduling/internal/cliconfig"
	"github.com/rae-holcomb/tess-scheduling/internal/pointing"
	"github.com/rae-holcomb/tess-scheduling/internal/strategy"
)

func newStrategyCmd(cfg *cliconfig.Config) *cobra.Command {
	var (
		repeats    string
		tic        int64
		sectors    string
		matchMode  string
		showTiming bool
		exportDir  string
	)

	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Realize an extended-mission repeat strategy for a target",
		Long: "Expands a list of repeated base sectors into the extension sectors a\n" +
			"target would actually be observed in, either requiring the exact base\n" +
			"field to repeat or only a matching ecliptic hemisphere.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cfg.Logger()
			table, err := loadTable(cfg, logger)
			if err != nil {
				return err
			}

			reps, err := parseIntList(repeats)
			if err != nil {
				return fmt.Errorf("parsing --repeat: %w", err)
			}
			strat := strategy.Strategy{Repeats: reps}

			var tgtSectors []int
			if sectors != "" {
				tgtSectors, err = parseIntList(sectors)
				if err != nil {
					return fmt.Errorf("parsing --target-sectors: %w", err)
				}
			} else if tic != 0 {
				targets, err := loadTargets(cfg, logger)
				if err != nil {
					return err
				}
				found := false
				for _, t := range targets {
					if t.TIC == tic {
						tgtSectors = t.Sectors
						found = true
						break
					}
				}
				if !found {
					return fmt.Errorf("TIC %d not found in %s", tic, cfg.TargetsPath)
				}
			}

			ext, err := realizeExtension(table, strat, tgtSectors, matchMode)
			if err != nil {
				return err
			}

			if exportDir != "" {
				extended, err := table.Extend(ext)
				if err != nil {
					return fmt.Errorf("building extended table: %w", err)
				}
				exp := pointing.NewExporter(exportDir, cfg.ExportMax)
				path, err := exp.Write(extended, time.Now())
				if err != nil {
					return fmt.Errorf("writing extended table snapshot: %w", err)
				}
				logger.Info("extended table saved", "path", path, "sectors", extended.Len())
			}

			out := cmd.OutOrStdout()
			if len(ext) == 0 {
				fmt.Fprintln(out, "no extension sectors observe the target")
				return nil
			}
			for _, s := range ext {
				if showTiming {
					fmt.Fprintf(out, "sector %3d  repeats %3d  start %10.4f  end %10.4f\n",
						s.Index, s.RepeatOf, s.Start, s.End)
				} else {
					fmt.Fprintf(out, "sector %3d  repeats %3d\n", s.Index, s.RepeatOf)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repeats, "repeat", "", "base sectors to repeat, e.g. 1-13 or 1,3,5 (required)")
	cmd.Flags().Int64Var(&tic, "tic", 0, "TIC ID to look up in the target list")
	cmd.Flags().StringVar(&sectors, "target-sectors", "", "base sectors the target was observed in (overrides --tic)")
	cmd.Flags().StringVar(&matchMode, "match", "field", "pointing match granularity: field or hemisphere")
	cmd.Flags().BoolVar(&showTiming, "timing", false, "also print each extension sector's start and end")
	cmd.Flags().StringVar(&exportDir, "export", "", "save the base+extension table as a snapshot in this directory")
	cmd.MarkFlagRequired("repeat")

	return cmd
}
