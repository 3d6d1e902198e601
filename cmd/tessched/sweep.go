package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/rae-holcomb/tess-scheduling/internal/cliconfig"
	"github.com/rae-holcomb/tess-scheduling/internal/metrics"
	"github.com/rae-holcomb/tess-scheduling/internal/results"
	"github.com/rae-holcomb/tess-scheduling/internal/sweep"
)

func newSweepCmd(cfg *cliconfig.Config) *cobra.Command {
	var (
		periodSpec string
		phaseCount int
		dbPath     string
		exportDir  string
		top        int
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Evaluate sector coverage over a period x phase grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cfg.Logger()
			table, err := loadTable(cfg, logger)
			if err != nil {
				return err
			}

			pmin, pmax, pstep, err := parseGridSpec(periodSpec)
			if err != nil {
				return fmt.Errorf("parsing --periods: %w", err)
			}
			periods, err := sweep.PeriodGrid(pmin, pmax, pstep)
			if err != nil {
				return err
			}
			phases, err := sweep.PhaseGrid(phaseCount)
			if err != nil {
				return err
			}

			halfWindow := effectiveHalfWindow(table, cfg.Window)

			logger.Info("starting sweep",
				"periods", len(periods), "phases", len(phases),
				"sectors", table.Len(), "half_window", halfWindow, "workers", cfg.Workers)

			started := time.Now()
			rows, err := sweep.Run(cmd.Context(), sweep.Request{
				Table:      table,
				Periods:    periods,
				Phases:     phases,
				HalfWindow: halfWindow,
				Workers:    cfg.Workers,
			})
			if err != nil {
				return err
			}
			elapsed := time.Since(started)
			metrics.RecordSweep(elapsed, len(rows))
			logger.Info("sweep finished", "rows", len(rows), "elapsed", elapsed)

			if dbPath == "" {
				dbPath = cfg.DBPath
			}
			if dbPath != "" {
				store, err := results.Open(cmd.Context(), dbPath)
				if err != nil {
					return fmt.Errorf("opening result database: %w", err)
				}
				defer store.Close()

				id, err := store.BeginSweep(cmd.Context(), cfg.PointingPath, table.Len(), halfWindow)
				if err != nil {
					return err
				}
				if err := store.InsertRows(cmd.Context(), id, rows); err != nil {
					return err
				}
				logger.Info("sweep persisted", "db", dbPath, "sweep_id", id)
			}

			if exportDir == "" {
				exportDir = cfg.ExportDir
			}
			if exportDir != "" {
				exp := results.NewExporter(exportDir, cfg.ExportMax)
				path, err := exp.Write(rows, started)
				if err != nil {
					return fmt.Errorf("writing snapshot: %w", err)
				}
				logger.Info("snapshot written", "path", path)
			}

			printTopRows(cmd, rows, top)
			return nil
		},
	}

	cmd.Flags().StringVar(&periodSpec, "periods", "", "period grid as min:max:step in days (required)")
	cmd.Flags().IntVar(&phaseCount, "phases", 10, "number of evenly spaced phases per period")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to record results in")
	cmd.Flags().StringVar(&exportDir, "export", "", "directory for CSV snapshots")
	cmd.Flags().IntVar(&top, "top", 10, "print the N best-covered rows (0 = all)")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent evaluations (0 = GOMAXPROCS)")
	cmd.MarkFlagRequired("periods")

	return cmd
}

// printTopRows prints rows ordered by covered-sector count, best first.
func printTopRows(cmd *cobra.Command, rows []sweep.Row, top int) {
	sorted := make([]sweep.Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Covered > sorted[j].Covered })
	if top > 0 && top < len(sorted) {
		sorted = sorted[:top]
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%10s %8s %10s %8s %6s %6s %9s\n",
		"period", "phase", "epoch", "covered", "first", "last", "transits")
	for _, r := range sorted {
		if r.Err != "" {
			fmt.Fprintf(out, "%10.4f %8.4f  error: %s\n", r.Period, r.Phase, r.Err)
			continue
		}
		fmt.Fprintf(out, "%10.4f %8.4f %10.4f %8d %6d %6d %9d\n",
			r.Period, r.Phase, r.Epoch, r.Covered, r.First, r.Last, r.Transits)
	}
}
