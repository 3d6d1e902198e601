package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/rae-holcomb/tess-scheduling/internal/cliconfig"
)

var longHelp = strings.TrimSpace(`
Simulate how a sector-based survey schedule affects detectability of
periodic transit signals, and how extended-mission pointing strategies
resolve period aliases.

All times are mission days (TJD = JD - 2457000.0); periods are days.
`)

var exampleUsage = strings.TrimSpace(`
  tessched epochs --period 10 --phase 0 --start 0 --stop 120
  tessched coverage --pointing pointings.csv --period 8.14 --epoch 1327.52
  tessched aliases --pointing pointings.csv --period 27.9 --epoch 1400 --alias 13.95,9.3 --repeat 1-13
  tessched sweep --pointing pointings.csv --periods 1:30:0.5 --phases 20 --db results.db
  tessched serve --pointing pointings.csv --addr :8080 --watch
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:     "tessched",
		Short:   "Sector-schedule transit detectability and alias analysis",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Config precedence: defaults < file < env < flags.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
			cmd.Root().PersistentFlags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			return cfg.Validate()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.tessched/config.toml)")
	pf.StringVar(&cfg.PointingPath, "pointing", cfg.PointingPath, "spacecraft pointing table file")
	pf.StringVar(&cfg.TargetsPath, "targets", cfg.TargetsPath, "target observation-sector assignments CSV")
	pf.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "stellar catalog CSV")
	pf.Float64Var(&cfg.Window, "window", cfg.Window, "coverage half-window in days (0 = half the mean sector spacing)")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(
		newEpochsCmd(&cfg),
		newCoverageCmd(&cfg),
		newAliasesCmd(&cfg),
		newStrategyCmd(&cfg),
		newSweepCmd(&cfg),
		newFetchCmd(&cfg),
		newServeCmd(&cfg),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "tessched:", err)
		os.Exit(1)
	}
}
