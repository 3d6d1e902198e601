package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rae-holcomb/tess-scheduling/internal/cliconfig"
	"github.com/rae-holcomb/tess-scheduling/internal/pointing"
)

func newFetchCmd(cfg *cliconfig.Config) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the published pointing table",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cfg.Logger()
			fetcher := pointing.NewFetcher(cfg.PointingURL)

			logger.Info("fetching pointing table", "url", fetcher.SourceURL())
			data, err := fetcher.Fetch(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching pointing table: %w", err)
			}

			// Parse before writing so a malformed download never clobbers
			// an existing table.
			table, err := pointing.Parse(bytes.NewReader(data), logger)
			if err != nil {
				return fmt.Errorf("downloaded table: %w", err)
			}

			if out == "" {
				out = cfg.PointingPath
			}
			if out == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}

			logger.Info("pointing table saved", "path", out, "sectors", table.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output path (default: --pointing, or stdout)")
	cmd.Flags().StringVar(&cfg.PointingURL, "url", cfg.PointingURL, "override the pointing table source URL")

	return cmd
}
