package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/rae-holcomb/tess-scheduling/internal/api"
	"github.com/rae-holcomb/tess-scheduling/internal/auth"
	"github.com/rae-holcomb/tess-scheduling/internal/cliconfig"
	"github.com/rae-holcomb/tess-scheduling/internal/metrics"
	"github.com/rae-holcomb/tess-scheduling/internal/pointing"
	"github.com/rae-holcomb/tess-scheduling/internal/results"
	"github.com/rae-holcomb/tess-scheduling/web"
)

func newServeCmd(cfg *cliconfig.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schedule analysis HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cfg.Logger()

			store := pointing.NewStore()
			if err := pointing.Reload(cfg.PointingPath, store, logger); err != nil {
				return fmt.Errorf("loading pointing table: %w", err)
			}
			metrics.SetSectorCount(store.Get().Table.Len())

			targets, err := loadTargets(cfg, logger)
			if err != nil {
				return err
			}
			metrics.SetTargetCount(len(targets))
			if len(targets) > 0 {
				logger.Info("target list loaded", "count", len(targets))
			}

			var resultsStore *results.Store
			if cfg.DBPath != "" {
				resultsStore, err = results.Open(cmd.Context(), cfg.DBPath)
				if err != nil {
					return fmt.Errorf("opening result database: %w", err)
				}
				defer resultsStore.Close()
			}

			authCfg := auth.Config{Enabled: cfg.AuthToken != "", Token: cfg.AuthToken}
			srv := api.NewServer(
				api.Config{Addr: cfg.Addr, TrustProxy: cfg.TrustProxy},
				logger, authCfg, store, targets, resultsStore, web.Content,
			)

			ctx := cmd.Context()

			if cfg.Watch {
				go func() {
					if err := pointing.Watch(ctx, cfg.PointingPath, store, logger); err != nil {
						logger.Error("pointing table watcher stopped", "error", err)
					}
				}()
			}

			// Keep the table-age gauge current.
			go func() {
				ticker := time.NewTicker(10 * time.Second)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if age := store.AgeSeconds(); age >= 0 {
							metrics.SetTableAge(age)
						}
						if snap := store.Get(); snap != nil {
							metrics.SetSectorCount(snap.Table.Len())
						}
					case <-ctx.Done():
						return
					}
				}
			}()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting server",
					"addr", cfg.Addr, "auth_enabled", authCfg.Enabled, "watch", cfg.Watch)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("server listen error: %w", err)
			case <-ctx.Done():
			}
			logger.Info("shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown error: %w", err)
			}

			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	cmd.Flags().StringVar(&cfg.AuthToken, "auth-token", cfg.AuthToken, "bearer token for the API (empty disables auth)")
	cmd.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload the pointing table when the file changes")
	cmd.Flags().BoolVar(&cfg.TrustProxy, "trust-proxy", cfg.TrustProxy, "honor X-Forwarded-For in request logs")
	cmd.Flags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database of recorded sweeps to expose")

	return cmd
}
