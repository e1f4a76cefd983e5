package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/intake/internal/cli"
	"github.com/aretw0/intake/internal/presentation/tui"
	httpAdapter "github.com/aretw0/intake/pkg/adapters/http"
	"github.com/aretw0/intake/pkg/adapters/loam"
	"github.com/aretw0/intake/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the intake engine over the configured store and exposes the JSON API
described by /openapi.yaml. With --seed, drafts from the directory are saved
into the store before serving.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		backend, err := cli.OpenBackend(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer func() {
			if err := backend.Close(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("Failed to close store", "err", err)
			}
		}()

		metrics := observability.NewMetrics()
		engine, err := cli.NewEngine(ctx, cfg, backend, logger, metrics)
		if err != nil {
			return err
		}

		if seed, _ := cmd.Flags().GetBool("seed"); seed {
			loader, err := loam.Open(cfg.Dir)
			if err != nil {
				return fmt.Errorf("error opening %s: %w", cfg.Dir, err)
			}
			ids, err := cli.Seed(ctx, loader, engine)
			if err != nil {
				return err
			}
			logger.Info("Seeded drafts", "dir", cfg.Dir, "count", len(ids))
		}

		handler, err := httpAdapter.NewHandler(engine,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetricsHandler(metrics.Handler()),
		)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting intake server", "addr", srv.Addr, "store", backend.Name)
			serverErrors <- srv.ListenAndServe()
		}()

		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			tui.PrintBanner(cmd.ErrOrStderr())
		}

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("Start shutdown")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("Intake server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("seed", false, "Save the drafts of --dir into the store before serving")
	serveCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
