package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/checktree"
	"github.com/aretw0/checktree/internal/cli"
	"github.com/aretw0/checktree/internal/presentation/tui"
	httpAdapter "github.com/aretw0/checktree/pkg/adapters/http"
	"github.com/aretw0/checktree/pkg/observability"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Serve the pack tree over HTTP",
	Long: `Exposes the tree as a JSON API described by /openapi.yaml, with Prometheus
metrics on /metrics. Pointer and key events can be posted to /events.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		metrics := observability.NewMetrics()
		b, closeStore, logger, err := openBrowser(sigCtx, cmd, args, false, checktree.WithHooks(metrics.Hooks()))
		if err != nil {
			return err
		}
		defer closeStore()

		cfg, _ := loadConfig(cmd, args)
		addr := cfg.HTTPAddr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		handler, err := httpAdapter.NewHandler(b,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(metrics.Handler()),
		)
		if err != nil {
			return err
		}

		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			changes, err := b.Watch(sigCtx)
			if err != nil {
				return fmt.Errorf("failed to watch %s: %w", cfg.Dir, err)
			}
			go func() {
				for path := range changes {
					logger.Debug("pack changed", "path", path)
					if err := b.Reload(sigCtx, b.Filter()); err != nil {
						logger.Error("reload failed", "error", err)
					}
				}
			}()
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			if f, ok := cmd.OutOrStdout().(*os.File); ok && cli.IsTerminal(f) {
				tui.PrintBanner(cmd.OutOrStdout(), checktree.Version)
			}
			logger.Info("serving pack tree", "address", srv.Addr, "dir", cfg.Dir, "session", cfg.Session)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-sigCtx.Done():
			logger.Info("shutting down", "signal", sigCtx.Signal())

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
				return srv.Close()
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload the packs when the directory changes")
}
