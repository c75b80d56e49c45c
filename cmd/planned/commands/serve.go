package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coreassistant/planned/internal/logger"
	"github.com/coreassistant/planned/internal/planner"
	"github.com/coreassistant/planned/internal/server"
	"github.com/coreassistant/planned/internal/telemetry"
)

// NewServeCmd creates the serve command: expose the agenda over HTTP
// until interrupted.
func NewServeCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the agenda over HTTP",
		Long:  "Start an HTTP server exposing the agenda as plain text and JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, clk, log, err := bootstrap(debug)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync(log) }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.OTELEnabled {
				if cfg.OTELEndpoint == "" {
					log.Warn("otel_enabled_but_endpoint_not_configured")
				} else {
					tp, err := telemetry.InitTracer(ctx, "planned", cfg.OTELEndpoint)
					if err != nil {
						log.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
					} else {
						log.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
						defer func() {
							shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
							defer cancel()
							if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
								log.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
							}
						}()
					}
				}
			}

			p, err := planner.New(ctx, cfg, clk, log)
			if err != nil {
				return err
			}
			return server.New(cfg, log, p).Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	return cmd
}
