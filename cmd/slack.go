package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aide-assistant/aide/internal/config"
	"github.com/aide-assistant/aide/internal/instrumentation"
	"github.com/aide-assistant/aide/internal/slackbot"
)

func newSlackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slack",
		Short: "Run the Slack Socket Mode bot",
		Long: `Connect to Slack over Socket Mode and answer mentions, direct messages
and the /assistant slash command. Requires SLACK_BOT_TOKEN (xoxb-...)
and SLACK_APP_TOKEN (xapp-...) to be set.

When AIDE_METRICS_ENABLED is true a Prometheus endpoint is served on
AIDE_METRICS_ADDR (default :9090).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.RequireSlack(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := newLogger()

			var metrics *instrumentation.Metrics
			if cfg.MetricsEnabled {
				instrConfig := instrumentation.DefaultConfig()
				instrConfig.ServiceVersion = version

				provider, err := instrumentation.NewProvider(ctx, instrConfig)
				if err != nil {
					return fmt.Errorf("failed to create instrumentation provider: %w", err)
				}
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := provider.Shutdown(shutdownCtx); err != nil {
						logger.Error("instrumentation shutdown failed", "error", err)
					}
				}()
				metrics = provider.Metrics()

				// The HTTP endpoint only exists for the Prometheus exporter;
				// OTLP and stdout push on their own.
				if handler := provider.Handler(); handler != nil {
					mux := http.NewServeMux()
					mux.Handle("/metrics", handler)
					metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
					go func() {
						logger.Info("metrics server listening", "addr", cfg.MetricsAddr)
						if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
							logger.Error("metrics server failed", "error", err)
						}
					}()
					defer func() {
						shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
						defer cancel()
						_ = metricsServer.Shutdown(shutdownCtx)
					}()
				}
			}

			assistant, err := buildAssistant(ctx, cfg, logger, metrics)
			if err != nil {
				return err
			}

			bot := slackbot.New(cfg.SlackBotToken, cfg.SlackAppToken, assistant, logger, metrics)

			logger.Info("starting Slack bot", "model", cfg.AnthropicModel)
			if err := bot.Run(ctx); err != nil && ctx.Err() == nil {
				return fmt.Errorf("slack bot failed: %w", err)
			}

			logger.Info("shutdown complete")
			return nil
		},
	}

	return cmd
}
