package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleetfs/dqagent/internal/ai"
	"github.com/fleetfs/dqagent/internal/server"
	"github.com/fleetfs/dqagent/pkg/anthropic"
	"github.com/fleetfs/dqagent/pkg/metrics"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the questionnaire API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var opts []server.Option
		if cfg.Metrics.BaseURL != "" {
			opts = append(opts, server.WithMetricsClient(metrics.NewClient(
				cfg.Metrics.BaseURL,
				cfg.Metrics.Key,
				metrics.WithMaxRetries(cfg.Metrics.MaxRetries),
				metrics.WithRateLimit(cfg.Metrics.RatePerSecond),
			)))
		}
		if cfg.Anthropic.Key != "" {
			client := anthropic.NewClient(cfg.Anthropic.Key)
			opts = append(opts,
				server.WithJudge(ai.NewJudge(client, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)),
				server.WithEnricher(ai.NewEnricher(client, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)),
			)
		} else {
			zap.L().Warn("anthropic key not configured, running with heuristic validation only")
		}

		api := server.New(cfg, opts...)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: api.Router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
