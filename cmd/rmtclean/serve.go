package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/quantfolio/rmtclean/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over a read-only local HTTP API",
		Long:  "Expose /v1/analyze, the /v1/sweep WebSocket stream, /health, and Prometheus /metrics for the presentation layer.",
		RunE:  runServe,
	}

	def := server.DefaultServerConfig()
	cmd.Flags().String("host", def.Host, "Bind address")
	cmd.Flags().Int("port", def.Port, "Listen port")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := server.DefaultServerConfig()
	cfg.Host, _ = cmd.Flags().GetString("host")
	cfg.Port, _ = cmd.Flags().GetInt("port")

	srv, err := server.NewServer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}

	return nil
}
