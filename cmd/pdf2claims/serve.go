package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-to-claims/internal/config"
	"github.com/thywilljoshua/pdf-to-claims/internal/logging"
	"github.com/thywilljoshua/pdf-to-claims/internal/server"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var host, port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /extract-claims over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			conv, err := newConverter(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			app := server.New(ctx, cfg, conv)

			idleConnsClosed := make(chan struct{})
			startServer(app, cfg, cancel, idleConnsClosed)
			<-idleConnsClosed
			return nil
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().StringVar(&port, "port", "", "listen port such as :8000 (overrides server.port)")
	return cmd
}

// startServer runs app until SIGINT or SIGTERM, then cancels in-flight
// requests through cancelRequests and shuts it down gracefully.
func startServer(app *fiber.App, cfg config.Config, cancelRequests context.CancelFunc, idleConnsClosed chan struct{}) {
	go func() {
		logging.Info("Server listening", "addr", cfg.Addr())
		if err := app.Listen(cfg.Addr()); err != nil {
			logging.Error("Server error", "error", err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigint)
	<-sigint

	logging.Warn("Shutdown signal received, closing server...")
	cancelRequests()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
	}

	close(idleConnsClosed)
	logging.Info("Server stopped cleanly")
}
