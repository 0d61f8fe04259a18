package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"cites/internal/platform/config"
	"cites/internal/platform/httpserver"
	"cites/internal/platform/logger"
)

// main wires dependencies, starts the audit worker and HTTP server, and
// stops both on SIGINT or SIGTERM. Business logic lives in internal packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	app, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.close()

	g, ctx := errgroup.WithContext(ctx)
	if app.auditWorker != nil {
		g.Go(func() error {
			if err := app.auditWorker.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		log.InfoContext(ctx, "starting cites", "addr", cfg.Addr)
		return httpserver.Run(ctx, httpserver.New(cfg.Addr, app.router), cfg.ShutdownTimeout)
	})
	return g.Wait()
}
