package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/storefront/platform/internal/config"
	apphttp "github.com/storefront/platform/internal/http"
	"github.com/storefront/platform/internal/observability"
	"github.com/storefront/platform/internal/server"
)

func main() {
	cfg := config.Load("frontend")

	log := observability.NewLogger(cfg.Service, cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("frontend stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.NewRegistry()
	srv := server.New(cfg.Port, log)

	router := apphttp.NewFrontendRouter(apphttp.Deps{
		Log:      log,
		Config:   cfg,
		Prom:     observability.NewProm(reg),
		Gatherer: reg,
		Draining: srv.Draining,
	})

	return srv.Run(ctx, router)
}
