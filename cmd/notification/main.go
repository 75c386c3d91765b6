package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storefront/platform/internal/config"
	apphttp "github.com/storefront/platform/internal/http"
	"github.com/storefront/platform/internal/observability"
	"github.com/storefront/platform/internal/server"
)

func main() {
	cfg := config.Load("notification-service")

	log := observability.NewLogger(cfg.Service, cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("notification service stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.OTelEnabled, cfg.Service, cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(tctx)
	}()

	// no tables of its own yet, but health reports both stores like the
	// other services
	res, err := server.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Close(); err != nil {
			log.Warn("close resources", "err", err)
		}
	}()

	reg := observability.NewRegistry()

	srv := server.New(cfg.Port, log)
	router := apphttp.NewNotificationRouter(apphttp.Deps{
		Log:      log,
		Config:   cfg,
		Prom:     observability.NewProm(reg),
		Gatherer: reg,
		Checks:   res.Checks(),
		Draining: srv.Draining,
	})

	return srv.Run(ctx, router)
}
