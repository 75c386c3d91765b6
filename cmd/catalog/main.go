package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storefront/platform/internal/cache"
	"github.com/storefront/platform/internal/catalog"
	"github.com/storefront/platform/internal/config"
	apphttp "github.com/storefront/platform/internal/http"
	"github.com/storefront/platform/internal/observability"
	"github.com/storefront/platform/internal/repo/postgres"
	"github.com/storefront/platform/internal/server"
)

func main() {
	cfg := config.Load("catalog-service")

	log := observability.NewLogger(cfg.Service, cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("catalog service stopped", "err", err)
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
	prom := observability.NewProm(reg)

	reader := catalog.NewReader(
		postgres.NewProductsRepo(res.Pool, prom),
		cache.NewRedisStore(res.Redis.Raw(), ""),
		cache.WithLogger(log),
		cache.WithObserver(prom),
	)

	srv := server.New(cfg.Port, log)
	router := apphttp.NewCatalogRouter(apphttp.Deps{
		Log:      log,
		Config:   cfg,
		Prom:     prom,
		Gatherer: reg,
		Checks:   res.Checks(),
		Draining: srv.Draining,
	}, reader)

	return srv.Run(ctx, router)
}
