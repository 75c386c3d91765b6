package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storefront/platform/internal/accounts"
	"github.com/storefront/platform/internal/auth"
	"github.com/storefront/platform/internal/cache"
	"github.com/storefront/platform/internal/config"
	apphttp "github.com/storefront/platform/internal/http"
	"github.com/storefront/platform/internal/notifications"
	"github.com/storefront/platform/internal/observability"
	"github.com/storefront/platform/internal/repo/postgres"
	"github.com/storefront/platform/internal/security"
	"github.com/storefront/platform/internal/server"
)

func main() {
	cfg := config.Load("user-service")

	log := observability.NewLogger(cfg.Service, cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("user service stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

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

	store := cache.NewRedisStore(res.Redis.Raw(), "")
	users := postgres.NewUsersRepo(res.Pool, prom)
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	notifier := notifications.NewProtectedNotifier(
		notifications.NewLogNotifier(log),
		notifications.ProtectedNotifierConfig{Observer: prom},
	)

	svc := accounts.NewService(
		accounts.NewCredentialStore(users, security.NewHasher(cfg.BcryptCost), log),
		tokens,
		accounts.NewProfileReader(users, store, cache.WithLogger(log), cache.WithObserver(prom)),
		notifier,
		log,
	)

	srv := server.New(cfg.Port, log)
	router := apphttp.NewUserRouter(apphttp.Deps{
		Log:      log,
		Config:   cfg,
		Prom:     prom,
		Gatherer: reg,
		Checks:   res.Checks(),
		Draining: srv.Draining,
	}, svc, tokens)

	return srv.Run(ctx, router)
}
