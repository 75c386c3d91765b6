package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront/platform/internal/config"
	"github.com/storefront/platform/internal/db"
	"github.com/storefront/platform/internal/http/handlers"
	"github.com/storefront/platform/internal/redisclient"
)

// Resources are the connections a data-backed service opens at startup.
type Resources struct {
	Pool  *pgxpool.Pool
	Redis *redisclient.Client
}

// Open connects to Postgres and Redis and applies migrations. Either store
// being unreachable is fatal; whatever was opened is closed before returning.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (*Resources, error) {
	pool, err := db.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	log.Info("connected to postgres")

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	rdb, err := redisclient.New(ctx, cfg.RedisURL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	log.Info("connected to redis")

	return &Resources{Pool: pool, Redis: rdb}, nil
}

func (r *Resources) Checks() []handlers.Check {
	return []handlers.Check{
		{Name: "database", Ping: r.Pool.Ping},
		{Name: "redis", Ping: r.Redis.Ping},
	}
}

func (r *Resources) Close() error {
	r.Pool.Close()
	return r.Redis.Close()
}
