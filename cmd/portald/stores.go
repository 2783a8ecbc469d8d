package main

import (
	"context"
	"log/slog"

	portalAuth "github.com/leanda/portalAuth"
	"github.com/leanda/portalAuth/internal/config"
	"github.com/leanda/portalAuth/store/memory"
	"github.com/leanda/portalAuth/store/postgres"
	redisstore "github.com/leanda/portalAuth/store/redis"
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// backend is an opened account store plus its lifecycle hooks.
type backend struct {
	store portalAuth.UserStore
	ping  func(context.Context) error
	close func()
}

func openBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (backend, error) {
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn("using in-memory account store; accounts are lost on restart")
		return backend{
			store: memory.New(),
			ping:  func(context.Context) error { return nil },
			close: func() {},
		}, nil

	case config.StorePostgres:
		if cfg.AutoMigrate {
			if err := migrateUp(cfg.DatabaseURL, logger); err != nil {
				return backend{}, err
			}
		}
		pg, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return backend{}, err
		}
		return backend{store: pg, ping: pg.Ping, close: pg.Close}, nil

	case config.StoreRedis:
		rdb := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{cfg.RedisAddr},
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ping := func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		if err := ping(ctx); err != nil {
			_ = rdb.Close()
			return backend{}, oops.Code("REDIS_CONNECT_FAILED").With("addr", cfg.RedisAddr).Wrap(err)
		}
		return backend{
			store: redisstore.New(rdb, redisstore.WithPrefix(cfg.RedisPrefix)),
			ping:  ping,
			close: func() { _ = rdb.Close() },
		}, nil

	default:
		return backend{}, oops.Code("CONFIG_INVALID").Errorf("unknown store %q", cfg.Store)
	}
}

func migrateUp(databaseURL string, logger *slog.Logger) error {
	m, err := postgres.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	if err := m.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "auto migrate").Wrap(err)
	}
	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	logger.Info("schema migrated", "version", v, "dirty", dirty)
	return nil
}
