package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/skilltree"
	"github.com/meikuraledutech/skilltree/file"
	"github.com/meikuraledutech/skilltree/internal/config"
	"github.com/meikuraledutech/skilltree/memory"
	"github.com/meikuraledutech/skilltree/postgres"
	"github.com/meikuraledutech/skilltree/redis"
)

// openStore builds the configured store. The returned func releases it.
func openStore(ctx context.Context, cfg config.Config) (skilltree.Store, func(), error) {
	noop := func() {}

	switch cfg.Store.Kind {
	case config.StoreMemory:
		return memory.New(), noop, nil

	case config.StoreFile:
		return file.New(cfg.Store.Path), noop, nil

	case config.StoreRedis:
		rc := cfg.Store.Redis
		store := redis.New(rc.Addr, rc.Password, rc.DB,
			redis.WithPrefix(rc.Prefix),
			redis.WithTreeID(cfg.TreeID),
			redis.WithTTL(rc.TTL),
		)
		return store, func() { _ = store.Close() }, nil

	case config.StorePostgres:
		pg, pool, err := openPostgres(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		if err := pg.CreateSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("schema: %w", err)
		}
		return pg, pool.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
}

func openPostgres(ctx context.Context, cfg config.Config) (*postgres.PGStore, *pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.Store.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	return postgres.New(pool, cfg.TreeID), pool, nil
}
