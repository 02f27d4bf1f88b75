package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"titanchat/core/internal/cache"
	"titanchat/core/internal/config"
	"titanchat/core/internal/database"
)

// Open connects the medium named by cfg.Store.Driver and wraps it in an
// Accessor using the configured key scheme.
func Open(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (*Accessor, error) {
	medium, err := openMedium(ctx, cfg)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("driver", cfg.Store.Driver).
		Str("schema_version", cfg.Store.SchemaVersion).
		Msg("storage opened")

	keys := NewKeys(cfg.Store.Namespace, cfg.Store.SchemaVersion)
	return NewAccessor(medium, keys, cfg.Store.Timeout, log), nil
}

func openMedium(ctx context.Context, cfg *config.AppConfig) (Medium, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return NewMemoryMedium(), nil

	case config.DriverSQLite:
		db, err := database.NewSQLite(cfg.SQLite)
		if err != nil {
			return nil, err
		}
		medium, err := NewSQLiteMedium(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return medium, nil

	case config.DriverRedis:
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisMedium(client), nil

	case config.DriverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		medium, err := NewPostgresMedium(ctx, pool, cfg.Postgres.Table)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return medium, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
