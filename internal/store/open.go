package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rickgao/orbit-tracker/internal/config"
	"github.com/rickgao/orbit-tracker/internal/database"
)

// Open builds the configured backend. The returned close func releases any
// connections and is never nil.
func Open(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (Store, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Type {
	case "memory", "":
		return NewMemory(), func() {}, nil
	case "file":
		f, err := NewFile(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return f, func() {}, nil
	case "postgres":
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("postgres store ready", "host", cfg.Database.Host, "database", cfg.Database.Name)
		return NewPostgres(pool, logger), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}
}
