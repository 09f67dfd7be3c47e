package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ridloal/supermarket-management/internal/platform/config"
	"github.com/ridloal/supermarket-management/internal/platform/database"
)

var ErrKeyNotFound = errors.New("storage: key not found")

// Store is the durable key->string storage that sessions and the cart survive restarts in.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Open builds the Store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "file", "":
		return OpenFileStore(cfg.FilePath)
	case "redis":
		return NewRedisStore(ctx, cfg.RedisURL, cfg.Prefix)
	case "postgres":
		db, err := database.Connect(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		store := NewPostgresStore(db, cfg.Table)
		if err := store.EnsureTable(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
