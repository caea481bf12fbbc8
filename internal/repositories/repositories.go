package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/desertthunder/fithub/internal/shared"
)

// KV is a string key-value store holding serialized documents.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set replaces the value stored at key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// NewKV returns the backend selected by cfg. The sqlite backend uses db.
//
// The returned close function releases backend resources that db does not own.
func NewKV(cfg shared.StoreConfig, db *sql.DB) (KV, func() error, error) {
	switch cfg.Backend {
	case "", "sqlite":
		if db == nil {
			return nil, nil, fmt.Errorf("%w: sqlite backend requires a database", shared.ErrInvalidConfig)
		}
		return NewSQLiteKV(db), func() error { return nil }, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		return NewRedisKV(client), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", shared.ErrUnknownBackend, cfg.Backend)
	}
}
