// internal/infrastructure/storage/storage.go
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/gurukul-storefront/internal/config"
)

// ErrNotFound is returned by Get when the key has never been written or was deleted.
var ErrNotFound = errors.New("storage: key not found")

// Storage is the durable client-side key/value store the cart and session
// persist to. It plays the role browser local storage plays for a web UI:
// string values under stable keys that survive restarts of the process.
type Storage interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Close releases the underlying connection.
	Close() error
}

// Pinger is implemented by drivers that can report connection health.
type Pinger interface {
	Health(ctx context.Context) error
}

// Open connects the driver selected in configuration.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageSQLite:
		return NewSQLite(ctx, cfg.Storage.SQLitePath, cfg.Storage.Namespace)
	case config.StorageRedis:
		return NewRedis(ctx, cfg, logger)
	case config.StoragePostgres:
		return NewPostgres(cfg, logger)
	case config.StorageMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}
