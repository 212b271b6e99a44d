package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/gurukul-storefront/internal/config"
	"github.com/your-org/gurukul-storefront/internal/domain/session"
	"github.com/your-org/gurukul-storefront/internal/infrastructure/storage"
	"github.com/your-org/gurukul-storefront/internal/pkg/logger"
)

// unreadableStorage fails every read, like a locked or damaged profile file
type unreadableStorage struct {
	*storage.Memory
}

func (unreadableStorage) Get(context.Context, string) (string, error) {
	return "", errors.New("database disk image is malformed")
}

func testConfig() *config.Config {
	return &config.Config{
		API:     config.APIConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second},
		Storage: config.StorageConfig{Driver: config.StorageMemory},
		Session: config.SessionConfig{TTL: 15 * time.Minute},
		Cart:    config.CartConfig{Mode: config.CartModeLocal},
	}
}

func TestNewWithStorage_UnreadableStorageStartsLoggedOut(t *testing.T) {
	ctx := context.Background()

	a, err := NewWithStorage(ctx, testConfig(), unreadableStorage{Memory: storage.NewMemory()}, logger.Discard())
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, session.LoggedOut, a.Sessions.State(ctx))
	snap, err := a.Cart.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

func TestWatchStorage_DisabledForMemoryDriver(t *testing.T) {
	a, err := NewWithStorage(context.Background(), testConfig(), storage.NewMemory(), logger.Discard())
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.WatchStorage(context.Background()))
	assert.Nil(t, a.watcher)
}
