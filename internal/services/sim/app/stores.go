package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/shelfsim/internal/services/sim/storage"
	storagebbolt "github.com/louisbranch/shelfsim/internal/services/sim/storage/bbolt"
	storageredis "github.com/louisbranch/shelfsim/internal/services/sim/storage/redis"
	storagesqlite "github.com/louisbranch/shelfsim/internal/services/sim/storage/sqlite"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bbolt"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// StorageConfig selects the slot backend. Tags omit the SHELFSIM_ prefix.
type StorageConfig struct {
	Driver     string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"data/shelfsim.db"`
	BoltPath   string `env:"BOLT_PATH" envDefault:"data/shelfsim.bolt"`
	RedisURL   string `env:"REDIS_URL"`
	Slot       string `env:"SLOT" envDefault:"GameData"`
}

// OpenStore opens the configured backend. The returned close function is
// never nil.
func OpenStore(ctx context.Context, cfg StorageConfig) (storage.Store, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverSQLite:
		if err := ensureDir(cfg.SQLitePath); err != nil {
			return nil, noop, err
		}
		store, err := storagesqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite slot store: %w", err)
		}
		return store, store.Close, nil
	case DriverBolt:
		if err := ensureDir(cfg.BoltPath); err != nil {
			return nil, noop, err
		}
		store, err := storagebbolt.Open(cfg.BoltPath)
		if err != nil {
			return nil, noop, fmt.Errorf("open bbolt slot store: %w", err)
		}
		return store, store.Close, nil
	case DriverRedis:
		store, err := storageredis.Open(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, fmt.Errorf("open redis slot store: %w", err)
		}
		return store, store.Close, nil
	case DriverMemory:
		return storage.NewMemory(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func ensureDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("storage path is required")
	}
	dir := filepath.Dir(filepath.Clean(path))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	return nil
}
