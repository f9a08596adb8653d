package storage

import (
	"fmt"

	"github.com/yourname/healthtrack/internal"
	"github.com/yourname/healthtrack/internal/config"
)

// New selects a KVStore backend from the configuration.
func New(cfg *config.Config, logger internal.Logger) (KVStore, error) {
	switch cfg.StorageBackend {
	case "file":
		return NewFileStore(cfg.DataFile, logger)
	case "bolt":
		return NewBoltStore(cfg.BoltFile, logger)
	case "postgres":
		return NewPostgresStore(cfg.PostgresDSN, logger)
	case "redis":
		return NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
