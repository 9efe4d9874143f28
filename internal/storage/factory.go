package storage

import (
	"fmt"

	"github.com/nrasaily/SleepSentinelPro/internal"
	"github.com/nrasaily/SleepSentinelPro/internal/config"
)

// NewRepository picks the snapshot backend from config.
func NewRepository(cfg *config.Config, logger internal.Logger) (SnapshotRepository, error) {
	switch cfg.Storage.Backend {
	case "file":
		return NewFileStorage(cfg.Storage.SnapshotFile, logger)
	case "postgres":
		return NewPostgresStorage(cfg.Storage.DSN, logger)
	default:
		return nil, fmt.Errorf("storage: unsupported backend %q", cfg.Storage.Backend)
	}
}
