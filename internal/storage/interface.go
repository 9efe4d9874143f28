package storage

import (
	"context"
	"time"

	"github.com/nrasaily/SleepSentinelPro/internal"
)

// Snapshot is everything the service needs to survive a restart: the
// reduced night summaries, the provider sync cursor, and user settings.
// Raw segments are never persisted; they are transient inputs.
type Snapshot struct {
	Nights     []internal.NightSummary `json:"nights"`
	State      internal.SyncState      `json:"state"`
	Settings   internal.Settings       `json:"settings"`
	UsingDemo  bool                    `json:"using_demo"`
	LastUpdate *time.Time              `json:"last_update,omitempty"`
	SavedAt    time.Time               `json:"saved_at"`
}

type SnapshotRepository interface {
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snap *Snapshot) error
	// Load returns the stored snapshot, or (nil, nil) when none exists.
	Load(ctx context.Context) (*Snapshot, error)
	Close() error
}
