package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nrasaily/SleepSentinelPro/internal"
)

func sampleSnapshot() *Snapshot {
	bedtime := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
	wake := bedtime.Add(8 * time.Hour)
	eff := 0.9
	return &Snapshot{
		Nights: []internal.NightSummary{{
			ID:         "n1",
			Night:      internal.NightKey{Year: 2025, Month: time.June, Day: 1},
			InBed:      8 * time.Hour,
			Asleep:     7 * time.Hour,
			Bedtime:    &bedtime,
			Wake:       &wake,
			Efficiency: &eff,
		}},
		State:    internal.SyncState{Anchor: "a7", Authorized: true},
		Settings: internal.DefaultSettings(),
		SavedAt:  time.Now(),
	}
}

func TestFileStorageSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	s, err := NewFileStorage(path, internal.NopLogger{})
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), sampleSnapshot()))
	require.NoError(t, s.Close(), "close flushes the pending snapshot")

	loaded, err := s.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Nights, 1)
	assert.Equal(t, "n1", loaded.Nights[0].ID)
	assert.Equal(t, 8*time.Hour, loaded.Nights[0].InBed)
	assert.Equal(t, "a7", loaded.State.Anchor)
	assert.True(t, loaded.State.Authorized)
}

func TestFileStorageLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never-written.json")
	s, err := NewFileStorage(path, internal.NopLogger{})
	require.NoError(t, err)
	defer s.Close()

	loaded, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestFileStorageDebouncedFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	s, err := NewFileStorage(path, internal.NopLogger{})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(context.Background(), sampleSnapshot()))

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if loaded, err := s.Load(context.Background()); err == nil && loaded != nil {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("snapshot was never flushed by the worker")
}

func TestFileStorageCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "snapshot.json")
	s, err := NewFileStorage(path, internal.NopLogger{})
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), sampleSnapshot()))
	require.NoError(t, s.Close())

	loaded, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, loaded)
}
