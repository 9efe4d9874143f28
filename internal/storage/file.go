package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nrasaily/SleepSentinelPro/internal"
)

// FileStorage keeps the snapshot in a single JSON file. Saves are
// debounced: callers signal intent and a background worker flushes at
// most once per delay window, writing atomically via temp-file rename.
type FileStorage struct {
	mu        sync.RWMutex
	pending   *Snapshot
	path      string
	saveChan  chan struct{}
	shutdown  chan struct{}
	saveDelay time.Duration
	logger    internal.Logger
}

func NewFileStorage(path string, logger internal.Logger) (*FileStorage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	s := &FileStorage{
		path:      path,
		saveChan:  make(chan struct{}, 1),
		shutdown:  make(chan struct{}),
		saveDelay: 500 * time.Millisecond,
		logger:    logger,
	}
	go s.saveWorker()
	return s, nil
}

func (s *FileStorage) Save(ctx context.Context, snap *Snapshot) error {
	s.mu.Lock()
	s.pending = snap
	s.mu.Unlock()
	select {
	case s.saveChan <- struct{}{}:
	default:
	}
	return nil
}

func (s *FileStorage) Load(ctx context.Context) (*Snapshot, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var snap Snapshot
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return &snap, nil
}

func (s *FileStorage) flush() error {
	s.mu.RLock()
	snap := s.pending
	s.mu.RUnlock()
	if snap == nil {
		return nil
	}
	return atomicWriteFileJSON(s.path, snap)
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) saveWorker() {
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-s.saveChan:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := s.flush(); err != nil {
				s.logger.Errorf("storage: error saving snapshot: %v", err)
			}
		case <-s.shutdown:
			return
		}
	}
}

// Close stops the worker and flushes any pending snapshot synchronously.
func (s *FileStorage) Close() error {
	close(s.shutdown)
	return s.flush()
}

var _ SnapshotRepository = (*FileStorage)(nil)
