package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nrasaily/SleepSentinelPro/internal"
	"github.com/nrasaily/SleepSentinelPro/internal/demo"
	"github.com/nrasaily/SleepSentinelPro/internal/export"
	"github.com/nrasaily/SleepSentinelPro/internal/night"
	"github.com/nrasaily/SleepSentinelPro/internal/provider"
	"github.com/nrasaily/SleepSentinelPro/internal/storage"
)

var validate = validator.New()

// SleepService owns the aggregation core and its surrounding state: the
// night store, the sync cursor, settings and the demo flag. All
// mutations run under one mutex, so each batch is applied as a single
// serialized aggregate-and-merge step.
type SleepService struct {
	logger internal.Logger
	agg    *night.Aggregator
	store  *night.Store
	repo   storage.SnapshotRepository
	loc    *time.Location

	demoDescriptor string

	mu         sync.Mutex
	state      internal.SyncState
	settings   internal.Settings
	usingDemo  bool
	lastUpdate *time.Time
}

func NewSleepService(logger internal.Logger, repo storage.SnapshotRepository, loc *time.Location, demoDescriptor string) *SleepService {
	if loc == nil {
		loc = time.Local
	}
	return &SleepService{
		logger:         logger,
		agg:            night.NewAggregator(loc),
		store:          night.NewStore(),
		repo:           repo,
		loc:            loc,
		demoDescriptor: demoDescriptor,
		settings:       internal.DefaultSettings(),
	}
}

// Restore loads the persisted snapshot, if any.
func (s *SleepService) Restore(ctx context.Context) error {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ReplaceAll(snap.Nights)
	s.state = snap.State
	s.settings = snap.Settings
	s.usingDemo = snap.UsingDemo
	s.lastUpdate = snap.LastUpdate
	s.logger.Infof("restored snapshot: %d nights, anchor=%q", len(snap.Nights), snap.State.Anchor)
	return nil
}

// ApplyBatch is the single aggregate-and-merge step: reduce the batch,
// upsert the results by night key, advance the anchor. An empty batch
// produces no summaries but still advances the anchor. Returns the
// number of summaries produced.
func (s *SleepService) ApplyBatch(ctx context.Context, batch provider.Batch) int {
	summaries := s.agg.Aggregate(batch.Segments)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Upsert(summaries...)
	s.state.Anchor = batch.Anchor
	now := time.Now()
	s.lastUpdate = &now
	s.usingDemo = false
	s.persistLocked(ctx)
	return len(summaries)
}

// LoadDemo replaces the working set with synthetic data: the configured
// descriptor file when present, procedural generation otherwise. Both
// go through the same aggregator as live batches.
func (s *SleepService) LoadDemo(ctx context.Context, ref time.Time) (int, error) {
	segments, err := demo.Load(s.demoDescriptor, ref, s.loc)
	if err != nil {
		return 0, err
	}
	summaries := s.agg.Aggregate(segments)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ReplaceAll(summaries)
	now := time.Now()
	s.lastUpdate = &now
	s.usingDemo = true
	s.persistLocked(ctx)
	return len(summaries), nil
}

func (s *SleepService) Nights() []internal.NightSummary {
	return s.store.Snapshot()
}

func (s *SleepService) ExportCSV() ([]byte, error) {
	return export.Marshal(s.store.Snapshot())
}

// ExportCSVFile writes the CSV to path. A write failure is an export
// failure only; the store is untouched.
func (s *SleepService) ExportCSVFile(path string) error {
	return export.WriteFile(path, s.store.Snapshot())
}

func (s *SleepService) State() internal.SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SleepService) SetAuthorized(ctx context.Context, authorized bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Authorized = authorized
	s.persistLocked(ctx)
}

func (s *SleepService) Settings() internal.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *SleepService) UpdateSettings(ctx context.Context, settings internal.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.persistLocked(ctx)
}

func (s *SleepService) Location() *time.Location {
	return s.loc
}

// Status mirrors the state the UI layer displays.
type Status struct {
	Authorized bool       `json:"authorized"`
	UsingDemo  bool       `json:"using_demo"`
	Anchor     string     `json:"anchor"`
	LastUpdate *time.Time `json:"last_update,omitempty"`
	NightCount int        `json:"night_count"`
}

func (s *SleepService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Authorized: s.state.Authorized,
		UsingDemo:  s.usingDemo,
		Anchor:     s.state.Anchor,
		LastUpdate: s.lastUpdate,
		NightCount: s.store.Len(),
	}
}

// persistLocked snapshots current state to the repository. Persistence
// failures are logged, never surfaced: the in-memory state is the
// source of truth.
func (s *SleepService) persistLocked(ctx context.Context) {
	snap := &storage.Snapshot{
		Nights:     s.store.Snapshot(),
		State:      s.state,
		Settings:   s.settings,
		UsingDemo:  s.usingDemo,
		LastUpdate: s.lastUpdate,
		SavedAt:    time.Now(),
	}
	if err := s.repo.Save(ctx, snap); err != nil {
		s.logger.Errorf("failed to persist snapshot: %v", err)
	}
}

// --- Segment batch ingestion ---

type SegmentInput struct {
	Stage string    `json:"stage" validate:"required"`
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required,gtfield=Start"`
}

type SegmentBatchRequest struct {
	Segments []SegmentInput `json:"segments" validate:"dive"`
	Anchor   string         `json:"anchor"`
}

func ValidateSegmentBatchRequest(body *SegmentBatchRequest) error {
	return validate.Struct(body)
}

// ParseSegmentBatch converts raw inputs into validated segments. Stage
// tags and interval ordering are checked here, at the ingestion
// boundary; the aggregator trusts what it receives.
func ParseSegmentBatch(body *SegmentBatchRequest) (provider.Batch, error) {
	segments := make([]internal.Segment, 0, len(body.Segments))
	for _, in := range body.Segments {
		stage, err := internal.ParseStage(in.Stage)
		if err != nil {
			return provider.Batch{}, err
		}
		seg, err := internal.NewSegment(stage, in.Start, in.End)
		if err != nil {
			return provider.Batch{}, err
		}
		segments = append(segments, seg)
	}
	return provider.Batch{Segments: segments, Anchor: body.Anchor}, nil
}
