// Package provider adapts external sleep-data sources to the
// aggregation core. Sources deliver batches of segments plus an opaque
// anchor marking the last consumed position; the core hands the anchor
// back unchanged on the next fetch.
package provider

import (
	"context"
	"time"

	"github.com/nrasaily/SleepSentinelPro/internal"
)

// Batch is one provider delivery: the new segments plus the updated
// anchor to persist for the next incremental fetch.
type Batch struct {
	Segments []internal.Segment
	Anchor   string
}

// SegmentProvider is the external source of sleep segments. An empty
// anchor requests everything from the beginning; any other value is the
// opaque cursor from a previous Fetch.
type SegmentProvider interface {
	Fetch(ctx context.Context, anchor string) (Batch, error)
}

// Syncer drives anchored fetches and forwards each batch as an event on
// a channel. Fetching and applying are decoupled: the consumer drains
// Events and runs the aggregate-and-merge step once per batch, so the
// core never sees concurrent mutation.
type Syncer struct {
	provider SegmentProvider
	logger   internal.Logger
	events   chan Batch
}

func NewSyncer(p SegmentProvider, logger internal.Logger) *Syncer {
	return &Syncer{
		provider: p,
		logger:   logger,
		events:   make(chan Batch, 8),
	}
}

func (s *Syncer) Events() <-chan Batch {
	return s.events
}

// FetchOnce runs a single anchored fetch and queues the result. Empty
// batches are still forwarded so the consumer can advance its anchor.
func (s *Syncer) FetchOnce(ctx context.Context, anchor string) error {
	batch, err := s.provider.Fetch(ctx, anchor)
	if err != nil {
		return err
	}
	select {
	case s.events <- batch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run polls the provider until ctx is cancelled. state supplies the
// current anchor and authorization flag before every tick; while
// unauthorized no fetch is attempted. Fetch errors are logged and the
// loop keeps going; retry policy lives here, not in the core.
func (s *Syncer) Run(ctx context.Context, interval time.Duration, state func() internal.SyncState) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := state()
			if !st.Authorized {
				continue
			}
			if err := s.FetchOnce(ctx, st.Anchor); err != nil {
				s.logger.Errorf("provider: anchored fetch failed: %v", err)
			}
		}
	}
}
