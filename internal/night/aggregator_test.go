package night

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nrasaily/SleepSentinelPro/internal"
)

func seg(t *testing.T, stage internal.Stage, start, end time.Time) internal.Segment {
	t.Helper()
	s, err := internal.NewSegment(stage, start, end)
	require.NoError(t, err)
	return s
}

func TestAggregateSingleNight(t *testing.T) {
	agg := NewAggregator(time.UTC)
	bedtime := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
	wake := time.Date(2025, 6, 2, 7, 10, 0, 0, time.UTC)
	segments := []internal.Segment{
		seg(t, internal.StageInBed, bedtime, wake),
		seg(t, internal.StageAsleep,
			time.Date(2025, 6, 1, 23, 20, 0, 0, time.UTC),
			time.Date(2025, 6, 2, 6, 50, 0, 0, time.UTC)),
	}

	summaries := agg.Aggregate(segments)
	require.Len(t, summaries, 1)
	n := summaries[0]

	assert.Equal(t, internal.NightKey{Year: 2025, Month: time.June, Day: 1}, n.Night)
	assert.Equal(t, 29400*time.Second, n.InBed)
	assert.Equal(t, 27000*time.Second, n.Asleep)
	require.NotNil(t, n.Bedtime)
	require.NotNil(t, n.Wake)
	assert.True(t, n.Bedtime.Equal(bedtime))
	assert.True(t, n.Wake.Equal(wake))
	require.NotNil(t, n.Midpoint)
	assert.True(t, n.Midpoint.Equal(time.Date(2025, 6, 2, 2, 45, 0, 0, time.UTC)))
	require.NotNil(t, n.Efficiency)
	assert.InDelta(t, 0.9184, *n.Efficiency, 0.0001)
	assert.NotEmpty(t, n.ID)
}

func TestAggregateEmptyBatch(t *testing.T) {
	agg := NewAggregator(time.UTC)
	assert.Empty(t, agg.Aggregate(nil))
	assert.Empty(t, agg.Aggregate([]internal.Segment{}))
}

func TestAggregateOnlyInBed(t *testing.T) {
	agg := NewAggregator(time.UTC)
	start := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
	summaries := agg.Aggregate([]internal.Segment{
		seg(t, internal.StageInBed, start, start.Add(6*time.Hour)),
	})
	require.Len(t, summaries, 1)
	n := summaries[0]

	assert.Equal(t, time.Duration(0), n.Asleep)
	assert.Equal(t, 6*time.Hour, n.InBed)
	assert.Nil(t, n.Midpoint, "midpoint undefined without asleep time")
	require.NotNil(t, n.Efficiency)
	assert.Equal(t, 0.0, *n.Efficiency)
}

func TestAggregateOnlyAsleep(t *testing.T) {
	agg := NewAggregator(time.UTC)
	start := time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)
	summaries := agg.Aggregate([]internal.Segment{
		seg(t, internal.StageAsleep, start, start.Add(7*time.Hour)),
	})
	require.Len(t, summaries, 1)
	n := summaries[0]

	assert.Equal(t, time.Duration(0), n.InBed)
	assert.Nil(t, n.Efficiency, "efficiency undefined without in-bed time")
	require.NotNil(t, n.Midpoint)
}

func TestAggregateOverlappingSegmentsAddUp(t *testing.T) {
	// Overlapping same-stage segments are summed, never coalesced.
	agg := NewAggregator(time.UTC)
	base := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
	summaries := agg.Aggregate([]internal.Segment{
		seg(t, internal.StageAsleep, base, base.Add(4*time.Hour)),
		seg(t, internal.StageAsleep, base.Add(2*time.Hour), base.Add(6*time.Hour)),
		seg(t, internal.StageInBed, base, base.Add(5*time.Hour)),
	})
	require.Len(t, summaries, 1)
	n := summaries[0]

	assert.Equal(t, 8*time.Hour, n.Asleep)
	assert.Equal(t, 5*time.Hour, n.InBed)
	require.NotNil(t, n.Efficiency)
	assert.InDelta(t, 1.6, *n.Efficiency, 1e-9, "efficiency above 1.0 passes through unclamped")
}

func TestAggregateGroupsByStartDay(t *testing.T) {
	agg := NewAggregator(time.UTC)
	var segments []internal.Segment
	for day := 1; day <= 3; day++ {
		start := time.Date(2025, 6, day, 23, 0, 0, 0, time.UTC)
		segments = append(segments,
			seg(t, internal.StageInBed, start, start.Add(8*time.Hour)),
			seg(t, internal.StageAsleep, start.Add(20*time.Minute), start.Add(7*time.Hour)),
		)
	}

	summaries := agg.Aggregate(segments)
	require.Len(t, summaries, 3)
	// Newest first.
	assert.Equal(t, 3, summaries[0].Night.Day)
	assert.Equal(t, 2, summaries[1].Night.Day)
	assert.Equal(t, 1, summaries[2].Night.Day)
	for _, n := range summaries {
		require.NotNil(t, n.Bedtime)
		require.NotNil(t, n.Wake)
		assert.True(t, !n.Wake.Before(*n.Bedtime), "bedtime <= wake")
	}
}

func TestAggregateNightKeyDerivedFromBedtime(t *testing.T) {
	// The earliest segment start, not any particular stage, decides the
	// night key.
	agg := NewAggregator(time.UTC)
	asleepStart := time.Date(2025, 6, 2, 0, 10, 0, 0, time.UTC)
	summaries := agg.Aggregate([]internal.Segment{
		seg(t, internal.StageAsleep, asleepStart, asleepStart.Add(6*time.Hour)),
	})
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].Night.Day)
}
