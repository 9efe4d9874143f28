package night

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nrasaily/SleepSentinelPro/internal"
)

// Aggregator reduces segment batches into per-night summaries. It is
// the single reduction path for both the live provider and the demo
// generator. It holds no state beyond the calendar location and is safe
// to share.
type Aggregator struct {
	loc *time.Location
}

func NewAggregator(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{loc: loc}
}

// Aggregate groups segments by night key and reduces each group into
// one summary. An empty batch yields no summaries. Results come back
// sorted newest night first.
func (a *Aggregator) Aggregate(segments []internal.Segment) []internal.NightSummary {
	if len(segments) == 0 {
		return nil
	}

	groups := make(map[internal.NightKey][]internal.Segment)
	for _, seg := range segments {
		key := ResolveKey(seg.Start, a.loc)
		groups[key] = append(groups[key], seg)
	}

	summaries := make([]internal.NightSummary, 0, len(groups))
	for _, group := range groups {
		summaries = append(summaries, a.reduce(group))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[j].Night.Before(summaries[i].Night)
	})
	return summaries
}

// reduce folds one non-empty night partition into a summary. Durations
// are summed per stage class without coalescing: overlapping segments
// of the same class count twice. That additive behavior is intentional
// and matches the raw provider data.
func (a *Aggregator) reduce(group []internal.Segment) internal.NightSummary {
	var inBed, asleep time.Duration
	bedtime := group[0].Start
	wake := group[0].End
	for _, seg := range group {
		switch seg.Stage {
		case internal.StageInBed:
			inBed += seg.Duration()
		case internal.StageAsleep:
			asleep += seg.Duration()
		}
		if seg.Start.Before(bedtime) {
			bedtime = seg.Start
		}
		if seg.End.After(wake) {
			wake = seg.End
		}
	}

	summary := internal.NightSummary{
		ID:      uuid.NewString(),
		Night:   ResolveKey(bedtime, a.loc),
		InBed:   inBed,
		Asleep:  asleep,
		Bedtime: &bedtime,
		Wake:    &wake,
	}
	if asleep > 0 {
		mid := bedtime.Add(asleep / 2)
		summary.Midpoint = &mid
	}
	if inBed > 0 {
		// Not clamped: asleep overlap can push this above 1.0.
		eff := asleep.Seconds() / inBed.Seconds()
		summary.Efficiency = &eff
	}
	return summary
}
