package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nrasaily/SleepSentinelPro/internal/demo"
)

// Simulated is a stand-in for the real health-data provider. It serves
// the deterministic demo dataset through the anchored-fetch contract:
// the anchor encodes how many nights the caller has already consumed,
// so repeated fetches are incremental and eventually empty.
type Simulated struct {
	ref time.Time
	loc *time.Location
}

func NewSimulated(ref time.Time, loc *time.Location) *Simulated {
	if loc == nil {
		loc = time.Local
	}
	return &Simulated{ref: ref, loc: loc}
}

func (p *Simulated) Fetch(ctx context.Context, anchor string) (Batch, error) {
	if err := ctx.Err(); err != nil {
		return Batch{}, err
	}
	consumed := 0
	if anchor != "" {
		n, err := strconv.Atoi(anchor)
		if err != nil || n < 0 {
			return Batch{}, fmt.Errorf("simulated provider: malformed anchor %q", anchor)
		}
		consumed = n
	}

	all := demo.Generate(p.ref, p.loc)
	nights := len(all) / 2 // generator emits two segments per night
	if consumed > nights {
		consumed = nights
	}
	return Batch{
		Segments: all[consumed*2:],
		Anchor:   strconv.Itoa(nights),
	}, nil
}

var _ SegmentProvider = (*Simulated)(nil)
