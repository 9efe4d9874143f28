// Package night holds the aggregation core: it reduces raw sleep
// segments into one summary per calendar night and keeps the sorted
// working set of summaries.
package night

import (
	"time"

	"github.com/nrasaily/SleepSentinelPro/internal"
)

// ResolveKey maps a timestamp to the calendar night it belongs to: the
// year/month/day of the instant in loc, time of day truncated. A night
// is keyed by its start instant only; a session running past midnight
// stays on the day it began.
func ResolveKey(t time.Time, loc *time.Location) internal.NightKey {
	year, month, day := t.In(loc).Date()
	return internal.NightKey{Year: year, Month: month, Day: day}
}
