package internal

import (
	"errors"
	"fmt"
	"time"
)

// Stage classifies a sleep segment. The health provider reports finer
// asleep sub-stages (core, deep, REM); all of them collapse into
// StageAsleep at the parse boundary so nothing downstream compares raw
// tag strings.
type Stage int

const (
	StageInBed Stage = iota
	StageAsleep
)

func (s Stage) String() string {
	switch s {
	case StageInBed:
		return "inBed"
	case StageAsleep:
		return "asleep"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// ParseStage maps a raw provider tag onto one of the two stage classes.
func ParseStage(raw string) (Stage, error) {
	switch raw {
	case "inBed":
		return StageInBed, nil
	case "asleep", "asleepCore", "asleepDeep", "asleepREM", "core", "deep", "rem":
		return StageAsleep, nil
	default:
		return 0, fmt.Errorf("unknown sleep stage %q", raw)
	}
}

// Segment is one timestamped interval of a single sleep stage. Segments
// are immutable; NewSegment is the only constructor and enforces
// End > Start, so consumers never re-validate.
type Segment struct {
	Stage Stage     `json:"stage"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

var ErrInvalidInterval = errors.New("segment end must be after start")

func NewSegment(stage Stage, start, end time.Time) (Segment, error) {
	if !end.After(start) {
		return Segment{}, fmt.Errorf("%w (start=%s end=%s)", ErrInvalidInterval,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Segment{Stage: stage, Start: start, End: end}, nil
}

func (s Segment) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// NightKey identifies the calendar night a segment belongs to: the
// year/month/day of the segment's start instant in the local calendar.
type NightKey struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

func (k NightKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

// Before reports whether k is an earlier calendar day than other.
func (k NightKey) Before(other NightKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	if k.Month != other.Month {
		return k.Month < other.Month
	}
	return k.Day < other.Day
}

// NightSummary is the per-night reduction of a group of segments.
// Midpoint and Efficiency are nil when undefined (no asleep time, or no
// in-bed time respectively). Efficiency is deliberately not clamped:
// overlapping source segments can push it above 1.0 and that raw value
// is surfaced as-is.
type NightSummary struct {
	ID         string        `json:"id"`
	Night      NightKey      `json:"night"`
	InBed      time.Duration `json:"in_bed"`
	Asleep     time.Duration `json:"asleep"`
	Bedtime    *time.Time    `json:"bedtime,omitempty"`
	Wake       *time.Time    `json:"wake,omitempty"`
	Midpoint   *time.Time    `json:"midpoint,omitempty"`
	Efficiency *float64      `json:"efficiency,omitempty"`
}

// SyncState is the incremental-fetch cursor handed back by the provider
// adapter. The anchor is opaque: stored verbatim, returned verbatim.
// An empty anchor means "fetch everything from the beginning".
type SyncState struct {
	Anchor     string `json:"anchor"`
	Authorized bool   `json:"authorized"`
}

// Settings are the user's schedule targets. Clock times are "HH:MM".
type Settings struct {
	TargetBedtime            string `json:"target_bedtime"`
	TargetWake               string `json:"target_wake"`
	MidpointToleranceMinutes int    `json:"midpoint_tolerance_minutes"`
	RemindersEnabled         bool   `json:"reminders_enabled"`
}

func DefaultSettings() Settings {
	return Settings{
		TargetBedtime:            "23:00",
		TargetWake:               "07:00",
		MidpointToleranceMinutes: 45,
	}
}

type User struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
}
