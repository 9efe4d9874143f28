// Package demo produces deterministic sleep segments for use when the
// live provider is unavailable or unauthorized.
package demo

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/nrasaily/SleepSentinelPro/internal"
)

const generatedNights = 10

// Generate returns segments for the ten nights preceding ref, one inBed
// segment per night with one asleep segment nested inside it. The
// per-night offsets are small fixed cycles (no randomness), so two
// calls with the same ref produce identical output.
func Generate(ref time.Time, loc *time.Location) []internal.Segment {
	if loc == nil {
		loc = time.Local
	}
	first := ref.In(loc).AddDate(0, 0, -generatedNights)

	segments := make([]internal.Segment, 0, generatedNights*2)
	for i := 0; i < generatedNights; i++ {
		day := first.AddDate(0, 0, i)
		base := time.Date(day.Year(), day.Month(), day.Day(), 23, 0, 0, 0, loc)

		bedtime := base.Add(time.Duration((i%5)*6-12) * time.Minute)
		asleepStart := bedtime.Add(time.Duration(20+(i%3)*10) * time.Minute)
		asleepHours := 5.8 + float64(i%5)*0.5
		wake := asleepStart.Add(time.Duration(asleepHours * float64(time.Hour)))
		outOfBed := wake.Add(time.Duration(10+(i%4)*5) * time.Minute)

		segments = append(segments,
			internal.Segment{Stage: internal.StageInBed, Start: bedtime, End: outOfBed},
			internal.Segment{Stage: internal.StageAsleep, Start: asleepStart, End: wake},
		)
	}
	return segments
}

type descriptorSegment struct {
	Type  string    `json:"type"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type descriptorNight struct {
	Segments []descriptorSegment `json:"segments"`
}

// LoadDescriptor reads a fixed demo descriptor: a JSON array of nights,
// each holding segments with a raw stage tag and RFC 3339 timestamps.
// Segments are validated at this boundary; a descriptor with an
// inverted interval or unknown stage tag is rejected outright.
func LoadDescriptor(path string) ([]internal.Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("demo: failed to read descriptor: %w", err)
	}
	var nights []descriptorNight
	if err := json.Unmarshal(data, &nights); err != nil {
		return nil, fmt.Errorf("demo: failed to parse descriptor: %w", err)
	}

	var segments []internal.Segment
	for ni, n := range nights {
		for si, ds := range n.Segments {
			stage, err := internal.ParseStage(ds.Type)
			if err != nil {
				return nil, fmt.Errorf("demo: night %d segment %d: %w", ni, si, err)
			}
			seg, err := internal.NewSegment(stage, ds.Start, ds.End)
			if err != nil {
				return nil, fmt.Errorf("demo: night %d segment %d: %w", ni, si, err)
			}
			segments = append(segments, seg)
		}
	}
	return segments, nil
}

// Load returns descriptor segments when a descriptor path is configured
// and the file exists; otherwise it falls back to procedural generation.
func Load(descriptorPath string, ref time.Time, loc *time.Location) ([]internal.Segment, error) {
	if descriptorPath != "" {
		if _, err := os.Stat(descriptorPath); err == nil {
			return LoadDescriptor(descriptorPath)
		}
	}
	return Generate(ref, loc), nil
}
