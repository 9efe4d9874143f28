// Package export renders the night summary collection as CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nrasaily/SleepSentinelPro/internal"
)

var header = []string{"date", "inBed", "asleep", "bedtime", "wake", "midpoint", "efficiency"}

// Marshal renders the summaries in the order given (the store hands
// them over newest night first). Durations are seconds and efficiency a
// ratio, both formatted so reparsing reproduces the exact float value;
// absent timestamps come out as empty strings, absent numerics as 0.
func Marshal(nights []internal.NightSummary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, n := range nights {
		row := []string{
			n.Night.String(),
			formatSeconds(n.InBed),
			formatSeconds(n.Asleep),
			formatTime(n.Bedtime),
			formatTime(n.Wake),
			formatTime(n.Midpoint),
			formatRatio(n.Efficiency),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile marshals and writes atomically via temp-file rename. A
// failure here never touches in-memory state.
func WriteFile(path string, nights []internal.NightSummary) error {
	data, err := Marshal(nights)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return err
	}
	return nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'g', -1, 64)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatRatio(f *float64) string {
	if f == nil {
		return "0"
	}
	return strconv.FormatFloat(*f, 'g', -1, 64)
}
