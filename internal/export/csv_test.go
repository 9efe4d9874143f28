package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nrasaily/SleepSentinelPro/internal"
)

func sampleNights() []internal.NightSummary {
	bedtime := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
	wake := time.Date(2025, 6, 2, 7, 10, 0, 0, time.UTC)
	midpoint := time.Date(2025, 6, 2, 2, 45, 0, 0, time.UTC)
	eff := 27000.0 / 29400.0
	return []internal.NightSummary{
		{
			ID:         "n2",
			Night:      internal.NightKey{Year: 2025, Month: time.June, Day: 2},
			InBed:      29400 * time.Second,
			Asleep:     27000 * time.Second,
			Bedtime:    &bedtime,
			Wake:       &wake,
			Midpoint:   &midpoint,
			Efficiency: &eff,
		},
		{
			// Only in-bed data: no midpoint, no efficiency.
			ID:      "n1",
			Night:   internal.NightKey{Year: 2025, Month: time.June, Day: 1},
			InBed:   6 * time.Hour,
			Bedtime: &bedtime,
			Wake:    &wake,
		},
	}
}

func TestMarshalLineCountAndHeader(t *testing.T) {
	data, err := Marshal(sampleNights())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3, "header plus one row per summary")
	assert.Equal(t, "date,inBed,asleep,bedtime,wake,midpoint,efficiency", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2025-06-02,"), "store order preserved, newest first")
}

func TestMarshalNumericRoundTrip(t *testing.T) {
	nights := sampleNights()
	data, err := Marshal(nights)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	row := records[1]
	inBed, err := strconv.ParseFloat(row[1], 64)
	require.NoError(t, err)
	asleep, err := strconv.ParseFloat(row[2], 64)
	require.NoError(t, err)
	eff, err := strconv.ParseFloat(row[6], 64)
	require.NoError(t, err)

	assert.InEpsilon(t, nights[0].InBed.Seconds(), inBed, 1e-6)
	assert.InEpsilon(t, nights[0].Asleep.Seconds(), asleep, 1e-6)
	assert.InEpsilon(t, *nights[0].Efficiency, eff, 1e-6)
}

func TestMarshalAbsentFields(t *testing.T) {
	data, err := Marshal(sampleNights())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)

	row := records[2] // the in-bed-only night
	assert.Equal(t, "", row[5], "absent midpoint renders empty")
	assert.Equal(t, "0", row[6], "absent efficiency renders 0")
	assert.Equal(t, "0", row[2], "zero asleep renders 0")
}

func TestMarshalTimestampsCarryOffset(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	bedtime := time.Date(2025, 6, 1, 23, 0, 0, 0, loc)
	wake := bedtime.Add(8 * time.Hour)
	data, err := Marshal([]internal.NightSummary{{
		ID:      "n",
		Night:   internal.NightKey{Year: 2025, Month: time.June, Day: 1},
		Bedtime: &bedtime,
		Wake:    &wake,
	}})
	require.NoError(t, err)
	assert.Contains(t, string(data), "2025-06-01T23:00:00+02:00")
}

func TestMarshalEmptyStore(t *testing.T) {
	data, err := Marshal(nil)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 1, "header only")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "sleep.csv")
	require.NoError(t, WriteFile(path, sampleNights()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "date,inBed,asleep"))
}

func TestWriteFileFailureLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	// A directory at the target path makes the rename fail.
	path := filepath.Join(dir, "taken")
	require.NoError(t, os.Mkdir(path, 0o755))

	err := WriteFile(path, sampleNights())
	require.Error(t, err)
	_, statErr := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(statErr))
}
