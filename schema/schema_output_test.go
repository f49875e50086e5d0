package schema_test

import (
	"testing"
	"time"

	"github.com/huangsam/crewcast/schema"
	"github.com/stretchr/testify/assert"
)

func TestGetPaceLabel(t *testing.T) {
	tests := []struct {
		name     string
		pace     schema.Pace
		expected string
	}{
		{"Ahead", schema.AheadPace, "Ahead"},
		{"On track", schema.OnTrackPace, "On track"},
		{"Behind", schema.BehindPace, "Behind"},
		{"No data", schema.NoDataPace, "No data"},
		{"Unknown pace", schema.Pace("sideways"), "No data"}, // Edge case
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.GetPaceLabel(tt.pace))
		})
	}
}

func TestLastGap(t *testing.T) {
	assert.Equal(t, 0, schema.LastGap(nil))
	assert.Equal(t, -2, schema.LastGap([]schema.ProgressPoint{
		{Expected: 1, Actual: 1},
		{Expected: 4, Actual: 2},
	}))
}

func TestEnrichIntervals(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC) }
	intervals := []schema.Interval{
		{Start: day(2), End: day(4), ActiveCount: 2},
		{Start: day(5), End: day(7), ActiveCount: 1},
	}

	result := schema.EnrichIntervals(intervals)

	assert.Len(t, result, 2)
	assert.Equal(t, 1, result[0].Index)
	assert.Equal(t, 3, result[0].Days)
	assert.Equal(t, 2, result[1].Index)
	assert.Equal(t, 1, result[1].ActiveCount)
}

func TestEnrichProgress(t *testing.T) {
	progress := []schema.WorkerProgress{
		{Worker: "ana", Pace: schema.AheadPace, Points: []schema.ProgressPoint{{Expected: 2, Actual: 3}}},
		{Worker: "bruno", Pace: schema.NoDataPace},
	}

	result := schema.EnrichProgress(progress)

	assert.Equal(t, "Ahead", result[0].Label)
	assert.Equal(t, 1, result[0].Gap)
	assert.Equal(t, "ana", result[0].Worker)
	assert.Equal(t, "No data", result[1].Label)
	assert.Equal(t, 0, result[1].Gap)
}
