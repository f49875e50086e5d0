package core

import (
	"testing"

	"github.com/huangsam/crewcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectDaily(t *testing.T) {
	intervals := []schema.Interval{
		{Start: day("2025-01-02"), End: day("2025-01-04"), ActiveCount: 2},
		{Start: day("2025-01-05"), End: day("2025-01-07"), ActiveCount: 1},
	}

	daily := ProjectDaily(intervals)
	assert.Equal(t, []schema.DailyRecord{
		{Date: day("2025-01-02"), ActiveCount: 2, Cumulative: 2},
		{Date: day("2025-01-03"), ActiveCount: 2, Cumulative: 4},
		{Date: day("2025-01-04"), ActiveCount: 2, Cumulative: 6},
		{Date: day("2025-01-05"), ActiveCount: 1, Cumulative: 7},
		{Date: day("2025-01-06"), ActiveCount: 1, Cumulative: 8},
		{Date: day("2025-01-07"), ActiveCount: 1, Cumulative: 9},
	}, daily)
}

func TestProjectDailySortsOutOfOrderIntervals(t *testing.T) {
	intervals := []schema.Interval{
		{Start: day("2025-01-05"), End: day("2025-01-05"), ActiveCount: 3},
		{Start: day("2025-01-03"), End: day("2025-01-04"), ActiveCount: 1},
	}

	daily := ProjectDaily(intervals)
	require.Len(t, daily, 3)
	assert.Equal(t, day("2025-01-03"), daily[0].Date)
	assert.Equal(t, 5, daily[2].Cumulative)
}

func TestProjectDailyEmpty(t *testing.T) {
	assert.Empty(t, ProjectDaily(nil))
}

func TestBuildForecast(t *testing.T) {
	events := []schema.Event{entry("2025-01-02", "A"), entry("2025-01-02", "B"), exit("2025-01-05", "A")}

	result := BuildForecast(events, day("2025-01-07"))
	assert.Equal(t, day("2025-01-07"), result.StudyEnd)
	assert.Len(t, result.Intervals, 2)
	require.Len(t, result.Daily, 6)
	assert.Equal(t, 9, result.Daily[5].Cumulative)

	total := 0
	for _, iv := range result.Intervals {
		total += iv.Days()
	}
	assert.Equal(t, total, len(result.Daily))
}
