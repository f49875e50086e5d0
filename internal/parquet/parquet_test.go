package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/crewcast/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.Parse(schema.DayLayout, s)
	return t
}

func TestForecastRunStructTags(t *testing.T) {
	sch := parquet.SchemaOf(new(ForecastRun))
	require.NotNil(t, sch)

	for _, colName := range []string{
		"run_id", "start_time", "end_time", "run_duration_ms",
		"study_end", "total_events", "total_days", "config_params",
	} {
		_, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestForecastDayStructTags(t *testing.T) {
	sch := parquet.SchemaOf(new(ForecastDay))
	for _, colName := range []string{"run_id", "day", "active_count", "cumulative"} {
		_, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestWriteAndReadForecastRuns(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "forecast_runs.parquet")

	end := time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC)
	studyEnd := day("2025-01-07")
	duration := int32(1500)
	events := int32(3)
	params := `{"events":"ops.csv"}`
	records := []schema.ForecastRunRecord{
		{
			RunID:         1,
			StartTime:     end.Add(-1500 * time.Millisecond),
			EndTime:       &end,
			RunDurationMs: &duration,
			StudyEnd:      &studyEnd,
			TotalEvents:   &events,
			ConfigParams:  &params,
		},
		{RunID: 2, StartTime: end},
	}

	require.NoError(t, WriteRows(ConvertForecastRunRecords(records), outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	rows, err := ReadRows[ForecastRun](outputPath)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(1), rows[0].RunID)
	require.NotNil(t, rows[0].EndTime)
	assert.WithinDuration(t, end, *rows[0].EndTime, time.Nanosecond)
	require.NotNil(t, rows[0].StudyEnd)
	assert.Equal(t, "2025-01-07", *rows[0].StudyEnd)
	assert.Equal(t, duration, *rows[0].RunDurationMs)
	assert.Nil(t, rows[0].TotalDays)

	assert.Nil(t, rows[1].EndTime)
	assert.Nil(t, rows[1].StudyEnd)
	assert.Nil(t, rows[1].ConfigParams)
}

func TestWriteAndReadDaily(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "daily.parquet")
	daily := []schema.DailyRecord{
		{Date: day("2025-01-02"), ActiveCount: 2, Cumulative: 2},
		{Date: day("2025-01-03"), ActiveCount: 2, Cumulative: 4},
	}

	require.NoError(t, WriteRows(ConvertDaily(daily), outputPath))

	rows, err := ReadRows[DailyRow](outputPath)
	require.NoError(t, err)
	assert.Equal(t, []DailyRow{
		{Date: "2025-01-02", ActiveCount: 2, Cumulative: 2},
		{Date: "2025-01-03", ActiveCount: 2, Cumulative: 4},
	}, rows)
}

func TestWriteRows_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteRows([]IntervalRow{}, outputPath))

	rows, err := ReadRows[IntervalRow](outputPath)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriteRows_InvalidPath(t *testing.T) {
	err := WriteRows([]DailyRow{{Date: "2025-01-01"}}, "/nonexistent/dir/out.parquet")
	assert.Error(t, err)
}

func TestReadRows_MissingFile(t *testing.T) {
	_, err := ReadRows[schema.EventRow](filepath.Join(t.TempDir(), "missing.parquet"))
	assert.Error(t, err)
}

func TestReadRows_EventRows(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "events.parquet")
	events := []schema.EventRow{
		{Date: "2025-01-02", Event: "entrada", Worker: "A"},
		{Date: "2025-01-05", Event: "saida", Worker: "A"},
	}
	require.NoError(t, WriteRows(events, outputPath))

	rows, err := ReadRows[schema.EventRow](outputPath)
	require.NoError(t, err)
	assert.Equal(t, events, rows)
}

func TestConvertIntervals(t *testing.T) {
	rows := ConvertIntervals([]schema.Interval{
		{Start: day("2025-01-02"), End: day("2025-01-04"), ActiveCount: 2},
	})
	assert.Equal(t, []IntervalRow{{Start: "2025-01-02", End: "2025-01-04", Days: 3, ActiveCount: 2}}, rows)
}

func TestConvertProgress_NullsPastActual(t *testing.T) {
	points := []schema.ProgressPoint{
		{Date: day("2025-01-02"), Expected: 1, Actual: 1},
		{Date: day("2025-01-03"), Expected: 2, Actual: 1},
		{Date: day("2025-01-06"), Expected: 3, Actual: 1},
	}

	rows := ConvertProgress("team", points, 2, schema.BehindPace)
	require.Len(t, rows, 3)
	require.NotNil(t, rows[1].Actual)
	assert.Equal(t, int32(1), *rows[1].Actual)
	assert.Nil(t, rows[2].Actual)
	assert.Equal(t, "behind", rows[0].Pace)

	all := ConvertProgress("A", points, -1, schema.OnTrackPace)
	assert.NotNil(t, all[2].Actual)
}

func TestConvertWorkerSummaries(t *testing.T) {
	rows := ConvertWorkerSummaries([]schema.WorkerSummary{
		{Worker: "A", Tasks: 3, Completed: 2, TimedTasks: 2, MeanBusinessDay: 1.5},
	})
	assert.Equal(t, []WorkerSummaryRow{{Worker: "A", Tasks: 3, Completed: 2, TimedTasks: 2, MeanBusinessDays: 1.5}}, rows)
}
