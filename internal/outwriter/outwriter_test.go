package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/crewcast/internal/contract"
	"github.com/huangsam/crewcast/internal/parquet"
	"github.com/huangsam/crewcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.Parse(schema.DayLayout, s)
	return t
}

// sampleForecast is A and B entering on Jan 2 and A leaving on Jan 5.
func sampleForecast() schema.ForecastResult {
	return schema.ForecastResult{
		StudyEnd: day("2025-01-07"),
		Intervals: []schema.Interval{
			{Start: day("2025-01-02"), End: day("2025-01-04"), ActiveCount: 2},
			{Start: day("2025-01-05"), End: day("2025-01-07"), ActiveCount: 1},
		},
		Daily: []schema.DailyRecord{
			{Date: day("2025-01-02"), ActiveCount: 2, Cumulative: 2},
			{Date: day("2025-01-03"), ActiveCount: 2, Cumulative: 4},
			{Date: day("2025-01-04"), ActiveCount: 2, Cumulative: 6},
			{Date: day("2025-01-05"), ActiveCount: 1, Cumulative: 7},
			{Date: day("2025-01-06"), ActiveCount: 1, Cumulative: 8},
			{Date: day("2025-01-07"), ActiveCount: 1, Cumulative: 9},
		},
	}
}

func testConfig(output schema.OutputMode, outputFile string) *contract.Config {
	return &contract.Config{
		Output:       output,
		OutputFile:   outputFile,
		Precision:    1,
		Width:        120,
		CacheBackend: schema.SQLiteBackend,
		Horizon:      day("2025-01-10"),
	}
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestPrintIntervalsFormats(t *testing.T) {
	dir := t.TempDir()

	t.Run("csv", func(t *testing.T) {
		out := filepath.Join(dir, "intervals.csv")
		require.NoError(t, PrintIntervals(sampleForecast(), testConfig(schema.CSVOut, out), time.Second))
		assert.Equal(t, "start,end,days,active_count\n2025-01-02,2025-01-04,3,2\n2025-01-05,2025-01-07,3,1\n", readOutput(t, out))
	})

	t.Run("json", func(t *testing.T) {
		out := filepath.Join(dir, "intervals.json")
		require.NoError(t, PrintIntervals(sampleForecast(), testConfig(schema.JSONOut, out), time.Second))

		var got []schema.EnrichedInterval
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, out)), &got))
		require.Len(t, got, 2)
		assert.Equal(t, 2, got[1].Index)
		assert.Equal(t, 3, got[1].Days)
		assert.Equal(t, 1, got[1].ActiveCount)
	})

	t.Run("parquet", func(t *testing.T) {
		out := filepath.Join(dir, "intervals.parquet")
		require.NoError(t, PrintIntervals(sampleForecast(), testConfig(schema.ParquetOut, out), time.Second))

		rows, err := parquet.ReadRows[parquet.IntervalRow](out)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("parquet needs a file", func(t *testing.T) {
		err := PrintIntervals(sampleForecast(), testConfig(schema.ParquetOut, ""), time.Second)
		assert.Error(t, err)
	})

	t.Run("text", func(t *testing.T) {
		out := filepath.Join(dir, "intervals.txt")
		require.NoError(t, PrintIntervals(sampleForecast(), testConfig(schema.TextOut, out), time.Second))

		text := readOutput(t, out)
		assert.Contains(t, text, "2025-01-05")
		assert.Contains(t, text, "Showing 2 intervals through 2025-01-07")
		assert.Contains(t, text, "Cache backend: sqlite")
	})
}

func TestPrintDailyFormats(t *testing.T) {
	dir := t.TempDir()

	t.Run("csv", func(t *testing.T) {
		out := filepath.Join(dir, "daily.csv")
		require.NoError(t, PrintDaily(sampleForecast(), testConfig(schema.CSVOut, out), time.Second))

		lines := strings.Split(strings.TrimSpace(readOutput(t, out)), "\n")
		require.Len(t, lines, 7)
		assert.Equal(t, "date,active_count,cumulative", lines[0])
		assert.Equal(t, "2025-01-07,1,9", lines[6])
	})

	t.Run("json", func(t *testing.T) {
		out := filepath.Join(dir, "daily.json")
		require.NoError(t, PrintDaily(sampleForecast(), testConfig(schema.JSONOut, out), time.Second))

		var got []schema.DailyRecord
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, out)), &got))
		assert.Equal(t, sampleForecast().Daily, got)
	})

	t.Run("text totals", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeDailyTable(&buf, sampleForecast(), testConfig(schema.TextOut, ""), time.Second))
		assert.Contains(t, buf.String(), "Showing 6 days (expected total: 9)")
		assert.Contains(t, buf.String(), "Thu")
	})

	t.Run("text empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeDailyTable(&buf, schema.ForecastResult{}, testConfig(schema.TextOut, ""), time.Second))
		assert.Contains(t, buf.String(), "Showing 0 days (expected total: 0)")
	})
}

func sampleProgress() []schema.WorkerProgress {
	return []schema.WorkerProgress{
		{
			Worker: "ana",
			Start:  day("2025-01-06"),
			Points: []schema.ProgressPoint{
				{Date: day("2025-01-06"), Expected: 1, Actual: 0},
				{Date: day("2025-01-07"), Expected: 2, Actual: 3},
			},
			Pace: schema.AheadPace,
		},
		{Worker: "bruno", Pace: schema.NoDataPace},
	}
}

func TestPrintWorkerProgress(t *testing.T) {
	dir := t.TempDir()

	t.Run("csv", func(t *testing.T) {
		out := filepath.Join(dir, "progress.csv")
		require.NoError(t, PrintWorkerProgress(sampleProgress(), testConfig(schema.CSVOut, out), time.Second))
		assert.Equal(t, "worker,date,expected,actual,pace\nana,2025-01-06,1,0,ahead\nana,2025-01-07,2,3,ahead\n", readOutput(t, out))
	})

	t.Run("json", func(t *testing.T) {
		out := filepath.Join(dir, "progress.json")
		require.NoError(t, PrintWorkerProgress(sampleProgress(), testConfig(schema.JSONOut, out), time.Second))

		var got []schema.EnrichedWorkerProgress
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, out)), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "Ahead", got[0].Label)
		assert.Equal(t, 1, got[0].Gap)
		assert.Equal(t, "No data", got[1].Label)
	})

	t.Run("parquet", func(t *testing.T) {
		out := filepath.Join(dir, "progress.parquet")
		require.NoError(t, PrintWorkerProgress(sampleProgress(), testConfig(schema.ParquetOut, out), time.Second))
		rows, err := parquet.ReadRows[parquet.ProgressRow](out)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.NotNil(t, rows[1].Actual)
		assert.Equal(t, int32(3), *rows[1].Actual)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeWorkerProgressTable(&buf, sampleProgress(), testConfig(schema.TextOut, ""), time.Second))
		text := buf.String()
		assert.Contains(t, text, "+1")
		assert.Contains(t, text, "No data")
		assert.Contains(t, text, "Showing 2 workers through 2025-01-10")
	})

	t.Run("text single worker shows the curve", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeWorkerProgressTable(&buf, sampleProgress()[:1], testConfig(schema.TextOut, ""), time.Second))
		assert.Equal(t, 2, strings.Count(buf.String(), "2025-01-06"))
	})
}

func sampleTeam() schema.TeamProgress {
	last := day("2025-01-07")
	return schema.TeamProgress{
		TotalTasks: 5,
		Completed:  2,
		Points: []schema.ProgressPoint{
			{Date: day("2025-01-06"), Expected: 2, Actual: 1},
			{Date: day("2025-01-07"), Expected: 4, Actual: 2},
			{Date: day("2025-01-08"), Expected: 5, Actual: 2},
		},
		ActualPoints:   2,
		LastCompletion: &last,
		Pace:           schema.BehindPace,
	}
}

func TestPrintTeamProgress(t *testing.T) {
	dir := t.TempDir()

	t.Run("csv leaves actual blank past last completion", func(t *testing.T) {
		out := filepath.Join(dir, "team.csv")
		require.NoError(t, PrintTeamProgress(sampleTeam(), testConfig(schema.CSVOut, out), time.Second))
		assert.Equal(t, "date,expected,actual\n2025-01-06,2,1\n2025-01-07,4,2\n2025-01-08,5,\n", readOutput(t, out))
	})

	t.Run("parquet", func(t *testing.T) {
		out := filepath.Join(dir, "team.parquet")
		require.NoError(t, PrintTeamProgress(sampleTeam(), testConfig(schema.ParquetOut, out), time.Second))
		rows, err := parquet.ReadRows[parquet.ProgressRow](out)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "team", rows[0].Worker)
		assert.Nil(t, rows[2].Actual)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeTeamProgressTable(&buf, sampleTeam(), testConfig(schema.TextOut, ""), time.Second))
		assert.Contains(t, buf.String(), "Completed 2 of 5 tasks (last completion: 2025-01-07). Pace: Behind")
	})
}

func sampleSummary() schema.TaskSummary {
	return schema.TaskSummary{
		TotalTasks:     4,
		Completed:      3,
		CompletionRate: 0.75,
		StatusCounts:   map[string]int{"Finalizada": 3, "Em execução": 1},
		Workers: []schema.WorkerSummary{
			{Worker: "ana", Tasks: 3, Completed: 3, TimedTasks: 3, MeanBusinessDay: 1.5},
			{Worker: "unknown", Tasks: 1},
		},
	}
}

func TestPrintTaskSummary(t *testing.T) {
	dir := t.TempDir()

	t.Run("csv", func(t *testing.T) {
		out := filepath.Join(dir, "summary.csv")
		require.NoError(t, PrintTaskSummary(sampleSummary(), testConfig(schema.CSVOut, out), time.Second))
		assert.Equal(t, "worker,tasks,completed,timed_tasks,mean_business_days\nana,3,3,3,1.5\nunknown,1,0,0,0.0\n", readOutput(t, out))
	})

	t.Run("json", func(t *testing.T) {
		out := filepath.Join(dir, "summary.json")
		require.NoError(t, PrintTaskSummary(sampleSummary(), testConfig(schema.JSONOut, out), time.Second))
		var got schema.TaskSummary
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, out)), &got))
		assert.Equal(t, sampleSummary(), got)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := testConfig(schema.TextOut, "")
		fmtFloat, intFmt := createFormatters(cfg.Precision)
		require.NoError(t, writeSummaryTables(&buf, sampleSummary(), cfg, fmtFloat, intFmt, time.Second))
		assert.Contains(t, buf.String(), "Completed 3 of 4 tasks (75.0%)")
	})
}

func TestSortedStatuses(t *testing.T) {
	got := sortedStatuses(map[string]int{"b": 1, "a": 1, "c": 5})
	assert.Equal(t, []string{"c", "a", "b"}, got)
}

func TestFormatGap(t *testing.T) {
	assert.Equal(t, "+2", formatGap(2))
	assert.Equal(t, "0", formatGap(0))
	assert.Equal(t, "-3", formatGap(-3))
}

func TestPaceLabelColors(t *testing.T) {
	cfg := &contract.Config{UseColors: false}
	assert.Equal(t, "Behind", paceLabel(schema.BehindPace, cfg))

	cfg.UseColors = true
	assert.Contains(t, paceLabel(schema.BehindPace, cfg), "Behind")
}

func TestGetMaxTableWorkerWidth(t *testing.T) {
	assert.Equal(t, 10, getMaxTableWorkerWidth(&contract.Config{Width: 60}))
	assert.Equal(t, 30, getMaxTableWorkerWidth(&contract.Config{Width: 100}))
	assert.Equal(t, 40, getMaxTableWorkerWidth(&contract.Config{Width: 300}))
}
