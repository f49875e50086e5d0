// Package parquet provides data structures and functions for moving crewcast
// tables in and out of Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/crewcast/schema"
	"github.com/parquet-go/parquet-go"
)

// ForecastRun represents a single tracked forecast run with metadata.
// This struct maps to the crewcast_forecast_runs database table.
type ForecastRun struct {
	// RunID is the unique identifier for this forecast run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// StudyEnd is the last day covered by the forecast (nullable)
	StudyEnd *string `parquet:"study_end,optional,snappy"`

	// TotalEvents is the number of parsed operator events (nullable)
	TotalEvents *int32 `parquet:"total_events,optional,snappy"`

	// TotalDays is the number of projected days (nullable)
	TotalDays *int32 `parquet:"total_days,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ForecastDay represents one projected day of a tracked run.
// This struct maps to the crewcast_forecast_days database table.
type ForecastDay struct {
	RunID       int64  `parquet:"run_id,snappy"`
	Day         string `parquet:"day,snappy"`
	ActiveCount int32  `parquet:"active_count,snappy"`
	Cumulative  int32  `parquet:"cumulative,snappy"`
}

// IntervalRow is the Parquet shape of a reconstructed interval.
type IntervalRow struct {
	Start       string `parquet:"start,snappy"`
	End         string `parquet:"end,snappy"`
	Days        int32  `parquet:"days,snappy"`
	ActiveCount int32  `parquet:"active_count,snappy"`
}

// DailyRow is the Parquet shape of a projected day.
type DailyRow struct {
	Date        string `parquet:"date,snappy"`
	ActiveCount int32  `parquet:"active_count,snappy"`
	Cumulative  int32  `parquet:"cumulative,snappy"`
}

// ProgressRow is one business day of a worker or team progress curve.
type ProgressRow struct {
	Worker   string `parquet:"worker,snappy"`
	Date     string `parquet:"date,snappy"`
	Expected int32  `parquet:"expected,snappy"`
	Actual   *int32 `parquet:"actual,optional,snappy"`
	Pace     string `parquet:"pace,snappy"`
}

// WorkerSummaryRow is the Parquet shape of a per-worker task summary.
type WorkerSummaryRow struct {
	Worker           string  `parquet:"worker,snappy"`
	Tasks            int32   `parquet:"tasks,snappy"`
	Completed        int32   `parquet:"completed,snappy"`
	TimedTasks       int32   `parquet:"timed_tasks,snappy"`
	MeanBusinessDays float64 `parquet:"mean_business_days,snappy"`
}

// WriteRows writes a slice of rows to a Parquet file.
// The schema is derived from the struct tags of T.
func WriteRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ReadRows loads every row of a Parquet file into memory.
func ReadRows[T any](inputPath string) ([]T, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read parquet rows: %w", err)
	}
	return rows[:n], nil
}

// ConvertForecastRunRecords converts schema.ForecastRunRecord to ForecastRun for Parquet export.
func ConvertForecastRunRecords(records []schema.ForecastRunRecord) []ForecastRun {
	result := make([]ForecastRun, len(records))
	for i, record := range records {
		var studyEnd *string
		if record.StudyEnd != nil {
			s := schema.FormatDay(*record.StudyEnd)
			studyEnd = &s
		}
		result[i] = ForecastRun{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			StudyEnd:      studyEnd,
			TotalEvents:   record.TotalEvents,
			TotalDays:     record.TotalDays,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertForecastDayRecords converts schema.ForecastDayRecord to ForecastDay for Parquet export.
func ConvertForecastDayRecords(records []schema.ForecastDayRecord) []ForecastDay {
	result := make([]ForecastDay, len(records))
	for i, record := range records {
		result[i] = ForecastDay{
			RunID:       record.RunID,
			Day:         schema.FormatDay(record.Day),
			ActiveCount: record.ActiveCount,
			Cumulative:  record.Cumulative,
		}
	}
	return result
}

// ConvertIntervals flattens intervals for Parquet output.
func ConvertIntervals(intervals []schema.Interval) []IntervalRow {
	result := make([]IntervalRow, len(intervals))
	for i, iv := range intervals {
		result[i] = IntervalRow{
			Start:       schema.FormatDay(iv.Start),
			End:         schema.FormatDay(iv.End),
			Days:        int32(iv.Days()),
			ActiveCount: int32(iv.ActiveCount),
		}
	}
	return result
}

// ConvertDaily flattens daily records for Parquet output.
func ConvertDaily(daily []schema.DailyRecord) []DailyRow {
	result := make([]DailyRow, len(daily))
	for i, d := range daily {
		result[i] = DailyRow{
			Date:        schema.FormatDay(d.Date),
			ActiveCount: int32(d.ActiveCount),
			Cumulative:  int32(d.Cumulative),
		}
	}
	return result
}

// ConvertProgress flattens progress curves for Parquet output.
// Points past actualPoints get a null actual value; a negative actualPoints keeps them all.
func ConvertProgress(worker string, points []schema.ProgressPoint, actualPoints int, pace schema.Pace) []ProgressRow {
	result := make([]ProgressRow, len(points))
	for i, p := range points {
		row := ProgressRow{
			Worker:   worker,
			Date:     schema.FormatDay(p.Date),
			Expected: int32(p.Expected),
			Pace:     string(pace),
		}
		if actualPoints < 0 || i < actualPoints {
			actual := int32(p.Actual)
			row.Actual = &actual
		}
		result[i] = row
	}
	return result
}

// ConvertWorkerSummaries flattens per-worker summaries for Parquet output.
func ConvertWorkerSummaries(workers []schema.WorkerSummary) []WorkerSummaryRow {
	result := make([]WorkerSummaryRow, len(workers))
	for i, w := range workers {
		result[i] = WorkerSummaryRow{
			Worker:           w.Worker,
			Tasks:            int32(w.Tasks),
			Completed:        int32(w.Completed),
			TimedTasks:       int32(w.TimedTasks),
			MeanBusinessDays: w.MeanBusinessDay,
		}
	}
	return result
}
