package schema

import "time"

// TaskRow is an unparsed task record as read from a source.
type TaskRow struct {
	ID     string `json:"id" parquet:"id"`
	Name   string `json:"name" parquet:"name"`
	Worker string `json:"worker" parquet:"worker"`
	Start  string `json:"start" parquet:"start"`
	End    string `json:"end" parquet:"end"`
	Status string `json:"status" parquet:"status"`
}

// Task is a unit of work assigned to a worker.
type Task struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Worker string     `json:"worker"`
	Start  *time.Time `json:"start,omitempty"`
	End    *time.Time `json:"end,omitempty"`
	Status string     `json:"status"`
}

// ProgressPoint is one business day of an expected-vs-actual curve.
type ProgressPoint struct {
	Date     time.Time `json:"date"`
	Expected int       `json:"expected"`
	Actual   int       `json:"actual"`
}

// WorkerProgress is the business-day progress curve of a single worker.
type WorkerProgress struct {
	Worker string          `json:"worker"`
	Start  time.Time       `json:"start"`
	Points []ProgressPoint `json:"points"`
	Pace   Pace            `json:"pace"`
}

// TeamProgress compares headcount-driven expectations with completed tasks.
// Completed only counts tasks that carry an end timestamp, since only those
// can be placed on the curve.
type TeamProgress struct {
	TotalTasks     int             `json:"total_tasks"`
	Completed      int             `json:"completed"`
	Points         []ProgressPoint `json:"points"`
	ActualPoints   int             `json:"actual_points"` // Points[:ActualPoints] carry real progress
	LastCompletion *time.Time      `json:"last_completion,omitempty"`
	Pace           Pace            `json:"pace"`
}

// WorkerSummary aggregates the tasks of one worker.
type WorkerSummary struct {
	Worker          string  `json:"worker"`
	Tasks           int     `json:"tasks"`
	Completed       int     `json:"completed"`
	MeanBusinessDay float64 `json:"mean_business_days"`
	TimedTasks      int     `json:"timed_tasks"`
}

// TaskSummary aggregates a task table.
// Completed counts status matches whether or not the task has an end timestamp,
// so it can exceed TeamProgress.Completed for the same table.
type TaskSummary struct {
	TotalTasks     int             `json:"total_tasks"`
	Completed      int             `json:"completed"`
	CompletionRate float64         `json:"completion_rate"`
	StatusCounts   map[string]int  `json:"status_counts"`
	Workers        []WorkerSummary `json:"workers"`
}
