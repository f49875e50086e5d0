// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/crewcast/schema"
)

// EventSource yields the raw rows of an operator event table.
// This allows the forecast to be tested without files or databases.
type EventSource interface {
	ReadEvents(ctx context.Context) ([]schema.EventRow, error)
}

// TaskSource yields the raw rows of a task table.
type TaskSource interface {
	ReadTasks(ctx context.Context) ([]schema.TaskRow, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetForecastStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking forecast runs and their daily series.
type HistoryStore interface {
	// BeginRun creates a new forecast run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the forecast run with completion data
	EndRun(runID int64, endTime time.Time, studyEnd time.Time, totalEvents int, totalDays int) error

	// RecordDays stores the daily forecast of a run
	RecordDays(runID int64, days []schema.DailyRecord) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run, oldest first
	GetAllRuns() ([]schema.ForecastRunRecord, error)

	// GetAllDays returns every recorded forecast day, ordered by run and day
	GetAllDays() ([]schema.ForecastDayRecord, error)

	// Close closes the underlying connection
	Close() error
}
