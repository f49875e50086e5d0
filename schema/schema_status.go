package schema

import "time"

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the forecast history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalDays     int              `json:"total_days"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// ForecastRunRecord represents a row from the crewcast_forecast_runs table.
type ForecastRunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	StudyEnd      *time.Time
	TotalEvents   *int32
	TotalDays     *int32
	ConfigParams  *string
}

// ForecastDayRecord represents a row from the crewcast_forecast_days table.
type ForecastDayRecord struct {
	RunID       int64
	Day         time.Time
	ActiveCount int32
	Cumulative  int32
}
