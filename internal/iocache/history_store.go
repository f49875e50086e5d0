package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/crewcast/internal/contract"
	"github.com/huangsam/crewcast/schema"
)

// Table names for forecast history.
const (
	forecastRunsTable = "crewcast_forecast_runs"
	forecastDaysTable = "crewcast_forecast_days"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := OpenDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the forecast history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{forecastRunsTable, getCreateForecastRunsQuery(backend)},
		{forecastDaysTable, getCreateForecastDaysQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateForecastRunsQuery returns the CREATE TABLE query for crewcast_forecast_runs.
func getCreateForecastRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := QuoteTableName(forecastRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				study_end CHAR(10),
				total_events INT,
				total_days INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				study_end CHAR(10),
				total_events INT,
				total_days INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				study_end TEXT,
				total_events INTEGER,
				total_days INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateForecastDaysQuery returns the CREATE TABLE query for crewcast_forecast_days.
func getCreateForecastDaysQuery(backend schema.DatabaseBackend) string {
	quotedTableName := QuoteTableName(forecastDaysTable, backend)

	switch backend {
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				day CHAR(10) NOT NULL,
				active_count INT NOT NULL,
				cumulative INT NOT NULL,
				PRIMARY KEY (run_id, day)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				day TEXT NOT NULL,
				active_count INTEGER NOT NULL,
				cumulative INTEGER NOT NULL,
				PRIMARY KEY (run_id, day)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new forecast run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	// Serialize config params to JSON
	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := QuoteTableName(forecastRunsTable, hs.backend)

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, formatTime(startTime, hs.backend), string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, formatTime(startTime, hs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert forecast run: %w", err)
	}
	return runID, nil
}

// EndRun updates the forecast run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, studyEnd time.Time, totalEvents int, totalDays int) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	// First, get the start_time to calculate duration
	quotedTableName := QuoteTableName(forecastRunsTable, hs.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, Placeholder(hs.backend, 1))

	var start dbTime
	if err := hs.db.QueryRow(query, runID).Scan(&start); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	var durationMs int64
	if start.Time != nil {
		durationMs = endTime.Sub(*start.Time).Milliseconds()
	}

	p := func(n int) string { return Placeholder(hs.backend, n) }
	updateQuery := fmt.Sprintf(
		`UPDATE %s SET end_time = %s, run_duration_ms = %s, study_end = %s, total_events = %s, total_days = %s WHERE run_id = %s`,
		quotedTableName, p(1), p(2), p(3), p(4), p(5), p(6))

	_, err := hs.db.Exec(updateQuery,
		formatTime(endTime, hs.backend), durationMs, schema.FormatDay(studyEnd), totalEvents, totalDays, runID)
	if err != nil {
		return fmt.Errorf("failed to update forecast run: %w", err)
	}
	return nil
}

// RecordDays stores the daily forecast of a run in a single transaction.
func (hs *HistoryStoreImpl) RecordDays(runID int64, days []schema.DailyRecord) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil || len(days) == 0 {
		return nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`INSERT INTO %s (run_id, day, active_count, cumulative) VALUES (%s)`,
		QuoteTableName(forecastDaysTable, hs.backend), placeholders(hs.backend, 4))
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare day insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, d := range days {
		if _, err := stmt.Exec(runID, schema.FormatDay(d.Date), d.ActiveCount, d.Cumulative); err != nil {
			return fmt.Errorf("failed to insert day %s: %w", schema.FormatDay(d.Date), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit forecast days: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	runsTable := QuoteTableName(forecastRunsTable, hs.backend)

	// Get total runs
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		// Get last run info
		var last dbTime
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)
		if err := hs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &last); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		if last.Time != nil {
			status.LastRunTime = *last.Time
		}

		// Get oldest run time
		var oldest dbTime
		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable)
		if err := hs.db.QueryRow(oldestRunQuery).Scan(&oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		if oldest.Time != nil {
			status.OldestRunTime = *oldest.Time
		}
	}

	// Get table sizes
	for _, table := range []string{forecastRunsTable, forecastDaysTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", QuoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalDays = int(status.TableSizes[forecastDaysTable])

	return status, nil
}

// GetAllRuns retrieves all forecast runs from the store.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.ForecastRunRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, study_end, total_events, total_days, config_params
		FROM %s ORDER BY run_id`, QuoteTableName(forecastRunsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query forecast runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ForecastRunRecord
	for rows.Next() {
		var record schema.ForecastRunRecord
		var start, end dbTime
		var studyEnd *string
		if err := rows.Scan(&record.RunID, &start, &end, &record.RunDurationMs, &studyEnd,
			&record.TotalEvents, &record.TotalDays, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan forecast run: %w", err)
		}
		if start.Time != nil {
			record.StartTime = *start.Time
		}
		record.EndTime = end.Time
		if studyEnd != nil {
			day, err := contract.ParseDay(*studyEnd)
			if err != nil {
				return nil, fmt.Errorf("failed to parse study_end: %w", err)
			}
			record.StudyEnd = &day
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating forecast runs: %w", err)
	}
	return results, nil
}

// GetAllDays retrieves all recorded forecast days from the store.
func (hs *HistoryStoreImpl) GetAllDays() ([]schema.ForecastDayRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, day, active_count, cumulative FROM %s ORDER BY run_id, day`,
		QuoteTableName(forecastDaysTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query forecast days: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ForecastDayRecord
	for rows.Next() {
		var record schema.ForecastDayRecord
		var day string
		if err := rows.Scan(&record.RunID, &day, &record.ActiveCount, &record.Cumulative); err != nil {
			return nil, fmt.Errorf("failed to scan forecast day: %w", err)
		}
		parsed, err := contract.ParseDay(day)
		if err != nil {
			return nil, fmt.Errorf("failed to parse day: %w", err)
		}
		record.Day = parsed
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating forecast days: %w", err)
	}
	return results, nil
}
