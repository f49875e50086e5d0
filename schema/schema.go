// Package schema has configs, models and global variables for all parts of crewcast.
package schema

import "time"

// EventRow is an unparsed row from an operator event table.
// Sources produce these verbatim so that date and label handling stays in one place.
type EventRow struct {
	Date   string `json:"date" parquet:"date"`
	Event  string `json:"event" parquet:"event"`
	Worker string `json:"worker" parquet:"worker"`
}

// Event is a single entry or exit of a worker on a calendar day.
type Event struct {
	Date   time.Time `json:"date"` // Calendar day at UTC midnight
	Kind   EventKind `json:"kind"`
	Worker string    `json:"worker"`
}

// WorkerDelta is the net effect of all events of one worker on one day.
type WorkerDelta struct {
	Worker string `json:"worker"`
	Delta  int    `json:"delta"` // +1 net entry, -1 net exit, 0 cancelled out
}

// DayChangeSet groups the net worker deltas of a single event date.
type DayChangeSet struct {
	Date    time.Time     `json:"date"`
	Changes []WorkerDelta `json:"changes"`
}

// Interval is a maximal date range with a constant number of active workers.
type Interval struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"` // Inclusive
	ActiveCount int       `json:"active_count"`
}

// Days returns the number of calendar days covered by the interval.
func (i Interval) Days() int {
	return int(i.End.Sub(i.Start).Hours()/24) + 1
}

// DailyRecord is one day of the expected-throughput forecast.
type DailyRecord struct {
	Date        time.Time `json:"date"`
	ActiveCount int       `json:"active_count"`
	Cumulative  int       `json:"cumulative"`
}

// ForecastResult bundles the reconstruction and projection of a single run.
type ForecastResult struct {
	StudyEnd  time.Time     `json:"study_end"`
	Intervals []Interval    `json:"intervals"`
	Daily     []DailyRecord `json:"daily"`
}
