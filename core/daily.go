package core

import (
	"slices"
	"time"

	"github.com/huangsam/crewcast/schema"
)

// ProjectDaily expands intervals into one record per calendar day and fills in
// the running total of active workers. Records are sorted by day before the
// prefix sum so the output does not depend on interval order.
func ProjectDaily(intervals []schema.Interval) []schema.DailyRecord {
	total := 0
	for _, iv := range intervals {
		if !iv.End.Before(iv.Start) {
			total += iv.Days()
		}
	}

	records := make([]schema.DailyRecord, 0, total)
	for _, iv := range intervals {
		for day := iv.Start; !day.After(iv.End); day = day.AddDate(0, 0, 1) {
			records = append(records, schema.DailyRecord{Date: day, ActiveCount: iv.ActiveCount})
		}
	}

	slices.SortStableFunc(records, func(a, b schema.DailyRecord) int {
		return a.Date.Compare(b.Date)
	})

	cumulative := 0
	for i := range records {
		cumulative += records[i].ActiveCount
		records[i].Cumulative = cumulative
	}
	return records
}

// BuildForecast runs the reconstruction and the daily projection for one study window.
func BuildForecast(events []schema.Event, studyEnd time.Time) schema.ForecastResult {
	intervals := ReconstructIntervals(events, studyEnd)
	return schema.ForecastResult{
		StudyEnd:  schema.DateOnly(studyEnd),
		Intervals: intervals,
		Daily:     ProjectDaily(intervals),
	}
}
