package core

import (
	"maps"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/huangsam/crewcast/schema"
)

// isCompleted reports whether a task counts towards actual progress.
// The status must match exactly and the task must carry an end timestamp.
func isCompleted(t schema.Task, completedStatus string) bool {
	return t.Status == completedStatus && t.End != nil
}

// completionDays returns the sorted end days of completed tasks.
func completionDays(tasks []schema.Task, completedStatus string) []time.Time {
	var days []time.Time
	for _, t := range tasks {
		if isCompleted(t, completedStatus) {
			days = append(days, schema.DateOnly(*t.End))
		}
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
	return days
}

// completedBy counts the sorted completion days that fall on or before day.
func completedBy(sortedDays []time.Time, day time.Time) int {
	return sort.Search(len(sortedDays), func(i int) bool {
		return sortedDays[i].After(day)
	})
}

// earliestStart returns the first start day among tasks, if any task has one.
func earliestStart(tasks []schema.Task) (time.Time, bool) {
	var first time.Time
	found := false
	for _, t := range tasks {
		if t.Start == nil {
			continue
		}
		d := schema.DateOnly(*t.Start)
		if !found || d.Before(first) {
			first, found = d, true
		}
	}
	return first, found
}

// nextBusinessDay returns day itself when it is a weekday, else the following Monday.
func nextBusinessDay(day time.Time) time.Time {
	for !schema.IsBusinessDay(day) {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// ComparePace classifies the latest point of a progress curve.
func ComparePace(points []schema.ProgressPoint) schema.Pace {
	if len(points) == 0 {
		return schema.NoDataPace
	}
	last := points[len(points)-1]
	switch {
	case last.Actual > last.Expected:
		return schema.AheadPace
	case last.Actual < last.Expected:
		return schema.BehindPace
	default:
		return schema.OnTrackPace
	}
}

// ProjectWorkerProgress builds the business-day curve of one worker.
// Expected output is one unit per business day from the worker's first task start
// through horizon. Actual output counts the worker's completed tasks ending on or
// before each day. Tasks assigned to other workers are ignored.
func ProjectWorkerProgress(worker string, tasks []schema.Task, horizon time.Time, completedStatus string) schema.WorkerProgress {
	worker = schema.WorkerOrUnknown(worker)
	own := make([]schema.Task, 0, len(tasks))
	for _, t := range tasks {
		if schema.WorkerOrUnknown(t.Worker) == worker {
			own = append(own, t)
		}
	}

	result := schema.WorkerProgress{Worker: worker, Points: []schema.ProgressPoint{}}
	start, ok := earliestStart(own)
	if !ok {
		result.Pace = schema.NoDataPace
		return result
	}
	result.Start = start

	done := completionDays(own, completedStatus)
	end := schema.DateOnly(horizon)
	expected := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !schema.IsBusinessDay(day) {
			continue
		}
		expected++
		result.Points = append(result.Points, schema.ProgressPoint{
			Date:     day,
			Expected: expected,
			Actual:   completedBy(done, day),
		})
	}
	result.Pace = ComparePace(result.Points)
	return result
}

// ProjectAllWorkers builds one progress curve per worker, sorted by worker id.
// Tasks without a worker are grouped under schema.UnknownWorker.
func ProjectAllWorkers(tasks []schema.Task, horizon time.Time, completedStatus string) []schema.WorkerProgress {
	byWorker := make(map[string][]schema.Task)
	for _, t := range tasks {
		w := schema.WorkerOrUnknown(t.Worker)
		byWorker[w] = append(byWorker[w], t)
	}

	workers := slices.SortedFunc(maps.Keys(byWorker), strings.Compare)
	results := make([]schema.WorkerProgress, 0, len(workers))
	for _, w := range workers {
		results = append(results, ProjectWorkerProgress(w, byWorker[w], horizon, completedStatus))
	}
	return results
}

// ProjectTeamProgress compares headcount-driven expectations with completed tasks.
// Starting at the first business day on or after the earliest task start, the
// expected total grows by that day's active headcount and is capped at the number
// of tasks. Enumeration stops once the cap is reached or the daily projection ends.
// Actual progress is only reported up to the last business day with a completion.
func ProjectTeamProgress(tasks []schema.Task, daily []schema.DailyRecord, completedStatus string) schema.TeamProgress {
	done := completionDays(tasks, completedStatus)
	result := schema.TeamProgress{
		TotalTasks: len(tasks),
		Completed:  len(done),
		Points:     []schema.ProgressPoint{},
	}
	if len(done) > 0 {
		last := done[len(done)-1]
		result.LastCompletion = &last
	}

	start, ok := earliestStart(tasks)
	if !ok || len(daily) == 0 || len(tasks) == 0 {
		result.Pace = schema.NoDataPace
		return result
	}

	headcount := make(map[time.Time]int, len(daily))
	lastDay := daily[0].Date
	for _, r := range daily {
		headcount[schema.DateOnly(r.Date)] = r.ActiveCount
		if r.Date.After(lastDay) {
			lastDay = schema.DateOnly(r.Date)
		}
	}

	expected := 0
	for day := nextBusinessDay(start); !day.After(lastDay); day = nextBusinessDay(day.AddDate(0, 0, 1)) {
		expected = min(expected+headcount[day], result.TotalTasks)
		actual := completedBy(done, day)
		result.Points = append(result.Points, schema.ProgressPoint{Date: day, Expected: expected, Actual: actual})
		if result.LastCompletion != nil && !day.After(*result.LastCompletion) {
			result.ActualPoints = len(result.Points)
		}
		if expected >= result.TotalTasks {
			break
		}
	}

	if result.ActualPoints == 0 {
		result.Pace = schema.NoDataPace
		return result
	}
	result.Pace = ComparePace(result.Points[:result.ActualPoints])
	return result
}
