package core

import (
	"maps"
	"slices"
	"strings"

	"github.com/huangsam/crewcast/schema"
)

// businessDaysSpanned counts weekdays in [start day, start day + whole days elapsed].
// A task that ends before it starts spans zero days.
func businessDaysSpanned(t schema.Task) int {
	if t.Start == nil || t.End == nil || t.End.Before(*t.Start) {
		return 0
	}
	elapsed := int(t.End.Sub(*t.Start).Hours() / 24)
	first := schema.DateOnly(*t.Start)
	n := 0
	for i := 0; i <= elapsed; i++ {
		if schema.IsBusinessDay(first.AddDate(0, 0, i)) {
			n++
		}
	}
	return n
}

// SummarizeTasks aggregates status counts, per-worker totals and mean business-day
// durations. Tasks missing a start or end timestamp are left out of the durations.
func SummarizeTasks(tasks []schema.Task, completedStatus string) schema.TaskSummary {
	summary := schema.TaskSummary{
		TotalTasks:   len(tasks),
		StatusCounts: make(map[string]int),
		Workers:      []schema.WorkerSummary{},
	}

	type acc struct {
		schema.WorkerSummary
		totalDays int
	}
	byWorker := make(map[string]*acc)
	for _, t := range tasks {
		summary.StatusCounts[t.Status]++
		w := schema.WorkerOrUnknown(t.Worker)
		a, ok := byWorker[w]
		if !ok {
			a = &acc{WorkerSummary: schema.WorkerSummary{Worker: w}}
			byWorker[w] = a
		}
		a.Tasks++
		if t.Status == completedStatus {
			a.Completed++
			summary.Completed++
		}
		if t.Start != nil && t.End != nil {
			a.TimedTasks++
			a.totalDays += businessDaysSpanned(t)
		}
	}

	if summary.TotalTasks > 0 {
		summary.CompletionRate = float64(summary.Completed) / float64(summary.TotalTasks)
	}

	for _, w := range slices.SortedFunc(maps.Keys(byWorker), strings.Compare) {
		a := byWorker[w]
		if a.TimedTasks > 0 {
			a.MeanBusinessDay = float64(a.totalDays) / float64(a.TimedTasks)
		}
		summary.Workers = append(summary.Workers, a.WorkerSummary)
	}
	return summary
}
