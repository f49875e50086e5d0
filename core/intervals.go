package core

import (
	"maps"
	"time"

	"github.com/huangsam/crewcast/schema"
)

// activeSet holds the workers on duty as of the fold cursor.
type activeSet map[string]struct{}

// apply returns the set that results from one day of changes.
// Exits are removed before entries are added. Removing a worker that is not
// active is a no-op. The receiver is left untouched.
func (s activeSet) apply(day schema.DayChangeSet) activeSet {
	next := make(activeSet, len(s))
	maps.Copy(next, s)
	for _, c := range day.Changes {
		if c.Delta < 0 {
			delete(next, c.Worker)
		}
	}
	for _, c := range day.Changes {
		if c.Delta > 0 {
			next[c.Worker] = struct{}{}
		}
	}
	return next
}

// foldState is threaded through the reconstruction, one event day at a time.
type foldState struct {
	cursor time.Time
	active activeSet
}

// step closes the interval running up to the day before the given event day,
// if it is non-empty, and applies the day's changes.
func step(st foldState, day schema.DayChangeSet) (foldState, *schema.Interval) {
	var closed *schema.Interval
	if day.Date.After(st.cursor) {
		end := day.Date.AddDate(0, 0, -1)
		if !end.Before(st.cursor) {
			closed = &schema.Interval{Start: st.cursor, End: end, ActiveCount: len(st.active)}
		}
	}
	return foldState{cursor: day.Date, active: st.active.apply(day)}, closed
}

// ReconstructIntervals folds events into ordered, disjoint, gap-free intervals
// covering the first event day through studyEnd, each tagged with the number of
// workers active throughout it. No final interval is emitted when studyEnd falls
// before the last event day. Zero events yield an empty list.
func ReconstructIntervals(events []schema.Event, studyEnd time.Time) []schema.Interval {
	days := BuildDayChanges(events)
	intervals := make([]schema.Interval, 0, len(days)+1)
	if len(days) == 0 {
		return intervals
	}

	end := schema.DateOnly(studyEnd)
	st := foldState{cursor: days[0].Date, active: activeSet{}}
	for _, day := range days {
		var closed *schema.Interval
		st, closed = step(st, day)
		if closed != nil {
			intervals = append(intervals, *closed)
		}
	}

	if !st.cursor.After(end) {
		intervals = append(intervals, schema.Interval{Start: st.cursor, End: end, ActiveCount: len(st.active)})
	}
	return intervals
}

// ResolveStudyEnd picks the last day of the study window.
// An explicit day wins; otherwise the window runs to the later of the last
// event day and now, so the forecast keeps growing after the log goes quiet.
func ResolveStudyEnd(events []schema.Event, explicit, now time.Time) time.Time {
	if !explicit.IsZero() {
		return schema.DateOnly(explicit)
	}
	end := schema.DateOnly(now)
	for _, e := range events {
		if d := schema.DateOnly(e.Date); d.After(end) {
			end = d
		}
	}
	return end
}
