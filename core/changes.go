package core

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/crewcast/internal/contract"
	"github.com/huangsam/crewcast/schema"
)

// Sentinel errors for event parsing.
var (
	ErrMalformedDate    = errors.New("malformed date")
	ErrUnknownEventKind = errors.New("unknown event kind")
)

// ParseEventKind maps an event label to its kind. Matching is case-insensitive.
// Unrecognized labels map to ExitEvent with ok set to false, which keeps the
// active count conservative for legacy data.
func ParseEventKind(label string) (kind schema.EventKind, ok bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "entrada", "entry", "in":
		return schema.EntryEvent, true
	case "saida", "saída", "exit", "out":
		return schema.ExitEvent, true
	default:
		return schema.ExitEvent, false
	}
}

// ParseEvents converts raw rows into events.
// A date that cannot be coerced into a calendar day fails the whole batch.
// In strict mode an unrecognized event label also fails the batch; otherwise it
// is counted in unknown and treated as an exit.
func ParseEvents(rows []schema.EventRow, strict bool) (events []schema.Event, unknown int, err error) {
	events = make([]schema.Event, 0, len(rows))
	for i, row := range rows {
		day, err := contract.ParseDay(row.Date)
		if err != nil {
			return nil, 0, fmt.Errorf("row %d: %w: %v", i+1, ErrMalformedDate, err)
		}
		kind, ok := ParseEventKind(row.Event)
		if !ok {
			if strict {
				return nil, 0, fmt.Errorf("row %d: %w: %q", i+1, ErrUnknownEventKind, row.Event)
			}
			unknown++
		}
		events = append(events, schema.Event{
			Date:   day,
			Kind:   kind,
			Worker: strings.TrimSpace(row.Worker),
		})
	}
	return events, unknown, nil
}

// kindDelta is the signed contribution of one event to its worker's daily net.
func kindDelta(kind schema.EventKind) int {
	if kind == schema.EntryEvent {
		return 1
	}
	return -1
}

// BuildDayChanges nets the events of each (day, worker) pair and groups the
// results by day in ascending order. Workers inside a day are sorted by id.
func BuildDayChanges(events []schema.Event) []schema.DayChangeSet {
	type dayWorker struct {
		day    time.Time
		worker string
	}

	net := make(map[dayWorker]int)
	for _, e := range events {
		k := dayWorker{day: schema.DateOnly(e.Date), worker: e.Worker}
		net[k] += kindDelta(e.Kind)
	}

	byDay := make(map[time.Time][]schema.WorkerDelta)
	for k, delta := range net {
		byDay[k.day] = append(byDay[k.day], schema.WorkerDelta{Worker: k.worker, Delta: delta})
	}

	days := slices.SortedFunc(maps.Keys(byDay), func(a, b time.Time) int {
		return a.Compare(b)
	})

	result := make([]schema.DayChangeSet, 0, len(days))
	for _, day := range days {
		changes := byDay[day]
		slices.SortFunc(changes, func(a, b schema.WorkerDelta) int {
			return strings.Compare(a.Worker, b.Worker)
		})
		result = append(result, schema.DayChangeSet{Date: day, Changes: changes})
	}
	return result
}
