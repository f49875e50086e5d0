package schema

import (
	"strings"
	"time"
	"unicode"
)

// DayLayout is the canonical calendar-day representation used in outputs and stores.
const DayLayout = "2006-01-02"

// DateOnly drops the time-of-day of t and pins it to UTC midnight of the same calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDay renders a calendar day with DayLayout.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// IsBusinessDay reports whether t falls on Monday through Friday.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// WorkerOrUnknown returns the trimmed worker id, or UnknownWorker when it is blank.
func WorkerOrUnknown(worker string) string {
	w := strings.TrimSpace(worker)
	if w == "" {
		return UnknownWorker
	}
	return w
}

// trimName strips punctuation around a name part while keeping hyphens and apostrophes.
func trimName(p string) string {
	cp := strings.TrimFunc(p, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-' && r != '\'' && r != '.'
	})
	return strings.TrimSuffix(cp, ".")
}

// AbbreviateWorker formats "Samuel Huang" to "Samuel H" for narrow tables.
// Single-part identifiers such as logins or e-mail addresses are returned unchanged.
func AbbreviateWorker(worker string) string {
	trimmed := strings.Trim(strings.TrimSpace(worker), "()\"'`")

	var parts []string
	for _, p := range strings.Fields(trimmed) {
		if cp := trimName(p); cp != "" {
			parts = append(parts, cp)
		}
	}

	switch len(parts) {
	case 0:
		return trimmed
	case 1:
		return parts[0]
	}
	last := []rune(parts[len(parts)-1])
	return parts[0] + " " + string(last[0])
}

// FormatWorkers formats worker names as "Samuel H, Jane D".
func FormatWorkers(workers []string) string {
	abbreviated := make([]string, 0, len(workers))
	for _, w := range workers {
		abbreviated = append(abbreviated, AbbreviateWorker(w))
	}
	return strings.Join(abbreviated, ", ")
}
