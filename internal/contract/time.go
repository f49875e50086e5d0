package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/crewcast/schema"
)

// timestampLayouts are tried in order when coercing a value into a point in time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	schema.DayLayout,
	"2006/01/02",
}

// isoPrefixLen is the length of "2006-01-02T15:04:05", the prefix kept when a
// value carries fractional seconds or a zone suffix we do not understand.
const isoPrefixLen = 19

// ParseTimestamp coerces a textual timestamp into a time.Time.
// Layouts without a zone are interpreted as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if len(s) > isoPrefixLen {
		prefix := s[:isoPrefixLen]
		for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, prefix); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ParseDay coerces a textual date or timestamp into a calendar day.
// Any time-of-day component is dropped.
func ParseDay(s string) (time.Time, error) {
	t, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, err
	}
	return schema.DateOnly(t), nil
}

// ParseOptionalTimestamp returns nil for blank or null-like values.
func ParseOptionalTimestamp(s string) (*time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "none", "nat":
		return nil, nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Define the regular expression to capture "N [units] ago"
// e.g., "2 years ago", "3 months ago", "1 week ago".
var relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day)s?\s+ago$`)

// ParseRelativeTime converts strings like "2 weeks ago" into a time.Time in the past.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := relativeTimeRe.FindStringSubmatch(s)

	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	value, _ := strconv.Atoi(matches[1])
	switch matches[2] {
	case "year":
		return now.AddDate(-value, 0, 0), nil
	case "month":
		return now.AddDate(0, -value, 0), nil
	case "week":
		return now.AddDate(0, 0, -7*value), nil
	default: // day
		return now.AddDate(0, 0, -value), nil
	}
}

// ParseDayOrRelative accepts an absolute date/timestamp, "today", or "N units ago".
func ParseDayOrRelative(s string, now time.Time) (time.Time, error) {
	if strings.EqualFold(strings.TrimSpace(s), "today") {
		return schema.DateOnly(now), nil
	}
	if t, err := ParseDay(s); err == nil {
		return t, nil
	}
	t, err := ParseRelativeTime(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected an ISO date, RFC3339 timestamp or 'N [units] ago', got %q", s)
	}
	return schema.DateOnly(t), nil
}
