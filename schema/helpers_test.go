package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAbbreviateWorker(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"popcorn", "popcorn"},
		{"Samuel Huang", "Samuel H"},
		{"First Second Third", "First T"},
		{"  Alice  ", "Alice"},
		{"John   Doe", "John D"},
		{"Ava (Billy) Cathy", "Ava C"},
		{"Anne-Marie Smith", "Anne-Marie S"},
		{"J. R. R. Tolkien", "J T"},
		{"user@example.com", "user@example.com"},
		{"Hans Müller", "Hans M"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AbbreviateWorker(tt.name))
		})
	}
}

func TestFormatWorkers(t *testing.T) {
	assert.Equal(t, "Samuel H, op-7", FormatWorkers([]string{"Samuel Huang", "op-7"}))
	assert.Equal(t, "", FormatWorkers(nil))
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	in := time.Date(2025, time.January, 2, 22, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC), DateOnly(in))
	assert.Equal(t, "2025-01-02", FormatDay(in))
}

func TestIsBusinessDay(t *testing.T) {
	friday := time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC)
	assert.True(t, IsBusinessDay(friday))
	assert.False(t, IsBusinessDay(friday.AddDate(0, 0, 1)))
	assert.False(t, IsBusinessDay(friday.AddDate(0, 0, 2)))
	assert.True(t, IsBusinessDay(friday.AddDate(0, 0, 3)))
}

func TestWorkerOrUnknown(t *testing.T) {
	assert.Equal(t, "alice", WorkerOrUnknown(" alice "))
	assert.Equal(t, UnknownWorker, WorkerOrUnknown("   "))
}

func TestIntervalDays(t *testing.T) {
	start := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, Interval{Start: start, End: start}.Days())
	assert.Equal(t, 3, Interval{Start: start, End: start.AddDate(0, 0, 2)}.Days())
}
