package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{
			name:     "plain day",
			input:    "2025-01-02",
			expected: time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "space separated",
			input:    "2025-01-02 13:45:10",
			expected: time.Date(2025, time.January, 2, 13, 45, 10, 0, time.UTC),
		},
		{
			name:     "iso without zone",
			input:    "2025-01-02T13:45:10",
			expected: time.Date(2025, time.January, 2, 13, 45, 10, 0, time.UTC),
		},
		{
			name:     "rfc3339 utc",
			input:    "2025-01-02T13:45:10Z",
			expected: time.Date(2025, time.January, 2, 13, 45, 10, 0, time.UTC),
		},
		{
			name:     "database fractional seconds with short offset",
			input:    "2025-01-02 13:45:10.123456-03",
			expected: time.Date(2025, time.January, 2, 13, 45, 10, 0, time.UTC),
		},
		{
			name:     "surrounding whitespace",
			input:    "  2025/01/02 ",
			expected: time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
		},
		{name: "empty", input: "", expectError: true},
		{name: "garbage", input: "not-a-date", expectError: true},
		{name: "impossible day", input: "2025-02-30", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseTimestamp(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(result), "expected %s, got %s", tt.expected, result)
		})
	}
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2025-01-02T23:59:59Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC), day)

	_, err = ParseDay("02.01.2025")
	assert.Error(t, err)
}

func TestParseOptionalTimestamp(t *testing.T) {
	for _, s := range []string{"", "  ", "NULL", "None", "NaT"} {
		ts, err := ParseOptionalTimestamp(s)
		require.NoError(t, err, s)
		assert.Nil(t, ts, s)
	}

	ts, err := ParseOptionalTimestamp("2025-03-04 08:00:00")
	require.NoError(t, err)
	require.NotNil(t, ts)
	assert.Equal(t, 4, ts.Day())

	_, err = ParseOptionalTimestamp("yesterday-ish")
	assert.Error(t, err)
}

// TestParseRelativeTimeUnit covers various valid and invalid cases.
func TestParseRelativeTimeUnit(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{
			name:     "valid plural months (mixed case)",
			input:    "3 MoNtHs AgO",
			expected: fixedNow.AddDate(0, -3, 0),
		},
		{
			name:     "valid singular week (capitalized)",
			input:    "1 Week Ago",
			expected: fixedNow.AddDate(0, 0, -7),
		},
		{
			name:     "valid 10 days (upper case)",
			input:    "10 DAYS AGO",
			expected: fixedNow.AddDate(0, 0, -10),
		},
		{
			name:     "valid 2 years",
			input:    "2 years ago",
			expected: fixedNow.AddDate(-2, 0, 0),
		},
		{name: "invalid missing ago", input: "2 years", expectError: true},
		{name: "invalid bad unit (decades)", input: "4 decades ago", expectError: true},
		{name: "invalid negative", input: "-1 days ago", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseRelativeTime(tt.input, fixedNow)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseDayOrRelative(t *testing.T) {
	today := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)

	day, err := ParseDayOrRelative("today", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, today, day)

	day, err = ParseDayOrRelative("2025-01-07", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 7, 0, 0, 0, 0, time.UTC), day)

	day, err = ParseDayOrRelative("3 days ago", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, today.AddDate(0, 0, -3), day)

	_, err = ParseDayOrRelative("next tuesday", fixedNow)
	assert.ErrorContains(t, err, "next tuesday")
}
