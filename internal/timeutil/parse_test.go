package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateFormats(t *testing.T) {
	for _, tc := range []struct {
		in     string
		want   string // UTC, RFC3339
		format DateFormat
	}{
		{"2026-03-15T10:30:00Z", "2026-03-15T10:30:00Z", FormatISO8601},
		{"2026-03-15T10:30:00.500Z", "2026-03-15T10:30:00Z", FormatISO8601},
		{"2026-03-15T12:30:00+02:00", "2026-03-15T10:30:00Z", FormatISO8601},
		{"2026-03-15T10:30:00", "2026-03-15T10:30:00Z", FormatISO8601},
		{"2026-03-15 10:30:00", "2026-03-15T10:30:00Z", FormatDateTime},
		{"2026-03-15 10:30", "2026-03-15T10:30:00Z", FormatDateTime},
		{"2026-03-15", "2026-03-15T00:00:00Z", FormatDateOnly},
		{"03/15/2026 10:30", "2026-03-15T10:30:00Z", FormatSlashMDY},
		{"03/04/2026", "2026-03-04T00:00:00Z", FormatSlashMDY}, // ambiguous: month-first wins
		{"15/03/2026 10:30:00", "2026-03-15T10:30:00Z", FormatSlashDMY},
		{"15-MAR-2026 10:30", "2026-03-15T10:30:00Z", FormatDayMonthAbbr},
		{"15-mar-2026", "2026-03-15T00:00:00Z", FormatDayMonthAbbr},
		{"MAR 15 2026 10:30:00", "2026-03-15T10:30:00Z", FormatMonthAbbrDay},
	} {
		got, format, err := ParseDate(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got.Format(time.RFC3339), tc.in)
		assert.Equal(t, tc.format, format, tc.in)
		assert.Equal(t, time.UTC, got.Location(), tc.in)
	}
}

func TestParseDateFractionalSeconds(t *testing.T) {
	got, _, err := ParseDate("2026-03-15T10:30:00.123Z")
	require.NoError(t, err)
	assert.Equal(t, 123000000, got.Nanosecond())
}

func TestParseDateDayFirstPreference(t *testing.T) {
	got, format, err := ParseDateIn("03/04/2026", DatePrefs{DayFirst: true})
	require.NoError(t, err)
	assert.Equal(t, FormatSlashDMY, format)
	assert.Equal(t, "2026-04-03", got.Format("2006-01-02"))
}

// When month-first cannot yield a real calendar date, day-first wins
// even without a preference.
func TestParseDateFallsThroughToDayFirst(t *testing.T) {
	got, format, err := ParseDate("25/12/2026")
	require.NoError(t, err)
	assert.Equal(t, FormatSlashDMY, format)
	assert.Equal(t, "2026-12-25", got.Format("2006-01-02"))
}

func TestParseDateNaiveInLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)
	got, _, err := ParseDateIn("2026-07-01 12:00", DatePrefs{Location: loc})
	require.NoError(t, err)
	// Madrid is UTC+2 in July.
	assert.Equal(t, "2026-07-01T10:00:00Z", got.Format(time.RFC3339))
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "not a date", "2026-13-01", "32/13/2026", "10:30:00"} {
		_, _, err := ParseDate(in)
		assert.ErrorIs(t, err, ErrUnrecognizedDate, in)
	}
}

// parse(format_iso(parse(s))) must equal parse(s) for any valid s.
func TestParseDateRoundTrip(t *testing.T) {
	for _, in := range []string{
		"2026-03-15T10:30:00Z",
		"2026-03-15 10:30",
		"15-MAR-2026 10:30",
		"03/15/2026",
	} {
		first, _, err := ParseDate(in)
		require.NoError(t, err)
		second, format, err := ParseDate(first.Format(time.RFC3339))
		require.NoError(t, err)
		assert.Equal(t, FormatISO8601, format)
		assert.True(t, first.Equal(second), in)
	}
}
