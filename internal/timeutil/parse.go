package timeutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// DateFormat tags the input format detected by ParseDate, for diagnostics.
type DateFormat int

const (
	FormatISO8601      DateFormat = iota // YYYY-MM-DDTHH:MM:SS[.sss][Z|±HH:MM]
	FormatDateTime                       // YYYY-MM-DD HH:MM[:SS]
	FormatDateOnly                       // YYYY-MM-DD
	FormatSlashMDY                       // MM/DD/YYYY [HH:MM[:SS]]
	FormatSlashDMY                       // DD/MM/YYYY [HH:MM[:SS]]
	FormatDayMonthAbbr                   // DD-MMM-YYYY [HH:MM[:SS]]
	FormatMonthAbbrDay                   // MMM DD YYYY [HH:MM[:SS]]
)

// String returns a short wire-stable tag for the format.
func (f DateFormat) String() string {
	switch f {
	case FormatISO8601:
		return "iso8601"
	case FormatDateTime:
		return "date_time"
	case FormatDateOnly:
		return "date_only"
	case FormatSlashMDY:
		return "mdy_slash"
	case FormatSlashDMY:
		return "dmy_slash"
	case FormatDayMonthAbbr:
		return "day_month_abbr"
	case FormatMonthAbbrDay:
		return "month_abbr_day"
	}
	return "unknown"
}

// ErrUnrecognizedDate is wrapped by ParseDate when no accepted format matches.
var ErrUnrecognizedDate = errors.New("unrecognized date format")

// DatePrefs lets the caller resolve the MM/DD vs DD/MM ambiguity and pin
// the timezone that naive (offset-less) inputs are interpreted in.  The
// zero value means: month-first wins ties, naive inputs are UTC.
type DatePrefs struct {
	DayFirst bool           // try DD/MM/YYYY before MM/DD/YYYY
	Location *time.Location // timezone for naive inputs; nil means UTC
}

type dateLayout struct {
	format  DateFormat
	layouts []string
	hasZone bool // layout carries its own offset
	month   bool // layout contains an alphabetic month abbreviation
}

var dateLayouts = []dateLayout{
	{FormatISO8601, []string{"2006-01-02T15:04:05Z07:00"}, true, false},
	{FormatISO8601, []string{"2006-01-02T15:04:05"}, false, false},
	{FormatDateTime, []string{"2006-01-02 15:04:05", "2006-01-02 15:04"}, false, false},
	{FormatDateOnly, []string{"2006-01-02"}, false, false},
	{FormatSlashMDY, []string{"01/02/2006 15:04:05", "01/02/2006 15:04", "01/02/2006"}, false, false},
	{FormatSlashDMY, []string{"02/01/2006 15:04:05", "02/01/2006 15:04", "02/01/2006"}, false, false},
	{FormatDayMonthAbbr, []string{"02-Jan-2006 15:04:05", "02-Jan-2006 15:04", "02-Jan-2006"}, false, true},
	{FormatMonthAbbrDay, []string{"Jan 02 2006 15:04:05", "Jan 02 2006 15:04", "Jan 2 2006"}, false, true},
}

// ParseDate parses s against the accepted schedule formats in their
// documented precedence (month-first slash dates before day-first) and
// returns the normalized UTC instant plus the detected format tag.
func ParseDate(s string) (time.Time, DateFormat, error) {
	return ParseDateIn(s, DatePrefs{})
}

// ParseDateIn is ParseDate with caller preferences applied.  Attempts run
// in the documented order, except that DayFirst swaps the two slash
// formats; the first layout producing a real calendar date wins.
func ParseDateIn(s string, prefs DatePrefs) (time.Time, DateFormat, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, 0, fmt.Errorf("empty date: %w", ErrUnrecognizedDate)
	}
	loc := prefs.Location
	if loc == nil {
		loc = time.UTC
	}
	order := dateLayouts
	if prefs.DayFirst {
		order = append([]dateLayout{}, dateLayouts...)
		order[4], order[5] = order[5], order[4]
	}
	for _, dl := range order {
		in := s
		if dl.month {
			in = titleMonth(s)
		}
		for _, layout := range dl.layouts {
			var t time.Time
			var err error
			if dl.hasZone {
				t, err = time.Parse(layout, in)
			} else {
				t, err = time.ParseInLocation(layout, in, loc)
			}
			if err == nil {
				return t.UTC(), dl.format, nil
			}
		}
	}
	return time.Time{}, 0, fmt.Errorf("date %q: %w", s, ErrUnrecognizedDate)
}

// titleMonth normalizes alphabetic month abbreviations (JAN, jan) to the
// Jan spelling the time package requires.
func titleMonth(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
