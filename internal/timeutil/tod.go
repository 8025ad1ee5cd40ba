// Package timeutil contains the time-of-day and slot arithmetic shared by
// the capacity and allocation engines, plus the multi-format schedule date
// parser.  Everything here is pure: no I/O, no clocks, no globals.
package timeutil

import (
	"encoding/json"
	"fmt"
)

// SecondsPerDay is the number of seconds in one operating day.
const SecondsPerDay = 24 * 60 * 60

// MinutesPerDay is the number of minutes in one operating day.
const MinutesPerDay = 24 * 60

// ToD is a wall-clock time of day with second resolution, stored as
// seconds since midnight in the half-open range [0, 86400).  All ToD
// values within a run are in the single configured timezone; the engines
// never apply DST rules.
type ToD int

// NewToD builds a ToD from hour, minute and second components.  It
// returns an error when any component is out of range.
func NewToD(h, m, s int) (ToD, error) {
	if h < 0 || h > 23 || m < 0 || m > 59 || s < 0 || s > 59 {
		return 0, fmt.Errorf("time of day out of range: %02d:%02d:%02d", h, m, s)
	}
	return ToD(h*3600 + m*60 + s), nil
}

// ParseToD parses "HH:MM:SS" or "HH:MM" (24-hour).  Anything else is a
// typed error; there is no silent fallback.
func ParseToD(s string) (ToD, error) {
	var h, m, sec int
	switch n, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); {
	case err == nil && n == 3:
	default:
		sec = 0
		if n, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil || n != 2 {
			return 0, fmt.Errorf("invalid time of day %q: want HH:MM:SS", s)
		}
	}
	return NewToD(h, m, sec)
}

// Hour returns the hour component (0-23).
func (t ToD) Hour() int { return int(t) / 3600 }

// Minute returns the minute component (0-59).
func (t ToD) Minute() int { return (int(t) % 3600) / 60 }

// Second returns the second component (0-59).
func (t ToD) Second() int { return int(t) % 60 }

// Minutes returns the whole minutes since midnight.
func (t ToD) Minutes() int { return int(t) / 60 }

// AddMinutes returns the ToD m minutes later, wrapping at midnight.
func (t ToD) AddMinutes(m int) ToD {
	v := (int(t) + m*60) % SecondsPerDay
	if v < 0 {
		v += SecondsPerDay
	}
	return ToD(v)
}

// String renders the canonical "HH:MM:SS" form.
func (t ToD) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// Short renders "HH:MM", the form used in slot labels.
func (t ToD) Short() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MarshalJSON encodes the ToD as its "HH:MM:SS" string.
func (t ToD) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes "HH:MM:SS" or "HH:MM" strings.
func (t *ToD) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseToD(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}
