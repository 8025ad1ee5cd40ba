package model

import "github.com/avikern/stand-planner/internal/timeutil"

// OperationalSettings are the per-run knobs shared by the capacity and
// allocation engines.  The operating day may not cross midnight.
type OperationalSettings struct {
	GapMinutes          int          `json:"gap_minutes"`
	SlotDurationMinutes int          `json:"slot_duration_minutes"`
	DayStart            timeutil.ToD `json:"day_start"`
	DayEnd              timeutil.ToD `json:"day_end"`
}

// Validate checks the settings invariants.
func (s OperationalSettings) Validate() error {
	if s.GapMinutes < 0 {
		return &InputError{Field: "settings.gap_minutes", Msg: "must be >= 0"}
	}
	if s.SlotDurationMinutes <= 0 {
		return &InputError{Field: "settings.slot_duration_minutes", Msg: "must be > 0"}
	}
	if s.DayStart >= s.DayEnd {
		return &InputError{Field: "settings.day_start", Msg: "operating day start must precede day end"}
	}
	return nil
}

// OperatingDayMinutes is the length of the operating day.
func (s OperationalSettings) OperatingDayMinutes() int {
	return s.DayEnd.Minutes() - s.DayStart.Minutes()
}
