package timeutil

import "fmt"

// TimeSlot is one contiguous interval of the operating day over which
// capacity is reported.  A slot whose End is before its Start crosses
// midnight; duration and overlap both treat the minute line as circular.
type TimeSlot struct {
	Label string `json:"label"`
	Start ToD    `json:"start"`
	End   ToD    `json:"end"`
}

// DurationMinutes is (end - start) mod 1440.  A slot with End < Start is
// treated as crossing midnight, so 23:00-01:00 is 120 minutes.
func (s TimeSlot) DurationMinutes() int {
	d := s.End.Minutes() - s.Start.Minutes()
	if d < 0 {
		d += MinutesPerDay
	}
	return d
}

// segments unrolls the slot onto the linear [0,1440) minute line as one or
// two half-open intervals.
func (s TimeSlot) segments() [][2]int {
	start, end := s.Start.Minutes(), s.End.Minutes()
	if end >= start {
		return [][2]int{{start, end}}
	}
	return [][2]int{{start, MinutesPerDay}, {0, end}}
}

// Overlap reports whether two slots intersect on the circular minute
// line.  Intervals are half-open, so back-to-back slots do not overlap.
func Overlap(a, b TimeSlot) bool {
	for _, sa := range a.segments() {
		for _, sb := range b.segments() {
			if sa[0] < sb[1] && sb[0] < sa[1] {
				return true
			}
		}
	}
	return false
}

// GenerateSlots emits contiguous slots of slotMinutes starting at
// dayStart, clipping the final slot at dayEnd.  The operating day must
// not cross midnight (dayStart < dayEnd).  Labels are "HH:MM - HH:MM".
func GenerateSlots(dayStart, dayEnd ToD, slotMinutes int) ([]TimeSlot, error) {
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d", slotMinutes)
	}
	if dayStart >= dayEnd {
		return nil, fmt.Errorf("operating day start %s must precede end %s", dayStart, dayEnd)
	}
	var slots []TimeSlot
	for cur := dayStart; cur < dayEnd; {
		next := cur.AddMinutes(slotMinutes)
		if next > dayEnd || next <= cur { // clip the tail slot at day end
			next = dayEnd
		}
		slots = append(slots, TimeSlot{
			Label: cur.Short() + " - " + next.Short(),
			Start: cur,
			End:   next,
		})
		cur = next
	}
	return slots, nil
}
