package allocation

import (
	"time"
)

// interval is one committed turn on a stand, half-open over
// [start, end), tagged with the occupying aircraft type for adjacency
// trigger checks.
type interval struct {
	start, end time.Time
	typeID     string
}

func (iv interval) overlaps(start, end time.Time) bool {
	return iv.start.Before(end) && start.Before(iv.end)
}

// occupancyIndex holds, per stand, the committed intervals sorted by
// start time.  Insertion keeps order; with at most a few thousand turns
// per stand per day the linear insert is fine.
type occupancyIndex struct {
	byStand map[string][]interval
}

func newOccupancyIndex() *occupancyIndex {
	return &occupancyIndex{byStand: make(map[string][]interval)}
}

// free reports whether [start, end) clashes with nothing on the stand.
func (o *occupancyIndex) free(standID string, start, end time.Time) bool {
	for _, iv := range o.byStand[standID] {
		if iv.overlaps(start, end) {
			return false
		}
	}
	return true
}

// overlapping returns the committed intervals on the stand that
// intersect [start, end).
func (o *occupancyIndex) overlapping(standID string, start, end time.Time) []interval {
	var out []interval
	for _, iv := range o.byStand[standID] {
		if iv.overlaps(start, end) {
			out = append(out, iv)
		}
	}
	return out
}

// insert commits an interval, keeping the stand's list sorted by start.
func (o *occupancyIndex) insert(standID string, iv interval) {
	list := o.byStand[standID]
	pos := len(list)
	for i, cur := range list {
		if iv.start.Before(cur.start) {
			pos = i
			break
		}
	}
	list = append(list, interval{})
	copy(list[pos+1:], list[pos:])
	list[pos] = iv
	o.byStand[standID] = list
}

// busyMinutes sums the committed interval durations on the stand.
func (o *occupancyIndex) busyMinutes(standID string) int {
	total := 0
	for _, iv := range o.byStand[standID] {
		total += int(iv.end.Sub(iv.start) / time.Minute)
	}
	return total
}
