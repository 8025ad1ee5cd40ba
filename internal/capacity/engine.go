// Package capacity computes the theoretical stand throughput of an
// airport over a bounded operating day.  It produces two dense matrices
// of per-slot, per-aircraft-type movement counts: a best case that uses
// each stand's base compatibility and a worst case with every adjacency
// rule applied.  The engine is a pure function of its inputs; two runs
// over identical inputs produce identical results.
package capacity

import (
	"context"
	"fmt"

	"github.com/avikern/stand-planner/internal/model"
	"github.com/avikern/stand-planner/internal/timeutil"
)

// Input carries the materialised entities for one run.  The engine does
// not mutate them.
type Input struct {
	Types    []model.AircraftType
	Stands   []model.Stand
	Rules    []model.AdjacencyRule
	Settings model.OperationalSettings
}

// Calculate runs the capacity computation.  It returns a LogicError when
// the inputs contradict each other (unknown stand or type references)
// and ErrAborted when ctx is cancelled; cancellation is checked at slot
// boundaries and no partial matrix is ever returned.
func Calculate(ctx context.Context, in Input) (*Result, error) {
	if err := in.Settings.Validate(); err != nil {
		return nil, err
	}
	typeByID := make(map[string]model.AircraftType, len(in.Types))
	for _, t := range in.Types {
		if _, dup := typeByID[t.ID]; dup {
			return nil, &model.LogicError{Context: "aircraft_types", Msg: "duplicate type id " + t.ID}
		}
		// Types may arrive straight from JSON, bypassing NewAircraftType;
		// a non-positive turnaround would zero the occupation divisor.
		if t.AvgTurnaroundMinutes <= 0 {
			return nil, &model.InputError{Field: "aircraft_type.avg_turnaround_minutes", Msg: "must be positive for " + t.ID}
		}
		typeByID[t.ID] = t
	}
	standByID := make(map[string]bool, len(in.Stands))
	for _, s := range in.Stands {
		if standByID[s.ID] {
			return nil, &model.LogicError{Context: "stands", Msg: "duplicate stand id " + s.ID}
		}
		standByID[s.ID] = true
		for _, tid := range s.CompatibleTypes {
			if _, ok := typeByID[tid]; !ok {
				return nil, &model.LogicError{Context: "stand " + s.ID, Msg: "unknown aircraft type " + tid}
			}
		}
	}
	for i, r := range in.Rules {
		if !standByID[r.PrimaryStand] {
			return nil, &model.LogicError{Context: fmt.Sprintf("adjacency_rules[%d]", i), Msg: "unknown primary stand " + r.PrimaryStand}
		}
		if !standByID[r.AffectedStand] {
			return nil, &model.LogicError{Context: fmt.Sprintf("adjacency_rules[%d]", i), Msg: "unknown affected stand " + r.AffectedStand}
		}
	}

	slots, err := timeutil.GenerateSlots(in.Settings.DayStart, in.Settings.DayEnd, in.Settings.SlotDurationMinutes)
	if err != nil {
		return nil, err
	}

	res := newResult(slots, in.Types)

	// Effective compatibility per stand is slot-independent; resolve it
	// once per case before walking slots.
	bestSets := make([][]string, len(in.Stands))
	worstSets := make([][]string, len(in.Stands))
	for i, s := range in.Stands {
		bestSets[i] = s.CompatibleTypes
		worstSets[i] = model.EffectiveSet(s, in.Rules, typeByID)
	}

	for _, slot := range slots {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrAborted, ctx.Err())
		}
		for i := range in.Stands {
			addContribution(res.Best, slot, bestSets[i], in.Types, typeByID, in.Settings)
			addContribution(res.Worst, slot, worstSets[i], in.Types, typeByID, in.Settings)
		}
	}

	res.summarize()
	return res, nil
}

// addContribution applies the focus-type rule for one (slot, stand,
// case) cell: the largest admissible aircraft determines throughput, and
// the stand contributes floor(slot / (turnaround + gap)) movements of it.
func addContribution(m Matrix, slot timeutil.TimeSlot, set []string, order []model.AircraftType, typeByID map[string]model.AircraftType, st model.OperationalSettings) {
	focus, ok := focusType(set, order)
	if !ok {
		return
	}
	t := typeByID[focus]
	occupation := t.AvgTurnaroundMinutes + st.GapMinutes
	count := slot.DurationMinutes() / occupation
	m[slot.Label][focus] += count
}

// focusType picks the member of set with the largest size category,
// breaking ties by first position in the aircraft-type input order.
func focusType(set []string, order []model.AircraftType) (string, bool) {
	member := make(map[string]bool, len(set))
	for _, id := range set {
		member[id] = true
	}
	best := ""
	var bestSize model.SizeCategory
	for _, t := range order {
		if member[t.ID] && t.SizeCategory > bestSize {
			best, bestSize = t.ID, t.SizeCategory
		}
	}
	return best, best != ""
}
