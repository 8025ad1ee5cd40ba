package capacity

import (
	"github.com/avikern/stand-planner/internal/model"
	"github.com/avikern/stand-planner/internal/timeutil"
)

// TypeInfo is the slice of an aircraft type echoed into the result.
type TypeInfo struct {
	ID           string             `json:"id"`
	SizeCategory model.SizeCategory `json:"size_category"`
}

// Matrix maps slot label -> aircraft type id -> movement count.  Every
// (slot, type) cell exists, including zero cells, so consumers can
// render a dense table without probing.
type Matrix map[string]map[string]int

// Summary aggregates a run: day totals per case, per-type totals and the
// relative capacity lost to adjacency restrictions.
type Summary struct {
	BestTotal          int            `json:"best_total"`
	WorstTotal         int            `json:"worst_total"`
	BestByType         map[string]int `json:"best_by_type"`
	WorstByType        map[string]int `json:"worst_by_type"`
	AdjacencyImpactPct float64        `json:"adjacency_impact_pct"`
}

// Result is the full output of one capacity run.
type Result struct {
	Slots   []timeutil.TimeSlot `json:"slots"`
	Types   []TypeInfo          `json:"types"`
	Best    Matrix              `json:"best"`
	Worst   Matrix              `json:"worst"`
	Summary Summary             `json:"summary"`
}

func newResult(slots []timeutil.TimeSlot, types []model.AircraftType) *Result {
	res := &Result{
		Slots: slots,
		Types: make([]TypeInfo, 0, len(types)),
		Best:  make(Matrix, len(slots)),
		Worst: make(Matrix, len(slots)),
	}
	for _, t := range types {
		res.Types = append(res.Types, TypeInfo{ID: t.ID, SizeCategory: t.SizeCategory})
	}
	for _, s := range slots {
		res.Best[s.Label] = make(map[string]int, len(types))
		res.Worst[s.Label] = make(map[string]int, len(types))
		for _, t := range types {
			res.Best[s.Label][t.ID] = 0
			res.Worst[s.Label][t.ID] = 0
		}
	}
	return res
}

func (r *Result) summarize() {
	r.Summary.BestByType = make(map[string]int, len(r.Types))
	r.Summary.WorstByType = make(map[string]int, len(r.Types))
	for _, t := range r.Types {
		r.Summary.BestByType[t.ID] = 0
		r.Summary.WorstByType[t.ID] = 0
	}
	for _, row := range r.Best {
		for id, n := range row {
			r.Summary.BestTotal += n
			r.Summary.BestByType[id] += n
		}
	}
	for _, row := range r.Worst {
		for id, n := range row {
			r.Summary.WorstTotal += n
			r.Summary.WorstByType[id] += n
		}
	}
	if r.Summary.BestTotal > 0 {
		lost := float64(r.Summary.BestTotal - r.Summary.WorstTotal)
		r.Summary.AdjacencyImpactPct = lost / float64(r.Summary.BestTotal) * 100
	}
}
