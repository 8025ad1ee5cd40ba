// Package report aggregates engine outputs into the summaries and
// tabular shapes the API and CLI serve.  It holds no state and performs
// no I/O; everything here is plain arithmetic over finished results.
package report

import (
	"slices"
	"strconv"
	"strings"

	"github.com/avikern/stand-planner/internal/allocation"
	"github.com/avikern/stand-planner/internal/capacity"
	"github.com/avikern/stand-planner/internal/model"
	"github.com/avikern/stand-planner/internal/validation"
)

// TerminalUtilization summarizes stand utilization across one terminal.
type TerminalUtilization struct {
	Average    float64 `json:"average"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	StandCount int     `json:"stand_count"`
}

// AllocationSummary is the run-level digest of an allocation result.
type AllocationSummary struct {
	FlightsTotal        int                            `json:"flights_total"`
	AllocatedCount      int                            `json:"allocated_count"`
	UnallocatedCount    int                            `json:"unallocated_count"`
	AllocationRate      float64                        `json:"allocation_rate"`
	PerTerminal         map[string]TerminalUtilization `json:"per_terminal"`
	UnallocationReasons []model.UnallocationReason     `json:"unallocation_reasons"`
}

// SummarizeAllocation digests an allocation result.  Terminal stats are
// the arithmetic mean, min and max of per-stand utilization over the
// terminal's stands; stands without a terminal are left out.  Reasons
// are distinct and sorted.
func SummarizeAllocation(res *allocation.Result, stands []model.Stand) AllocationSummary {
	s := AllocationSummary{
		FlightsTotal:     len(res.Allocations) + len(res.Unallocated),
		AllocatedCount:   len(res.Allocations),
		UnallocatedCount: len(res.Unallocated),
		PerTerminal:      make(map[string]TerminalUtilization),
	}
	if s.FlightsTotal > 0 {
		s.AllocationRate = float64(s.AllocatedCount) / float64(s.FlightsTotal)
	}

	type agg struct {
		sum, min, max float64
		n             int
	}
	byTerminal := make(map[string]*agg)
	for _, st := range stands {
		if st.Terminal == "" {
			continue
		}
		u := res.Metrics[st.ID].Utilization
		a := byTerminal[st.Terminal]
		if a == nil {
			a = &agg{min: u, max: u}
			byTerminal[st.Terminal] = a
		}
		if u < a.min {
			a.min = u
		}
		if u > a.max {
			a.max = u
		}
		a.sum += u
		a.n++
	}
	for term, a := range byTerminal {
		s.PerTerminal[term] = TerminalUtilization{
			Average:    a.sum / float64(a.n),
			Min:        a.min,
			Max:        a.max,
			StandCount: a.n,
		}
	}

	seen := make(map[model.UnallocationReason]bool)
	for _, u := range res.Unallocated {
		if !seen[u.Reason] {
			seen[u.Reason] = true
			s.UnallocationReasons = append(s.UnallocationReasons, u.Reason)
		}
	}
	slices.SortFunc(s.UnallocationReasons, func(a, b model.UnallocationReason) int {
		return strings.Compare(string(a), string(b))
	})
	if s.UnallocationReasons == nil {
		s.UnallocationReasons = []model.UnallocationReason{}
	}
	return s
}

// ValidationCSVHeader is the fixed header for CSV validation reports.
var ValidationCSVHeader = []string{
	"Severity", "Code", "Field", "RecordID", "Row", "Column", "Message", "Value", "SuggestedFix",
}

// ValidationCSV renders a validation report as CSV rows, header first.
// Issue order is the report's own deterministic order.
func ValidationCSV(rep validation.Report) [][]string {
	rows := make([][]string, 0, len(rep.Issues)+1)
	rows = append(rows, ValidationCSVHeader)
	for _, is := range rep.Issues {
		rows = append(rows, []string{
			string(is.Severity), is.Code, is.Field, is.RecordID,
			strconv.Itoa(is.Row), is.Column, is.Message, is.Value, is.Suggestion,
		})
	}
	return rows
}

// CapacityCSVHeader is the fixed header for CSV capacity exports.
var CapacityCSVHeader = []string{"Case", "Slot", "AircraftType", "Count"}

// CapacityCSV flattens both matrices into CSV rows, header first, in
// slot order then aircraft-type input order, best case before worst.
func CapacityCSV(res *capacity.Result) [][]string {
	rows := [][]string{CapacityCSVHeader}
	for _, kase := range []struct {
		name   string
		matrix capacity.Matrix
	}{{"best", res.Best}, {"worst", res.Worst}} {
		for _, slot := range res.Slots {
			for _, t := range res.Types {
				rows = append(rows, []string{
					kase.name, slot.Label, t.ID,
					strconv.Itoa(kase.matrix[slot.Label][t.ID]),
				})
			}
		}
	}
	return rows
}
