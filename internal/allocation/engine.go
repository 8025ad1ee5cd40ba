// Package allocation assigns flights to stands over continuous time.
// Flights sharing a link id are treated as a single turn spanning
// arrival to departure; unpaired flights occupy their turnaround plus
// the configured gap.  Placement is greedy in time order and enforces
// compatibility, maintenance, occupancy disjointness and dynamic
// adjacency restrictions.  Like the capacity engine it is pure and
// deterministic.
package allocation

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/avikern/stand-planner/internal/model"
)

// Input carries the validated flights and reference entities for one run.
type Input struct {
	Flights       []model.Flight
	Types         []model.AircraftType
	Stands        []model.Stand
	Rules         []model.AdjacencyRule
	Maintenance   []model.MaintenanceBlock
	TerminalPrefs map[string]string // airline code -> preferred terminal
	Settings      model.OperationalSettings
}

// Result is the full output of one allocation run.  Metrics has an entry
// for every stand, including idle ones.
type Result struct {
	Allocations []model.Allocation            `json:"allocations"`
	Unallocated []model.Unallocated           `json:"unallocated"`
	Metrics     map[string]model.StandMetrics `json:"metrics"`
}

// turn is the unit of placement: either a linked arrival+departure pair
// or a single unpaired flight, with its occupancy interval resolved.
type turn struct {
	flights []model.Flight
	typeID  string
	size    model.SizeCategory
	start   time.Time
	end     time.Time
	id      string // ordering key: lowest member flight id
}

// Run executes the allocation.  Cancellation is checked per turn; on
// cancellation all partial state is discarded and ErrAborted returned.
func Run(ctx context.Context, in Input) (*Result, error) {
	if err := in.Settings.Validate(); err != nil {
		return nil, err
	}
	typeByID := make(map[string]model.AircraftType, len(in.Types))
	for _, t := range in.Types {
		// Same guard as the capacity engine: JSON-sourced types can skip
		// NewAircraftType, and the turnaround drives every turn duration.
		if t.AvgTurnaroundMinutes <= 0 {
			return nil, &model.InputError{Field: "aircraft_type.avg_turnaround_minutes", Msg: "must be positive for " + t.ID}
		}
		typeByID[t.ID] = t
	}
	standByID := make(map[string]model.Stand, len(in.Stands))
	for _, s := range in.Stands {
		standByID[s.ID] = s
	}
	for i, r := range in.Rules {
		if _, ok := standByID[r.PrimaryStand]; !ok {
			return nil, &model.LogicError{Context: fmt.Sprintf("adjacency_rules[%d]", i), Msg: "unknown primary stand " + r.PrimaryStand}
		}
		if _, ok := standByID[r.AffectedStand]; !ok {
			return nil, &model.LogicError{Context: fmt.Sprintf("adjacency_rules[%d]", i), Msg: "unknown affected stand " + r.AffectedStand}
		}
	}

	turns, err := groupTurns(in.Flights, typeByID, in.Settings)
	if err != nil {
		return nil, err
	}
	// Process in ascending occupy start; bigger aircraft first on ties so
	// the scarcer large stands are claimed before small traffic fills them.
	slices.SortStableFunc(turns, func(a, b turn) int {
		if c := a.start.Compare(b.start); c != 0 {
			return c
		}
		if a.size != b.size {
			return int(b.size) - int(a.size)
		}
		return cmp.Compare(a.id, b.id)
	})

	occ := newOccupancyIndex()
	res := &Result{
		Allocations: []model.Allocation{},
		Unallocated: []model.Unallocated{},
	}
	for _, tn := range turns {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrAborted, ctx.Err())
		}
		standID, reason, detail := place(tn, in, typeByID, occ)
		if standID == "" {
			for _, f := range tn.flights {
				res.Unallocated = append(res.Unallocated, model.Unallocated{FlightID: f.ID, Reason: reason, Detail: detail})
			}
			continue
		}
		occ.insert(standID, interval{start: tn.start, end: tn.end, typeID: tn.typeID})
		for _, f := range tn.flights {
			res.Allocations = append(res.Allocations, model.Allocation{
				FlightID:    f.ID,
				StandID:     standID,
				OccupyStart: tn.start,
				OccupyEnd:   tn.end,
			})
		}
	}

	res.Metrics = make(map[string]model.StandMetrics, len(in.Stands))
	dayMinutes := in.Settings.OperatingDayMinutes()
	counts := make(map[string]int)
	for _, a := range res.Allocations {
		counts[a.StandID]++
	}
	for _, s := range in.Stands {
		busy := occ.busyMinutes(s.ID)
		res.Metrics[s.ID] = model.StandMetrics{
			BusyMinutes:     busy,
			Utilization:     float64(busy) / float64(dayMinutes),
			AllocationCount: counts[s.ID],
		}
	}
	return res, nil
}

// groupTurns pairs linked flights into turns and wraps the rest as
// single-flight turns.  A link group without exactly one arrival and one
// departure in order is a contradiction in the input.
func groupTurns(flights []model.Flight, typeByID map[string]model.AircraftType, st model.OperationalSettings) ([]turn, error) {
	gap := time.Duration(st.GapMinutes) * time.Minute
	byLink := make(map[string][]model.Flight)
	var order []string
	var turns []turn
	for _, f := range flights {
		t, ok := typeByID[f.AircraftTypeID]
		if !ok {
			return nil, &model.LogicError{Context: "flight " + f.ID, Msg: "unknown aircraft type " + f.AircraftTypeID}
		}
		if f.LinkID != "" {
			if _, seen := byLink[f.LinkID]; !seen {
				order = append(order, f.LinkID)
			}
			byLink[f.LinkID] = append(byLink[f.LinkID], f)
			continue
		}
		turnaround := time.Duration(t.AvgTurnaroundMinutes) * time.Minute
		turns = append(turns, turn{
			flights: []model.Flight{f},
			typeID:  f.AircraftTypeID,
			size:    t.SizeCategory,
			start:   f.Scheduled,
			end:     f.Scheduled.Add(turnaround + gap),
			id:      f.ID,
		})
	}
	for _, link := range order {
		group := byLink[link]
		if len(group) != 2 {
			return nil, &model.LogicError{Context: "link " + link, Msg: fmt.Sprintf("want an arrival and a departure, got %d flights", len(group))}
		}
		arr, dep := group[0], group[1]
		if arr.Nature == model.Departure {
			arr, dep = dep, arr
		}
		if arr.Nature != model.Arrival || dep.Nature != model.Departure {
			return nil, &model.LogicError{Context: "link " + link, Msg: "want exactly one arrival and one departure"}
		}
		if dep.Scheduled.Before(arr.Scheduled) {
			return nil, &model.LogicError{Context: "link " + link, Msg: "departure precedes arrival"}
		}
		turns = append(turns, turn{
			flights: []model.Flight{arr, dep},
			typeID:  arr.AircraftTypeID,
			size:    typeByID[arr.AircraftTypeID].SizeCategory,
			start:   arr.Scheduled,
			end:     dep.Scheduled.Add(gap),
			id:      min(arr.ID, dep.ID),
		})
	}
	return turns, nil
}

// place finds the best stand for a turn.  It returns the winning stand
// id, or an empty id plus the most specific unallocation reason.
func place(tn turn, in Input, typeByID map[string]model.AircraftType, occ *occupancyIndex) (string, model.UnallocationReason, string) {
	base := make([]model.Stand, 0, len(in.Stands))
	undersized := false
	for _, s := range in.Stands {
		if s.Compatible(tn.typeID) {
			base = append(base, s)
		} else if s.MaxSize.Valid() && s.MaxSize < tn.size {
			undersized = true
		}
	}
	if len(base) == 0 {
		if undersized {
			return "", model.NoStandOfRequiredSize, "every stand that rejects " + tn.typeID + " is below size " + tn.size.String()
		}
		return "", model.NoCompatibleStand, "no stand lists type " + tn.typeID
	}

	maintenanceHit := false
	adjacencyHit := false
	type scored struct {
		stand model.Stand
		score int
	}
	var candidates []scored
	for _, s := range base {
		if underMaintenance(s.ID, tn.start, tn.end, in.Maintenance) {
			maintenanceHit = true
			continue
		}
		if !occ.free(s.ID, tn.start, tn.end) {
			continue
		}
		if !adjacencyAdmits(s, tn, in.Rules, typeByID, occ) {
			adjacencyHit = true
			continue
		}
		candidates = append(candidates, scored{stand: s, score: score(s, tn, in.TerminalPrefs)})
	}
	if len(candidates) == 0 {
		// TerminalPreferenceUnavailable and OperationalConstraintViolation
		// are never emitted here: terminal preferences only affect scoring,
		// and operational settings are rejected as input errors before
		// placement starts. The values stay defined for wire stability.
		switch {
		case maintenanceHit:
			return "", model.StandMaintenanceConflict, ""
		case adjacencyHit:
			return "", model.AdjacencyConstraintViolation, ""
		default:
			return "", model.NoSlotAvailableInWindow, ""
		}
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.score > best.score || (c.score == best.score && c.stand.ID < best.stand.ID) {
			best = c
		}
	}
	return best.stand.ID, "", ""
}

func underMaintenance(standID string, start, end time.Time, blocks []model.MaintenanceBlock) bool {
	for _, b := range blocks {
		if b.StandID == standID && b.From.Before(end) && start.Before(b.To) {
			return true
		}
	}
	return false
}

// adjacencyAdmits applies every rule naming the stand as affected whose
// primary stand holds an overlapping trigger-type turn, then checks the
// turn's type is still admissible.  The symmetric direction (this turn
// constraining stands already holding turns) is not checked: turns are
// committed in start order, so earlier occupants were placed against the
// state that existed when they arrived.
func adjacencyAdmits(s model.Stand, tn turn, rules []model.AdjacencyRule, typeByID map[string]model.AircraftType, occ *occupancyIndex) bool {
	set := s.CompatibleTypes
	for _, r := range rules {
		if r.AffectedStand != s.ID {
			continue
		}
		triggered := false
		for _, iv := range occ.overlapping(r.PrimaryStand, tn.start, tn.end) {
			if r.Triggered(iv.typeID) {
				triggered = true
				break
			}
		}
		if triggered {
			set = model.ApplyRestriction(set, r.Restriction, typeByID)
		}
	}
	return slices.Contains(set, tn.typeID)
}

// score ranks a surviving candidate: preferred terminal beats exact size
// fit beats a jetbridge.
func score(s model.Stand, tn turn, prefs map[string]string) int {
	n := 0
	if pref, ok := prefs[tn.flights[0].AirlineCode]; ok && pref != "" && pref == s.Terminal {
		n += 3
	}
	if s.MaxSize.Valid() && s.MaxSize == tn.size {
		n += 2
	}
	if s.HasJetbridge {
		n++
	}
	return n
}
