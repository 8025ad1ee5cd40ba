package allocation

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avikern/stand-planner/internal/model"
)

func settings(t *testing.T) model.OperationalSettings {
	t.Helper()
	s := model.OperationalSettings{
		GapMinutes:          15,
		SlotDurationMinutes: 60,
		DayStart:            8 * 3600,
		DayEnd:              20 * 3600,
	}
	require.NoError(t, s.Validate())
	return s
}

func at(t *testing.T, clock string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, "2026-06-01T"+clock+":00Z")
	require.NoError(t, err)
	return ts
}

var fleet = []model.AircraftType{
	{ID: "A320", SizeCategory: model.SizeC, AvgTurnaroundMinutes: 45},
	{ID: "B777", SizeCategory: model.SizeE, AvgTurnaroundMinutes: 90},
}

// A linked pair is one turn: both flights land on the same stand and
// the occupancy spans arrival to departure plus the gap.
func TestRunLinkedTurn(t *testing.T) {
	res, err := Run(context.Background(), Input{
		Flights: []model.Flight{
			{ID: "F1", Number: "XY100", AircraftTypeID: "A320", Nature: model.Arrival, Scheduled: at(t, "09:00"), LinkID: "L1"},
			{ID: "F2", Number: "XY101", AircraftTypeID: "A320", Nature: model.Departure, Scheduled: at(t, "11:00"), LinkID: "L1"},
		},
		Types: fleet,
		Stands: []model.Stand{
			{ID: "S1", CompatibleTypes: []string{"A320"}},
			{ID: "S2", CompatibleTypes: []string{"A320"}},
		},
		Settings: settings(t),
	})
	require.NoError(t, err)

	require.Len(t, res.Allocations, 2)
	assert.Empty(t, res.Unallocated)
	assert.Equal(t, res.Allocations[0].StandID, res.Allocations[1].StandID)
	for _, a := range res.Allocations {
		assert.Equal(t, at(t, "09:00"), a.OccupyStart)
		assert.Equal(t, at(t, "11:15"), a.OccupyEnd)
	}
}

func TestRunUnpairedOccupancy(t *testing.T) {
	res, err := Run(context.Background(), Input{
		Flights: []model.Flight{
			{ID: "F1", AircraftTypeID: "A320", Nature: model.Arrival, Scheduled: at(t, "09:00")},
		},
		Types:    fleet,
		Stands:   []model.Stand{{ID: "S1", CompatibleTypes: []string{"A320"}}},
		Settings: settings(t),
	})
	require.NoError(t, err)
	require.Len(t, res.Allocations, 1)
	// 45 turnaround + 15 gap
	assert.Equal(t, at(t, "10:00"), res.Allocations[0].OccupyEnd)
}

// No two allocations on a stand may overlap; the loser spills to the
// next free stand.
func TestRunDisjointOccupancy(t *testing.T) {
	res, err := Run(context.Background(), Input{
		Flights: []model.Flight{
			{ID: "F1", AircraftTypeID: "A320", Nature: model.Arrival, Scheduled: at(t, "09:00")},
			{ID: "F2", AircraftTypeID: "A320", Nature: model.Arrival, Scheduled: at(t, "09:30")},
			{ID: "F3", AircraftTypeID: "A320", Nature: model.Arrival, Scheduled: at(t, "09:45")},
		},
		Types: fleet,
		Stands: []model.Stand{
			{ID: "S1", CompatibleTypes: []string{"A320"}},
			{ID: "S2", CompatibleTypes: []string{"A320"}},
		},
		Settings: settings(t),
	})
	require.NoError(t, err)

	assert.Len(t, res.Allocations, 2)
	require.Len(t, res.Unallocated, 1)
	assert.Equal(t, "F3", res.Unallocated[0].FlightID)
	assert.Equal(t, model.NoSlotAvailableInWindow, res.Unallocated[0].Reason)

	perStand := map[string][]model.Allocation{}
	for _, a := range res.Allocations {
		perStand[a.StandID] = append(perStand[a.StandID], a)
	}
	for standID, list := range perStand {
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				disjoint := !list[i].OccupyStart.Before(list[j].OccupyEnd) ||
					!list[j].OccupyStart.Before(list[i].OccupyEnd)
				assert.True(t, disjoint, "overlap on %s", standID)
			}
		}
	}
}

// A triggered TYPE_PROHIBITED rule removes the affected stand from the
// candidate set while the trigger occupies the primary stand.
func TestRunDynamicAdjacency(t *testing.T) {
	rule, err := model.NewAdjacencyRule("S1", []string{"B777"}, "S2",
		model.Restriction{Kind: model.TypeProhibited, Type: "A320"})
	require.NoError(t, err)

	in := Input{
		Flights: []model.Flight{
			{ID: "F1", AircraftTypeID: "B777", Nature: model.Arrival, Scheduled: at(t, "09:00")},
			{ID: "F2", AircraftTypeID: "A320", Nature: model.Arrival, Scheduled: at(t, "09:30")},
		},
		Types: fleet,
		Stands: []model.Stand{
			{ID: "S1", CompatibleTypes: []string{"A320", "B777"}},
			{ID: "S2", CompatibleTypes: []string{"A320"}},
		},
		Rules:    []model.AdjacencyRule{rule},
		Settings: settings(t),
	}
	res, err := Run(context.Background(), in)
	require.NoError(t, err)

	// F1 takes S1 until 10:45 (90+15); F2 (09:30-10:30) overlaps it, so
	// S1 is busy and S2 is prohibited while the trigger is present.
	require.Len(t, res.Unallocated, 1)
	assert.Equal(t, "F2", res.Unallocated[0].FlightID)
	assert.Equal(t, model.AdjacencyConstraintViolation, res.Unallocated[0].Reason)

	// The same flight later in the day clears the trigger and lands on S2.
	in.Flights[1].Scheduled = at(t, "12:00")
	res, err = Run(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, res.Unallocated)
}

func TestRunMaintenanceConflict(t *testing.T) {
	res, err := Run(context.Background(), Input{
		Flights: []model.Flight{
			{ID: "F1", AircraftTypeID: "A320", Nature: model.Arrival, Scheduled: at(t, "09:00")},
		},
		Types:  fleet,
		Stands: []model.Stand{{ID: "S1", CompatibleTypes: []string{"A320"}}},
		Maintenance: []model.MaintenanceBlock{
			{StandID: "S1", From: at(t, "08:00"), To: at(t, "12:00")},
		},
		Settings: settings(t),
	})
	require.NoError(t, err)
	require.Len(t, res.Unallocated, 1)
	assert.Equal(t, model.StandMaintenanceConflict, res.Unallocated[0].Reason)
}

func TestRunNoCompatibleStand(t *testing.T) {
	res, err := Run(context.Background(), Input{
		Flights: []model.Flight{
			{ID: "F1", AircraftTypeID: "B777", Nature: model.Arrival, Scheduled: at(t, "09:00")},
		},
		Types:    fleet,
		Stands:   []model.Stand{{ID: "S1", CompatibleTypes: []string{"A320"}}},
		Settings: settings(t),
	})
	require.NoError(t, err)
	require.Len(t, res.Unallocated, 1)
	assert.Equal(t, model.NoCompatibleStand, res.Unallocated[0].Reason)
}

func TestRunNoStandOfRequiredSize(t *testing.T) {
	res, err := Run(context.Background(), Input{
		Flights: []model.Flight{
			{ID: "F1", AircraftTypeID: "B777", Nature: model.Arrival, Scheduled: at(t, "09:00")},
		},
		Types: fleet,
		Stands: []model.Stand{
			{ID: "S1", CompatibleTypes: []string{"A320"}, MaxSize: model.SizeC},
		},
		Settings: settings(t),
	})
	require.NoError(t, err)
	require.Len(t, res.Unallocated, 1)
	assert.Equal(t, model.NoStandOfRequiredSize, res.Unallocated[0].Reason)
}

// Preferred terminal (+3) outranks exact size fit (+2) and jetbridge (+1).
func TestRunScoringPrefersTerminal(t *testing.T) {
	res, err := Run(context.Background(), Input{
		Flights: []model.Flight{
			{ID: "F1", AirlineCode: "XY", AircraftTypeID: "A320", Nature: model.Arrival, Scheduled: at(t, "09:00")},
		},
		Types: fleet,
		Stands: []model.Stand{
			{ID: "S1", CompatibleTypes: []string{"A320"}, Terminal: "T1", MaxSize: model.SizeC},
			{ID: "S2", CompatibleTypes: []string{"A320"}, Terminal: "T2"},
		},
		TerminalPrefs: map[string]string{"XY": "T2"},
		Settings:      settings(t),
	})
	require.NoError(t, err)
	require.Len(t, res.Allocations, 1)
	assert.Equal(t, "S2", res.Allocations[0].StandID)
}

func TestRunTieBreakByStandID(t *testing.T) {
	res, err := Run(context.Background(), Input{
		Flights: []model.Flight{
			{ID: "F1", AircraftTypeID: "A320", Nature: model.Arrival, Scheduled: at(t, "09:00")},
		},
		Types: fleet,
		Stands: []model.Stand{
			{ID: "S9", CompatibleTypes: []string{"A320"}},
			{ID: "S2", CompatibleTypes: []string{"A320"}},
		},
		Settings: settings(t),
	})
	require.NoError(t, err)
	require.Len(t, res.Allocations, 1)
	assert.Equal(t, "S2", res.Allocations[0].StandID)
}

// Larger aircraft are placed first when turns start together, so the
// wide stand is not wasted on the narrowbody.
func TestRunOrderingSizeDesc(t *testing.T) {
	res, err := Run(context.Background(), Input{
		Flights: []model.Flight{
			{ID: "F1", AircraftTypeID: "A320", Nature: model.Arrival, Scheduled: at(t, "09:00")},
			{ID: "F2", AircraftTypeID: "B777", Nature: model.Arrival, Scheduled: at(t, "09:00")},
		},
		Types: fleet,
		Stands: []model.Stand{
			{ID: "S1", CompatibleTypes: []string{"A320", "B777"}},
			{ID: "S2", CompatibleTypes: []string{"A320"}},
		},
		Settings: settings(t),
	})
	require.NoError(t, err)
	assert.Empty(t, res.Unallocated)
	byFlight := map[string]string{}
	for _, a := range res.Allocations {
		byFlight[a.FlightID] = a.StandID
	}
	assert.Equal(t, "S1", byFlight["F2"])
	assert.Equal(t, "S2", byFlight["F1"])
}

func TestRunMetrics(t *testing.T) {
	res, err := Run(context.Background(), Input{
		Flights: []model.Flight{
			{ID: "F1", AircraftTypeID: "A320", Nature: model.Arrival, Scheduled: at(t, "09:00"), LinkID: "L1"},
			{ID: "F2", AircraftTypeID: "A320", Nature: model.Departure, Scheduled: at(t, "11:00"), LinkID: "L1"},
		},
		Types: fleet,
		Stands: []model.Stand{
			{ID: "S1", CompatibleTypes: []string{"A320"}},
			{ID: "S2", CompatibleTypes: []string{"A320"}},
		},
		Settings: settings(t),
	})
	require.NoError(t, err)

	busyStand := res.Allocations[0].StandID
	m := res.Metrics[busyStand]
	assert.Equal(t, 135, m.BusyMinutes) // 09:00-11:15
	assert.InDelta(t, 135.0/720.0, m.Utilization, 1e-9)
	assert.Equal(t, 2, m.AllocationCount)

	idle := "S1"
	if busyStand == "S1" {
		idle = "S2"
	}
	assert.Equal(t, model.StandMetrics{}, res.Metrics[idle])
}

func TestRunRejectsContradictions(t *testing.T) {
	var logicErr *model.LogicError

	_, err := Run(context.Background(), Input{
		Flights:  []model.Flight{{ID: "F1", AircraftTypeID: "AN225", Nature: model.Arrival, Scheduled: at(t, "09:00")}},
		Types:    fleet,
		Stands:   []model.Stand{{ID: "S1", CompatibleTypes: []string{"A320"}}},
		Settings: settings(t),
	})
	assert.ErrorAs(t, err, &logicErr, "unknown aircraft type")

	_, err = Run(context.Background(), Input{
		Flights: []model.Flight{
			{ID: "F1", AircraftTypeID: "A320", Nature: model.Arrival, Scheduled: at(t, "09:00"), LinkID: "L1"},
			{ID: "F2", AircraftTypeID: "A320", Nature: model.Arrival, Scheduled: at(t, "10:00"), LinkID: "L1"},
		},
		Types:    fleet,
		Stands:   []model.Stand{{ID: "S1", CompatibleTypes: []string{"A320"}}},
		Settings: settings(t),
	})
	assert.ErrorAs(t, err, &logicErr, "two arrivals in one link")
}

// Turn durations come straight from the type's turnaround, so a
// non-positive value is rejected before any placement happens.
func TestRunRejectsNonPositiveTurnaround(t *testing.T) {
	_, err := Run(context.Background(), Input{
		Flights:  []model.Flight{{ID: "F1", AircraftTypeID: "X", Nature: model.Arrival, Scheduled: at(t, "09:00")}},
		Types:    []model.AircraftType{{ID: "X", SizeCategory: model.SizeC, AvgTurnaroundMinutes: 0}},
		Stands:   []model.Stand{{ID: "S1", CompatibleTypes: []string{"X"}}},
		Settings: settings(t),
	})
	var inputErr *model.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "aircraft_type.avg_turnaround_minutes", inputErr.Field)
}

func TestRunDeterministic(t *testing.T) {
	in := Input{
		Flights: []model.Flight{
			{ID: "F3", AircraftTypeID: "A320", Nature: model.Arrival, Scheduled: at(t, "09:00")},
			{ID: "F1", AircraftTypeID: "B777", Nature: model.Arrival, Scheduled: at(t, "09:00")},
			{ID: "F2", AircraftTypeID: "A320", Nature: model.Arrival, Scheduled: at(t, "10:30")},
		},
		Types: fleet,
		Stands: []model.Stand{
			{ID: "S1", CompatibleTypes: []string{"A320", "B777"}},
			{ID: "S2", CompatibleTypes: []string{"A320"}},
		},
		Settings: settings(t),
	}
	first, err := Run(context.Background(), in)
	require.NoError(t, err)
	second, err := Run(context.Background(), in)
	require.NoError(t, err)

	ja, _ := json.Marshal(first)
	jb, _ := json.Marshal(second)
	assert.Equal(t, string(ja), string(jb))
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Run(ctx, Input{
		Flights:  []model.Flight{{ID: "F1", AircraftTypeID: "A320", Nature: model.Arrival, Scheduled: at(t, "09:00")}},
		Types:    fleet,
		Stands:   []model.Stand{{ID: "S1", CompatibleTypes: []string{"A320"}}},
		Settings: settings(t),
	})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, model.ErrAborted)
}
