package capacity

import (
	"context"
	"encoding/json"
	"testing"

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
		DayEnd:              12 * 3600,
	}
	require.NoError(t, s.Validate())
	return s
}

func a320() model.AircraftType {
	return model.AircraftType{ID: "A320", SizeCategory: model.SizeC, AvgTurnaroundMinutes: 45}
}

func b777() model.AircraftType {
	return model.AircraftType{ID: "B777", SizeCategory: model.SizeE, AvgTurnaroundMinutes: 90}
}

// Single stand, single type: four one-hour slots, one movement each.
func TestCalculateSingleStandSingleType(t *testing.T) {
	res, err := Calculate(context.Background(), Input{
		Types:    []model.AircraftType{a320()},
		Stands:   []model.Stand{{ID: "S1", CompatibleTypes: []string{"A320"}}},
		Settings: settings(t),
	})
	require.NoError(t, err)

	require.Len(t, res.Slots, 4)
	assert.Equal(t, "08:00 - 09:00", res.Slots[0].Label)
	assert.Equal(t, "11:00 - 12:00", res.Slots[3].Label)
	for _, slot := range res.Slots {
		// occupation 45+15=60 fits once per hour slot
		assert.Equal(t, 1, res.Best[slot.Label]["A320"], slot.Label)
		assert.Equal(t, 1, res.Worst[slot.Label]["A320"], slot.Label)
	}
	assert.Equal(t, 4, res.Summary.BestTotal)
	assert.Equal(t, 4, res.Summary.WorstTotal)
	assert.Equal(t, 0.0, res.Summary.AdjacencyImpactPct)
}

// The focus type is the largest admissible aircraft even when a smaller
// one would fit the slot; an inactive rule changes nothing.
func TestCalculateFocusTypeIsLargest(t *testing.T) {
	res, err := Calculate(context.Background(), Input{
		Types:    []model.AircraftType{a320(), b777()},
		Stands:   []model.Stand{{ID: "S1", CompatibleTypes: []string{"A320", "B777"}}},
		Settings: settings(t),
	})
	require.NoError(t, err)

	// focus B777: occupation 90+15=105 > 60 minute slot
	for _, slot := range res.Slots {
		assert.Equal(t, 0, res.Best[slot.Label]["B777"])
		assert.Equal(t, 0, res.Best[slot.Label]["A320"], "smaller type must not be counted")
	}
	assert.Equal(t, 0, res.Summary.BestTotal)
	assert.Equal(t, 0, res.Summary.WorstTotal)
}

// NO_USE empties the affected stand in the worst case only.
func TestCalculateNoUseWorstCase(t *testing.T) {
	rule, err := model.NewAdjacencyRule("S1", []string{"A320"}, "S2", model.Restriction{Kind: model.NoUse})
	require.NoError(t, err)

	res, err := Calculate(context.Background(), Input{
		Types: []model.AircraftType{a320()},
		Stands: []model.Stand{
			{ID: "S1", CompatibleTypes: []string{"A320"}},
			{ID: "S2", CompatibleTypes: []string{"A320"}},
		},
		Rules:    []model.AdjacencyRule{rule},
		Settings: settings(t),
	})
	require.NoError(t, err)

	assert.Equal(t, 8, res.Summary.BestTotal)
	assert.Equal(t, 4, res.Summary.WorstTotal)
	assert.Equal(t, 50.0, res.Summary.AdjacencyImpactPct)
	for _, slot := range res.Slots {
		assert.Equal(t, 2, res.Best[slot.Label]["A320"])
		assert.Equal(t, 1, res.Worst[slot.Label]["A320"])
	}
}

func TestCalculateSizeCapRestriction(t *testing.T) {
	rule, err := model.NewAdjacencyRule("S1", []string{"B777"}, "S2",
		model.Restriction{Kind: model.MaxSizeReducedTo, Size: model.SizeC})
	require.NoError(t, err)

	res, err := Calculate(context.Background(), Input{
		Types: []model.AircraftType{a320(), b777()},
		Stands: []model.Stand{
			{ID: "S1", CompatibleTypes: []string{"B777"}},
			{ID: "S2", CompatibleTypes: []string{"A320", "B777"}},
		},
		Rules:    []model.AdjacencyRule{rule},
		Settings: settings(t),
	})
	require.NoError(t, err)

	// Worst case S2 is capped at size C, so its focus drops to A320 which
	// fits once per slot; best case keeps B777 as focus, which fits zero.
	for _, slot := range res.Slots {
		assert.Equal(t, 0, res.Best[slot.Label]["A320"])
		assert.Equal(t, 1, res.Worst[slot.Label]["A320"])
	}
}

// worst[slot][type] <= best[slot][type] must hold for every cell.
func TestCalculateAdjacencyMonotone(t *testing.T) {
	ruleA, _ := model.NewAdjacencyRule("S1", []string{"B777"}, "S2", model.Restriction{Kind: model.TypeProhibited, Type: "A320"})
	ruleB, _ := model.NewAdjacencyRule("S2", []string{"A320"}, "S3", model.Restriction{Kind: model.NoUse})

	res, err := Calculate(context.Background(), Input{
		Types: []model.AircraftType{a320(), b777()},
		Stands: []model.Stand{
			{ID: "S1", CompatibleTypes: []string{"A320", "B777"}},
			{ID: "S2", CompatibleTypes: []string{"A320"}},
			{ID: "S3", CompatibleTypes: []string{"A320"}},
		},
		Rules:    []model.AdjacencyRule{ruleA, ruleB},
		Settings: settings(t),
	})
	require.NoError(t, err)

	for label, row := range res.Best {
		for typeID, best := range row {
			assert.GreaterOrEqual(t, best, res.Worst[label][typeID], "%s/%s", label, typeID)
			assert.GreaterOrEqual(t, res.Worst[label][typeID], 0)
		}
	}
}

func TestCalculateMatrixIsDense(t *testing.T) {
	res, err := Calculate(context.Background(), Input{
		Types:    []model.AircraftType{a320(), b777()},
		Stands:   []model.Stand{{ID: "S1", CompatibleTypes: []string{"A320"}}},
		Settings: settings(t),
	})
	require.NoError(t, err)
	for _, slot := range res.Slots {
		for _, typ := range res.Types {
			_, ok := res.Best[slot.Label][typ.ID]
			assert.True(t, ok, "missing best cell %s/%s", slot.Label, typ.ID)
			_, ok = res.Worst[slot.Label][typ.ID]
			assert.True(t, ok, "missing worst cell %s/%s", slot.Label, typ.ID)
		}
	}
}

func TestCalculateDeterministic(t *testing.T) {
	in := Input{
		Types: []model.AircraftType{a320(), b777()},
		Stands: []model.Stand{
			{ID: "S1", CompatibleTypes: []string{"A320", "B777"}},
			{ID: "S2", CompatibleTypes: []string{"A320"}},
		},
		Settings: settings(t),
	}
	first, err := Calculate(context.Background(), in)
	require.NoError(t, err)
	second, err := Calculate(context.Background(), in)
	require.NoError(t, err)

	ja, _ := json.Marshal(first)
	jb, _ := json.Marshal(second)
	assert.Equal(t, string(ja), string(jb))
}

func TestCalculateRejectsContradictions(t *testing.T) {
	var logicErr *model.LogicError

	_, err := Calculate(context.Background(), Input{
		Types:    []model.AircraftType{a320()},
		Stands:   []model.Stand{{ID: "S1", CompatibleTypes: []string{"UNKNOWN"}}},
		Settings: settings(t),
	})
	assert.ErrorAs(t, err, &logicErr)

	rule, _ := model.NewAdjacencyRule("GHOST", nil, "S1", model.Restriction{Kind: model.NoUse})
	_, err = Calculate(context.Background(), Input{
		Types:    []model.AircraftType{a320()},
		Stands:   []model.Stand{{ID: "S1", CompatibleTypes: []string{"A320"}}},
		Rules:    []model.AdjacencyRule{rule},
		Settings: settings(t),
	})
	assert.ErrorAs(t, err, &logicErr)
}

// A zero turnaround with a zero gap would make the occupation divisor
// zero; the engine must reject it up front instead of dividing.
func TestCalculateRejectsNonPositiveTurnaround(t *testing.T) {
	st := model.OperationalSettings{
		GapMinutes:          0,
		SlotDurationMinutes: 60,
		DayStart:            8 * 3600,
		DayEnd:              12 * 3600,
	}
	require.NoError(t, st.Validate())

	for _, turnaround := range []int{0, -30} {
		_, err := Calculate(context.Background(), Input{
			Types:    []model.AircraftType{{ID: "X", SizeCategory: model.SizeC, AvgTurnaroundMinutes: turnaround}},
			Stands:   []model.Stand{{ID: "S1", CompatibleTypes: []string{"X"}}},
			Settings: st,
		})
		var inputErr *model.InputError
		require.ErrorAs(t, err, &inputErr, "turnaround %d", turnaround)
		assert.Equal(t, "aircraft_type.avg_turnaround_minutes", inputErr.Field)
	}
}

func TestCalculateCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Calculate(ctx, Input{
		Types:    []model.AircraftType{a320()},
		Stands:   []model.Stand{{ID: "S1", CompatibleTypes: []string{"A320"}}},
		Settings: settings(t),
	})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, model.ErrAborted)
	assert.ErrorIs(t, err, context.Canceled)
}
