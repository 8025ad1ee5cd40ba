package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSizeCategory(t *testing.T) {
	got, err := ParseSizeCategory("c")
	require.NoError(t, err)
	assert.Equal(t, SizeC, got)

	for _, in := range []string{"", "G", "AB", "1"} {
		_, err := ParseSizeCategory(in)
		assert.Error(t, err, in)
	}
}

func TestSizeCategoryOrdering(t *testing.T) {
	assert.True(t, SizeA < SizeB)
	assert.True(t, SizeE < SizeF)
	assert.True(t, SizeC > SizeB)
}

func TestNewAircraftType(t *testing.T) {
	at, err := NewAircraftType("A320", SizeC, 45)
	require.NoError(t, err)
	assert.Equal(t, "A320", at.ID)

	_, err = NewAircraftType("", SizeC, 45)
	assert.Error(t, err)
	_, err = NewAircraftType("A320", SizeCategory('Z'), 45)
	assert.Error(t, err)
	_, err = NewAircraftType("A320", SizeC, 0)
	assert.Error(t, err)

	var inputErr *InputError
	assert.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "aircraft_type.avg_turnaround_minutes", inputErr.Field)
}

func TestNewStand(t *testing.T) {
	s, err := NewStand("S1", []string{" A320 ", "B777"})
	require.NoError(t, err)
	assert.True(t, s.Compatible("A320"))
	assert.True(t, s.Compatible("B777"))
	assert.False(t, s.Compatible("E190"))

	_, err = NewStand("", nil)
	assert.Error(t, err)
	_, err = NewStand("S1", []string{"A320", " "})
	assert.Error(t, err)
}

func TestNewAdjacencyRule(t *testing.T) {
	_, err := NewAdjacencyRule("S1", []string{"B777"}, "S2", Restriction{Kind: NoUse})
	require.NoError(t, err)

	_, err = NewAdjacencyRule("S1", nil, "S2", Restriction{Kind: MaxSizeReducedTo})
	assert.Error(t, err, "size cap without a size")
	_, err = NewAdjacencyRule("S1", nil, "S2", Restriction{Kind: MaxSizeReducedTo, Size: SizeC})
	require.NoError(t, err)

	_, err = NewAdjacencyRule("S1", nil, "S2", Restriction{Kind: TypeProhibited})
	assert.Error(t, err, "prohibition without a type")
	_, err = NewAdjacencyRule("S1", nil, "S2", Restriction{Kind: TypeProhibited, Type: "A320"})
	require.NoError(t, err)

	_, err = NewAdjacencyRule("", nil, "S2", Restriction{Kind: NoUse})
	assert.Error(t, err)
	_, err = NewAdjacencyRule("S1", nil, "S2", Restriction{Kind: "BOGUS"})
	assert.Error(t, err)
}

func TestApplyRestriction(t *testing.T) {
	types := map[string]AircraftType{
		"A320": {ID: "A320", SizeCategory: SizeC},
		"B777": {ID: "B777", SizeCategory: SizeE},
		"E190": {ID: "E190", SizeCategory: SizeC},
	}
	set := []string{"A320", "B777", "E190"}

	assert.Empty(t, ApplyRestriction(set, Restriction{Kind: NoUse}, types))
	assert.Equal(t, []string{"A320", "E190"},
		ApplyRestriction(set, Restriction{Kind: MaxSizeReducedTo, Size: SizeC}, types))
	assert.Equal(t, []string{"A320", "E190"},
		ApplyRestriction(set, Restriction{Kind: TypeProhibited, Type: "B777"}, types))
	// input untouched
	assert.Equal(t, []string{"A320", "B777", "E190"}, set)
}

func TestEffectiveSetOrderIndependent(t *testing.T) {
	types := map[string]AircraftType{
		"A320": {ID: "A320", SizeCategory: SizeC},
		"B777": {ID: "B777", SizeCategory: SizeE},
	}
	stand := Stand{ID: "S2", CompatibleTypes: []string{"A320", "B777"}}
	ra, _ := NewAdjacencyRule("S1", nil, "S2", Restriction{Kind: TypeProhibited, Type: "B777"})
	rb, _ := NewAdjacencyRule("S3", nil, "S2", Restriction{Kind: MaxSizeReducedTo, Size: SizeC})

	forward := EffectiveSet(stand, []AdjacencyRule{ra, rb}, types)
	backward := EffectiveSet(stand, []AdjacencyRule{rb, ra}, types)
	assert.Equal(t, forward, backward)
	assert.Equal(t, []string{"A320"}, forward)
}

func TestParseFlightNature(t *testing.T) {
	for in, want := range map[string]FlightNature{
		"Arrival": Arrival, "ARR": Arrival, "a": Arrival,
		"Departure": Departure, "dep": Departure, "D": Departure,
	} {
		got, err := ParseFlightNature(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFlightNature("overflight")
	assert.Error(t, err)
}

func TestSettingsValidate(t *testing.T) {
	ok := OperationalSettings{GapMinutes: 15, SlotDurationMinutes: 60, DayStart: 8 * 3600, DayEnd: 12 * 3600}
	require.NoError(t, ok.Validate())
	assert.Equal(t, 240, ok.OperatingDayMinutes())

	bad := ok
	bad.GapMinutes = -1
	assert.Error(t, bad.Validate())
	bad = ok
	bad.SlotDurationMinutes = 0
	assert.Error(t, bad.Validate())
	bad = ok
	bad.DayStart, bad.DayEnd = bad.DayEnd, bad.DayStart
	assert.Error(t, bad.Validate())
}
