package timeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustToD(t *testing.T, s string) ToD {
	t.Helper()
	tod, err := ParseToD(s)
	require.NoError(t, err)
	return tod
}

func TestSlotDuration(t *testing.T) {
	for _, tc := range []struct {
		start, end string
		want       int
	}{
		{"08:00", "09:00", 60},
		{"08:00", "08:00", 0},
		{"23:00", "01:00", 120}, // crosses midnight
		{"22:30", "00:15", 105},
	} {
		slot := TimeSlot{Start: mustToD(t, tc.start), End: mustToD(t, tc.end)}
		assert.Equal(t, tc.want, slot.DurationMinutes(), "%s-%s", tc.start, tc.end)
	}
}

func TestSlotOverlap(t *testing.T) {
	mk := func(start, end string) TimeSlot {
		return TimeSlot{Start: mustToD(t, start), End: mustToD(t, end)}
	}
	assert.True(t, Overlap(mk("08:00", "10:00"), mk("09:00", "11:00")))
	assert.False(t, Overlap(mk("08:00", "09:00"), mk("09:00", "10:00"))) // half-open
	assert.True(t, Overlap(mk("23:00", "01:00"), mk("00:30", "02:00")))  // across midnight
	assert.False(t, Overlap(mk("23:00", "01:00"), mk("01:00", "02:00")))
	assert.True(t, Overlap(mk("22:00", "02:00"), mk("23:30", "23:45")))
}

func TestGenerateSlots(t *testing.T) {
	slots, err := GenerateSlots(mustToD(t, "08:00"), mustToD(t, "12:00"), 60)
	require.NoError(t, err)
	require.Len(t, slots, 4)
	assert.Equal(t, "08:00 - 09:00", slots[0].Label)
	assert.Equal(t, "11:00 - 12:00", slots[3].Label)
}

func TestGenerateSlotsClipsTail(t *testing.T) {
	slots, err := GenerateSlots(mustToD(t, "08:00"), mustToD(t, "09:30"), 60)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, 60, slots[0].DurationMinutes())
	assert.Equal(t, 30, slots[1].DurationMinutes())
	assert.Equal(t, "09:00 - 09:30", slots[1].Label)
}

// Total slot time must always equal the operating day.
func TestGenerateSlotsCoverDay(t *testing.T) {
	for _, slotMin := range []int{15, 37, 60, 240, 1000} {
		start, end := mustToD(t, "05:45"), mustToD(t, "22:10")
		slots, err := GenerateSlots(start, end, slotMin)
		require.NoError(t, err)
		total := 0
		for _, s := range slots {
			total += s.DurationMinutes()
		}
		assert.Equal(t, end.Minutes()-start.Minutes(), total, "slot=%d", slotMin)
	}
}

func TestGenerateSlotsRejectsBadInput(t *testing.T) {
	_, err := GenerateSlots(mustToD(t, "08:00"), mustToD(t, "12:00"), 0)
	assert.Error(t, err)
	_, err = GenerateSlots(mustToD(t, "12:00"), mustToD(t, "08:00"), 60)
	assert.Error(t, err)
}
