package timeutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToD(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want int // seconds since midnight
		ok   bool
	}{
		{"00:00:00", 0, true},
		{"08:30:15", 8*3600 + 30*60 + 15, true},
		{"23:59:59", 86399, true},
		{"09:45", 9*3600 + 45*60, true},
		{"24:00:00", 0, false},
		{"12:60:00", 0, false},
		{"noon", 0, false},
		{"", 0, false},
	} {
		got, err := ParseToD(tc.in)
		if !tc.ok {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, ToD(tc.want), got, tc.in)
	}
}

func TestToDComponents(t *testing.T) {
	tod, err := NewToD(14, 5, 30)
	require.NoError(t, err)
	assert.Equal(t, 14, tod.Hour())
	assert.Equal(t, 5, tod.Minute())
	assert.Equal(t, 30, tod.Second())
	assert.Equal(t, 14*60+5, tod.Minutes())
	assert.Equal(t, "14:05:30", tod.String())
	assert.Equal(t, "14:05", tod.Short())
}

func TestToDAddMinutesWraps(t *testing.T) {
	tod, _ := NewToD(23, 30, 0)
	assert.Equal(t, "00:30:00", tod.AddMinutes(60).String())
	assert.Equal(t, "22:30:00", tod.AddMinutes(-60).String())
}

func TestToDJSONRoundTrip(t *testing.T) {
	tod, _ := NewToD(6, 15, 0)
	b, err := json.Marshal(tod)
	require.NoError(t, err)
	assert.Equal(t, `"06:15:00"`, string(b))

	var back ToD
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, tod, back)

	assert.Error(t, json.Unmarshal([]byte(`"25:00:00"`), &back))
}
