package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTimeSlots(t *testing.T) {
	slots := DefaultTimeSlots()
	require.Len(t, slots, 10)
	assert.Equal(t, "09:00 AM", slots[0].Time)
	assert.Equal(t, "06:00 PM", slots[9].Time)

	for i, s := range slots {
		assert.True(t, s.Available)
		h, err := To24Hour(s.Time)
		require.NoError(t, err)
		assert.Equal(t, 9+i, int(h[0]-'0')*10+int(h[1]-'0'))
	}
}

func TestTo24Hour(t *testing.T) {
	tests := map[string]string{
		"10:00 AM": "10:00",
		"12:00 PM": "12:00",
		"12:00 AM": "00:00",
		"06:00 PM": "18:00",
		"1:30 pm":  "13:30",
		"14:00":    "14:00",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			got, err := To24Hour(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	for _, bad := range []string{"", "noon", "13:00 PM", "10:60 AM", "10:00 XM", "25:00"} {
		_, err := To24Hour(bad)
		assert.Error(t, err, bad)
	}
}
