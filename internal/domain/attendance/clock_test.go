package attendance

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{"09:00", NewClock(9, 0, 0), false},
		{"09:15:30", NewClock(9, 15, 30), false},
		{"23:59:59", NewClock(23, 59, 59), false},
		{"24:00", 0, true},
		{"9am", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseClock(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClock_StringAndParts(t *testing.T) {
	c := NewClock(18, 5, 9)
	assert.Equal(t, "18:05:09", c.String())
	assert.Equal(t, 18, c.Hour())
	assert.Equal(t, 5, c.Minute())
	assert.Equal(t, 9, c.Second())
}

func TestClockOf_KeepsMicroseconds(t *testing.T) {
	ts := time.Date(2024, 5, 6, 8, 50, 12, 999_000_999, time.UTC)
	c := ClockOf(ts)
	assert.Equal(t, NewClock(8, 50, 12)+Clock(999_000*time.Microsecond), c)
	assert.Equal(t, "08:50:12", c.String())
	assert.Equal(t, c, ClockFromMicroseconds(c.Microseconds()))
}

func TestClockOf_SubSecondPastCutoffIsLate(t *testing.T) {
	p := DefaultPolicy()
	assert.True(t, p.IsLate(ClockOf(time.Date(2024, 5, 6, 9, 0, 0, 400_000_000, time.UTC))))
	assert.False(t, p.IsLate(ClockOf(time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC))))
	assert.True(t, p.IsEarly(ClockOf(time.Date(2024, 5, 6, 17, 59, 59, 900_000_000, time.UTC))))
}

func TestClock_On(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	got := NewClock(9, 30, 0).On(time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, time.Date(2024, 5, 6, 9, 30, 0, 0, loc), got)
}

func TestClock_Microseconds(t *testing.T) {
	c := NewClock(12, 0, 1)
	assert.Equal(t, c, ClockFromMicroseconds(c.Microseconds()))
}

func TestClock_JSON(t *testing.T) {
	raw, err := json.Marshal(NewClock(7, 5, 0))
	require.NoError(t, err)
	assert.Equal(t, `"07:05:00"`, string(raw))

	var c Clock
	require.NoError(t, json.Unmarshal([]byte(`"17:30"`), &c))
	assert.Equal(t, NewClock(17, 30, 0), c)
	assert.Error(t, json.Unmarshal([]byte(`"noon"`), &c))
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	// 2024-05-06 23:30 CST is still the 6th locally even though it is the 6th 15:30 UTC
	got := DateOf(time.Date(2024, 5, 6, 23, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), got)
}
