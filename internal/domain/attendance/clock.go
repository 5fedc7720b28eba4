package attendance

import (
	"encoding/json"
	"fmt"
	"time"
)

// Clock is a wall-clock time of day, stored as the offset from midnight.
type Clock time.Duration

func NewClock(hour, minute, second int) Clock {
	return Clock(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second)
}

// ClockOf returns the time of day of t in t's location at microsecond
// resolution, the finest a TIME column keeps. Cutoffs compare against this
// value, so 09:00:00.4 is already after 09:00:00.
func ClockOf(t time.Time) Clock {
	frac := (time.Duration(t.Nanosecond()) * time.Nanosecond).Truncate(time.Microsecond)
	return NewClock(t.Hour(), t.Minute(), t.Second()) + Clock(frac)
}

// ParseClock accepts "15:04" or "15:04:05".
func ParseClock(s string) (Clock, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockOf(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

func (c Clock) Hour() int   { return int(time.Duration(c) / time.Hour) }
func (c Clock) Minute() int { return int(time.Duration(c)%time.Hour) / int(time.Minute) }
func (c Clock) Second() int { return int(time.Duration(c)%time.Minute) / int(time.Second) }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
}

func (c Clock) Before(o Clock) bool { return c < o }
func (c Clock) After(o Clock) bool  { return c > o }

// On anchors the clock to a calendar date in loc.
func (c Clock) On(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(time.Duration(c))
}

// Microseconds is the representation used by postgres TIME columns.
func (c Clock) Microseconds() int64 {
	return time.Duration(c).Microseconds()
}

func ClockFromMicroseconds(us int64) Clock {
	return Clock(time.Duration(us) * time.Microsecond)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
