package workday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayType_IsWorkday(t *testing.T) {
	assert.True(t, DayOrdinary.IsWorkday())
	assert.True(t, DayMakeup.IsWorkday())
	assert.False(t, DayWeekend.IsWorkday())
	assert.False(t, DayHoliday.IsWorkday())
	assert.False(t, DayType(7).Valid())
}

func TestWeekdayFallback(t *testing.T) {
	// 2024-05-06 is a Monday
	monday := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		info := WeekdayFallback(d)
		assert.Equal(t, SourceFallback, info.Source)
		assert.Equal(t, i < 5, info.IsWorkday(), d.Weekday().String())
	}
}

func TestNewStatusResponse(t *testing.T) {
	d := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)

	resp := NewStatusResponse(DayInfo{Date: d, Type: DayHoliday, HolidayName: "国庆节"})
	assert.Equal(t, "2024-10-01", resp.Date)
	assert.False(t, resp.IsWorkday)
	assert.Equal(t, "国庆节", resp.HolidayName)

	resp = NewStatusResponse(DayInfo{Date: d, Type: DayWeekend, HolidayName: "周六"})
	assert.Equal(t, "周末", resp.HolidayName)

	resp = NewStatusResponse(DayInfo{Date: d, Type: DayMakeup, HolidayName: "国庆节后补班"})
	assert.True(t, resp.IsWorkday)
	assert.Empty(t, resp.HolidayName)
}
