package workday

import "time"

// DayType is the calendar classification of a date.
type DayType int

const (
	DayOrdinary DayType = 0
	DayWeekend  DayType = 1
	DayHoliday  DayType = 2
	// DayMakeup is a weekend reassigned as a working day to compensate for a holiday.
	DayMakeup DayType = 3
)

// Source records where a DayInfo came from.
type Source string

const (
	SourceCalendar Source = "calendar"
	SourceOverride Source = "override"
	SourceFallback Source = "fallback"
)

// IsWorkday reports whether attendance is expected on a day of this type.
func (t DayType) IsWorkday() bool {
	return t == DayOrdinary || t == DayMakeup
}

func (t DayType) Valid() bool {
	return t >= DayOrdinary && t <= DayMakeup
}

func (t DayType) String() string {
	switch t {
	case DayOrdinary:
		return "ordinary"
	case DayWeekend:
		return "weekend"
	case DayHoliday:
		return "holiday"
	case DayMakeup:
		return "makeup"
	default:
		return "unknown"
	}
}

// Label is the display name shown to employees.
func (t DayType) Label() string {
	switch t {
	case DayOrdinary:
		return "工作日"
	case DayWeekend:
		return "周末"
	case DayHoliday:
		return "节假日"
	case DayMakeup:
		return "调休补班"
	default:
		return "未知"
	}
}

type DayInfo struct {
	Date        time.Time
	Type        DayType
	HolidayName string
	Source      Source
}

func (d DayInfo) IsWorkday() bool {
	return d.Type.IsWorkday()
}

// WeekdayFallback classifies a date with the plain Monday to Friday rule.
func WeekdayFallback(date time.Time) DayInfo {
	info := DayInfo{Date: date, Type: DayOrdinary, Source: SourceFallback}
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		info.Type = DayWeekend
	}
	return info
}
