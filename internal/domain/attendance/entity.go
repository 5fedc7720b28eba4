package attendance

import (
	"time"
)

// Status is the derived classification of an attendance day.
type Status string

const (
	StatusCheckedIn  Status = "check_in"
	StatusCheckedOut Status = "check_out"
	StatusLate       Status = "late"
	StatusEarlyLeave Status = "early_leave"
	StatusAbsent     Status = "absent"
)

func (s Status) Valid() bool {
	switch s {
	case StatusCheckedIn, StatusCheckedOut, StatusLate, StatusEarlyLeave, StatusAbsent:
		return true
	}
	return false
}

// AlertStatuses are the classifications surfaced on the alerts board.
var AlertStatuses = []Status{StatusAbsent, StatusLate, StatusEarlyLeave}

// Record is the single attendance row of one employee on one calendar date.
type Record struct {
	ID         string
	EmployeeID string
	Date       time.Time
	CheckIn    *Clock
	CheckOut   *Clock
	Status     Status
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	EmployeeName *string
	EmployeeCode *string
	DepartmentID *string
}

func (r Record) HasCheckIn() bool  { return r.CheckIn != nil }
func (r Record) HasCheckOut() bool { return r.CheckOut != nil }

// DateOf truncates t to its calendar date in t's own location, returned as
// midnight UTC so it compares and stores as a plain DATE.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
