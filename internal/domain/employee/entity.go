package employee

import (
	"time"
)

// Employee is the read-only slice of the directory this module consumes.
type Employee struct {
	ID            string
	EmployeeCode  string
	FullName      string
	DepartmentID  *string
	IsActive      bool
	OnboardStatus OnboardStatus
	HireDate      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type OnboardStatus string

const (
	OnboardPending   OnboardStatus = "pending"
	OnboardOnboarded OnboardStatus = "onboarded"
	OnboardResigned  OnboardStatus = "resigned"
)

// Label is the display text used in rejection messages.
func (s OnboardStatus) Label() string {
	switch s {
	case OnboardPending:
		return "待入职"
	case OnboardOnboarded:
		return "已入职"
	case OnboardResigned:
		return "已离职"
	default:
		return "未知"
	}
}

// CanPunch reports whether the employee may record attendance.
func (e Employee) CanPunch() bool {
	return e.IsActive && e.OnboardStatus == OnboardOnboarded
}

// EligibleOn reports whether attendance is expected from the employee on date.
func (e Employee) EligibleOn(date time.Time) bool {
	if !e.CanPunch() {
		return false
	}
	return e.HireDate == nil || !e.HireDate.After(date)
}
