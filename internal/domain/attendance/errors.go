package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Punch errors
	ErrLocationRequired = errors.New("location is required to punch")
	ErrOutOfRange       = errors.New("location is out of range")
	ErrReasonRequired   = errors.New("a reason is required")
	ErrAlreadyCheckedIn = errors.New("you have already checked in today")
	ErrNoRecord         = errors.New("you have not checked in yet")
	ErrNotCheckedOut    = errors.New("you have not checked out yet")
	ErrInvalidLocation  = errors.New("latitude and longitude must be provided together")

	// Employee gate
	ErrNotOnboarded = errors.New("employee is not onboarded")

	// Storage
	ErrDuplicateRecord    = errors.New("attendance record already exists for this date")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidDateRange   = errors.New("start date must not be after end date")
)

// OutOfRangeError carries what a client needs to tell the employee how far off they are.
type OutOfRangeError struct {
	LocationName   string
	DistanceMeters float64
	RadiusMeters   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%.0fm from %s (allowed %dm)", e.DistanceMeters, e.LocationName, e.RadiusMeters)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// ReasonKind tells which cutoff triggered a reason requirement.
type ReasonKind string

const (
	ReasonLate       ReasonKind = "late"
	ReasonEarlyLeave ReasonKind = "early_leave"
)

type ReasonRequiredError struct {
	Kind   ReasonKind
	Cutoff Clock
}

func (e *ReasonRequiredError) Error() string {
	return fmt.Sprintf("%s reason required (cutoff %s)", e.Kind, e.Cutoff)
}

func (e *ReasonRequiredError) Is(target error) bool {
	return target == ErrReasonRequired
}

// NotOnboardedError names the onboarding state that blocks punching.
type NotOnboardedError struct {
	Status string
}

func (e *NotOnboardedError) Error() string {
	return fmt.Sprintf("employee is %s and cannot punch", e.Status)
}

func (e *NotOnboardedError) Is(target error) bool {
	return target == ErrNotOnboarded
}
