package attendance

import (
	"context"
	"time"
)

// Filter narrows attendance listings.
type Filter struct {
	EmployeeID    *string
	DepartmentIDs []string // nil means every department
	StartDate     *time.Time
	EndDate       *time.Time
	Status        *Status
	Page          int
	Limit         int
}

// AlertFilter selects exception records of onboarded employees.
type AlertFilter struct {
	Since         time.Time
	Until         time.Time
	Statuses      []Status
	EmployeeID    *string
	DepartmentIDs []string // nil means every department
	Limit         int
}

// Repository stores attendance records. Records are unique on (employee, date).
type Repository interface {
	// Create inserts a new record. Returns ErrDuplicateRecord when one already
	// exists for the same employee and date.
	Create(ctx context.Context, rec Record) (Record, error)

	// FindOrCreate inserts rec unless a record for the same employee and date
	// exists, in which case the stored record is returned untouched.
	FindOrCreate(ctx context.Context, rec Record) (Record, bool, error)

	// GetByEmployeeAndDate returns nil when there is no record.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	Update(ctx context.Context, rec Record) error

	// ListByEmployee returns an employee's records between from and to inclusive, newest first.
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)

	List(ctx context.Context, filter Filter) ([]Record, int64, error)

	ListAlerts(ctx context.Context, filter AlertFilter) ([]Record, error)

	// EmployeeIDsWithRecordOn lists employees that already have a record for date.
	EmployeeIDsWithRecordOn(ctx context.Context, date time.Time) ([]string, error)
}
