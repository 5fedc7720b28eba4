package backfill

import (
	"context"
	"time"
)

type ListFilter struct {
	EmployeeID    *string
	Status        *Status  // nil means every status
	DepartmentIDs []string // nil means every department
}

type Repository interface {
	// Create returns ErrDuplicatePending when a pending request exists for the
	// same employee, date and kind.
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	HasPending(ctx context.Context, employeeID string, date time.Time, kind Kind) (bool, error)

	// List returns requests newest first.
	List(ctx context.Context, filter ListFilter) ([]Request, error)

	// Resolve moves a pending request to a terminal status. It returns
	// ErrAlreadyProcessed when the request is no longer pending.
	Resolve(ctx context.Context, req Request) error
}
