package location

import "context"

type Repository interface {
	Create(ctx context.Context, loc CheckInLocation) (CheckInLocation, error)
	GetByID(ctx context.Context, id string) (CheckInLocation, error)
	Update(ctx context.Context, loc CheckInLocation) error
	Delete(ctx context.Context, id string) error

	// List returns locations ordered by default flag then name.
	List(ctx context.Context, includeInactive bool) ([]CheckInLocation, error)

	// ListActiveForEmployee returns the active locations scoped to employeeID.
	ListActiveForEmployee(ctx context.Context, employeeID string) ([]CheckInLocation, error)

	// ClearDefaultExcept unsets the default flag on every location but id.
	// An empty id clears them all.
	ClearDefaultExcept(ctx context.Context, id string) error

	ListEmployeeLocationIDs(ctx context.Context, employeeID string) ([]string, error)
	// SetEmployeeLocations replaces the employee's scoped location set.
	SetEmployeeLocations(ctx context.Context, employeeID string, locationIDs []string) error
}
