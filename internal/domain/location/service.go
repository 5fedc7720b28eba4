package location

import (
	"context"

	"github.com/cmlabs-hris/attendance-core/internal/domain/auth"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Response, error)
	Update(ctx context.Context, req UpdateRequest) (Response, error)
	Delete(ctx context.Context, req DeleteRequest) error
	Get(ctx context.Context, id string) (Response, error)
	// List hides inactive locations from non-admins.
	List(ctx context.Context, actor auth.Actor) ([]Response, error)
	ListActive(ctx context.Context) ([]Response, error)

	GetEmployeeLocations(ctx context.Context, employeeID string) (EmployeeLocationsResponse, error)
	AssignEmployeeLocations(ctx context.Context, req AssignRequest) (EmployeeLocationsResponse, error)
}
