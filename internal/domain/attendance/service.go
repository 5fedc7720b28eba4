package attendance

import (
	"context"

	"github.com/cmlabs-hris/attendance-core/internal/domain/auth"
)

// Service owns the per-day attendance record lifecycle.
type Service interface {
	CheckIn(ctx context.Context, req PunchRequest) (PunchResponse, error)
	CheckOut(ctx context.Context, req PunchRequest) (PunchResponse, error)
	// UpdateCheckOut moves an existing check-out to the current time.
	UpdateCheckOut(ctx context.Context, req PunchRequest) (PunchResponse, error)

	// Today returns nil when the employee has no record today.
	Today(ctx context.Context, employeeID string) (*RecordResponse, error)
	Range(ctx context.Context, employeeID string, req RangeRequest) ([]RecordResponse, error)

	List(ctx context.Context, actor auth.Actor, req ListRequest) (ListResponse, error)
	Alerts(ctx context.Context, actor auth.Actor, req AlertRequest) (AlertResponse, error)

	CheckLocation(ctx context.Context, employeeID string, latitude, longitude float64) (LocationCheckResponse, error)
}
