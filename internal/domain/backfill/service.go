package backfill

import (
	"context"

	"github.com/cmlabs-hris/attendance-core/internal/domain/auth"
)

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (Response, error)
	ListMine(ctx context.Context, employeeID string) ([]Response, error)
	ListForReview(ctx context.Context, actor auth.Actor, req ListRequest) ([]Response, error)
	// Review applies a terminal decision. Approval merges the punch into the
	// attendance record of that day, creating it when missing.
	Review(ctx context.Context, actor auth.Actor, req ReviewRequest) (ReviewResponse, error)
}
