package leave

import (
	"context"
	"time"
)

// Repository reads approved leave requests and business trips. The approval
// workflows themselves live elsewhere.
type Repository interface {
	// ApprovedSpansOn returns approved spans of kind that cover date.
	ApprovedSpansOn(ctx context.Context, kind Kind, date time.Time) ([]Span, error)
}
