package employee

import (
	"context"
	"time"
)

type Repository interface {
	// GetByID returns ErrEmployeeNotFound when the id is unknown.
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListEligibleForDate returns active, onboarded employees hired on or before
	// date, including those with no hire date recorded.
	ListEligibleForDate(ctx context.Context, date time.Time) ([]Employee, error)
}
