package absence

import (
	"context"
	"time"
)

// Service marks employees absent on workdays they never punched.
type Service interface {
	// Run sweeps target, or yesterday when target is nil. Running it again for
	// the same date creates nothing new.
	Run(ctx context.Context, target *time.Time) (Summary, error)
}
