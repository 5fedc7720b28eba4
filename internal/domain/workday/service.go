package workday

import (
	"context"
	"time"
)

// Calendar is an authoritative day-type source, typically a network service.
// Implementations return an error on any failure; they never guess.
type Calendar interface {
	Lookup(ctx context.Context, date time.Time) (DayInfo, error)
}

// Oracle answers whether a date is a working day. It never fails: lookup
// problems degrade to the weekday rule.
type Oracle interface {
	IsWorkday(ctx context.Context, date time.Time) bool
	Classify(ctx context.Context, date time.Time) DayInfo
	// Prewarm resolves the given dates ahead of time and drops expired cache entries.
	Prewarm(ctx context.Context, dates ...time.Time) int
}
