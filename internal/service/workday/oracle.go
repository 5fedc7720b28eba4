package workday

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/workday"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/holiday"
	"golang.org/x/sync/singleflight"
)

const (
	// CalendarTTL is how long a calendar answer is trusted.
	CalendarTTL = 24 * time.Hour
	// FallbackTTL keeps a weekday guess short-lived so an outage heals quickly.
	FallbackTTL = time.Hour
)

type OracleImpl struct {
	calendar  workday.Calendar
	overrides *holiday.Overrides
	cache     *cache.TTL[workday.DayInfo]
	lookups   singleflight.Group
}

// NewOracle builds the workday oracle. A nil calendar disables network
// lookups and every date is classified by the weekday rule, uncached.
func NewOracle(calendar workday.Calendar, overrides *holiday.Overrides, store *cache.TTL[workday.DayInfo]) *OracleImpl {
	if store == nil {
		store = cache.NewTTL[workday.DayInfo]()
	}
	return &OracleImpl{
		calendar:  calendar,
		overrides: overrides,
		cache:     store,
	}
}

func cacheKey(date time.Time) string {
	return date.Format("2006-01-02")
}

// IsWorkday implements workday.Oracle.
func (o *OracleImpl) IsWorkday(ctx context.Context, date time.Time) bool {
	return o.Classify(ctx, date).IsWorkday()
}

// Classify implements workday.Oracle.
func (o *OracleImpl) Classify(ctx context.Context, date time.Time) workday.DayInfo {
	if info, ok := o.overrides.Find(date); ok {
		return info
	}
	if o.calendar == nil {
		return workday.WeekdayFallback(date)
	}

	key := cacheKey(date)
	if info, ok := o.cache.Get(key); ok {
		return info
	}

	// The answer is shared through the cache, so one caller's cancellation
	// must not decide it for everyone. The client carries its own timeout.
	v, _, _ := o.lookups.Do(key, func() (interface{}, error) {
		if info, ok := o.cache.Get(key); ok {
			return info, nil
		}
		return o.lookup(context.WithoutCancel(ctx), date, key), nil
	})
	return v.(workday.DayInfo)
}

func (o *OracleImpl) lookup(ctx context.Context, date time.Time, key string) workday.DayInfo {
	info, err := o.calendar.Lookup(ctx, date)
	if err != nil {
		slog.Warn("workday calendar lookup failed, using weekday rule",
			"date", key,
			"error", err,
		)
		info = workday.WeekdayFallback(date)
		o.cache.Set(key, info, FallbackTTL)
		return info
	}

	info.Date = date
	info.Source = workday.SourceCalendar
	o.cache.Set(key, info, CalendarTTL)
	return info
}

// Prewarm implements workday.Oracle. It returns how many expired entries were pruned.
func (o *OracleImpl) Prewarm(ctx context.Context, dates ...time.Time) int {
	pruned := o.cache.Prune()
	for _, d := range dates {
		if ctx.Err() != nil {
			break
		}
		o.Classify(ctx, d)
	}
	return pruned
}
