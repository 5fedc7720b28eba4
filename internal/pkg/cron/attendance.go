package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-core/internal/domain/workday"
)

const (
	JobMarkAbsentDaily     = "mark_absent_daily"
	JobMarkAbsentToday     = "mark_absent_today"
	JobRefreshWorkdayCache = "refresh_workday_cache"
)

type AttendanceJobs struct {
	sweeper absence.Service
	oracle  workday.Oracle
	loc     *time.Location
	now     func() time.Time
}

func NewAttendanceJobs(sweeper absence.Service, oracle workday.Oracle, loc *time.Location, now func() time.Time) *AttendanceJobs {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &AttendanceJobs{
		sweeper: sweeper,
		oracle:  oracle,
		loc:     loc,
		now:     now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(JobMarkAbsentDaily, 24*time.Hour, j.MarkAbsentYesterday)
	scheduler.AddJob(JobMarkAbsentToday, 1*time.Hour, j.MarkAbsentToday)
	scheduler.AddJob(JobRefreshWorkdayCache, 1*time.Hour, j.RefreshWorkdayCache)
}

func (j *AttendanceJobs) today() time.Time {
	y, m, d := j.now().In(j.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MarkAbsentYesterday sweeps the previous calendar day.
func (j *AttendanceJobs) MarkAbsentYesterday(ctx context.Context) error {
	summary, err := j.sweeper.Run(ctx, nil)
	if err != nil {
		return fmt.Errorf("absence sweep failed: %w", err)
	}
	slog.Info("Cron: Marked absent employees", "date", summary.Date, "created", summary.Created)
	return nil
}

// MarkAbsentToday sweeps today; the sweep itself declines until the workday is over.
func (j *AttendanceJobs) MarkAbsentToday(ctx context.Context) error {
	today := j.today()
	summary, err := j.sweeper.Run(ctx, &today)
	if err != nil {
		return fmt.Errorf("absence sweep failed: %w", err)
	}
	if summary.SkipReason != "" {
		slog.Debug("Cron: Today's absence sweep skipped", "reason", summary.SkipReason)
		return nil
	}
	slog.Info("Cron: Marked absent employees", "date", summary.Date, "created", summary.Created)
	return nil
}

// RefreshWorkdayCache resolves today and tomorrow so punches never wait on the calendar.
func (j *AttendanceJobs) RefreshWorkdayCache(ctx context.Context) error {
	today := j.today()
	pruned := j.oracle.Prewarm(ctx, today, today.AddDate(0, 0, 1))
	slog.Debug("Cron: Workday cache refreshed", "pruned", pruned)
	return nil
}
