package absence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-core/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core/internal/domain/audit"
	"github.com/cmlabs-hris/attendance-core/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-core/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-core/internal/domain/workday"
	"golang.org/x/sync/errgroup"
)

// SystemActor is recorded as the actor of sweep audit events.
const SystemActor = "system"

type AbsenceServiceImpl struct {
	records   attendance.Repository
	employees employee.Repository
	leaves    leave.Repository
	oracle    workday.Oracle
	audit     audit.Logger

	policy attendance.Policy
	loc    *time.Location
	now    func() time.Time
}

func NewAbsenceService(
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	leaveRepo leave.Repository,
	oracle workday.Oracle,
	auditLogger audit.Logger,
	policy attendance.Policy,
	loc *time.Location,
	now func() time.Time,
) *AbsenceServiceImpl {
	if policy == (attendance.Policy{}) {
		policy = attendance.DefaultPolicy()
	}
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &AbsenceServiceImpl{
		records:   attendanceRepo,
		employees: employeeRepo,
		leaves:    leaveRepo,
		oracle:    oracle,
		audit:     auditLogger,
		policy:    policy,
		loc:       loc,
		now:       now,
	}
}

var _ absence.Service = (*AbsenceServiceImpl)(nil)

// Run implements absence.Service.
func (s *AbsenceServiceImpl) Run(ctx context.Context, target *time.Time) (absence.Summary, error) {
	now := s.now().In(s.loc)
	today := attendance.DateOf(now)

	date := today.AddDate(0, 0, -1)
	if target != nil {
		date = attendance.DateOf(*target)
	}
	summary := absence.Summary{Date: date.Format("2006-01-02")}

	switch {
	case date.After(today):
		summary.SkipReason = absence.SkipFutureDate
	case !s.oracle.IsWorkday(ctx, date):
		summary.SkipReason = absence.SkipNotWorkday
	case !date.Before(today) && !s.policy.DayFinished(attendance.ClockOf(now)):
		summary.SkipReason = absence.SkipBeforeCutoff
	}
	if summary.SkipReason != "" {
		slog.Info("Absence sweep skipped", "date", summary.Date, "reason", summary.SkipReason)
		return summary, nil
	}

	eligible, err := s.employees.ListEligibleForDate(ctx, date)
	if err != nil {
		return summary, fmt.Errorf("failed to list eligible employees: %w", err)
	}
	summary.Eligible = len(eligible)
	if len(eligible) == 0 {
		return summary, nil
	}

	excluded, err := s.exclusions(ctx, date)
	if err != nil {
		return summary, err
	}

	for _, emp := range eligible {
		if _, ok := excluded[emp.ID]; ok {
			summary.Skipped++
			continue
		}

		_, created, err := s.records.FindOrCreate(ctx, attendance.Record{
			EmployeeID: emp.ID,
			Date:       date,
			Status:     attendance.StatusAbsent,
			Notes:      attendance.NoteAutoAbsent,
		})
		if err != nil {
			return summary, fmt.Errorf("failed to mark %s absent: %w", emp.ID, err)
		}
		if created {
			summary.Created++
		} else {
			// A live punch won the race; its record stands.
			summary.Skipped++
		}
	}

	slog.Info("Absence sweep finished",
		"date", summary.Date,
		"eligible", summary.Eligible,
		"created", summary.Created,
		"skipped", summary.Skipped,
	)
	if summary.Created > 0 {
		s.audit.Log(ctx, audit.Event{
			ActorID: SystemActor,
			Action:  audit.ActionAbsenceSweep,
			Detail:  fmt.Sprintf("date=%s created=%d skipped=%d", summary.Date, summary.Created, summary.Skipped),
		})
	}
	return summary, nil
}

// exclusions loads everyone already accounted for on date: existing records,
// approved leave and approved business trips.
func (s *AbsenceServiceImpl) exclusions(ctx context.Context, date time.Time) (map[string]struct{}, error) {
	var (
		withRecord []string
		leaveSpans []leave.Span
		tripSpans  []leave.Span
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := s.records.EmployeeIDsWithRecordOn(gctx, date)
		if err != nil {
			return fmt.Errorf("failed to load existing attendance: %w", err)
		}
		withRecord = ids
		return nil
	})
	g.Go(func() error {
		spans, err := s.leaves.ApprovedSpansOn(gctx, leave.KindLeave, date)
		if err != nil {
			return fmt.Errorf("failed to load approved leave: %w", err)
		}
		leaveSpans = spans
		return nil
	})
	g.Go(func() error {
		spans, err := s.leaves.ApprovedSpansOn(gctx, leave.KindBusinessTrip, date)
		if err != nil {
			return fmt.Errorf("failed to load approved business trips: %w", err)
		}
		tripSpans = spans
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	excluded := leave.EmployeeSet(append(leaveSpans, tripSpans...), date)
	for _, id := range withRecord {
		excluded[id] = struct{}{}
	}
	return excluded, nil
}
