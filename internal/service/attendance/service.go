package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core/internal/domain/audit"
	"github.com/cmlabs-hris/attendance-core/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-core/internal/domain/workday"
	"github.com/cmlabs-hris/attendance-core/internal/service/geofence"
)

// Options carries the time settings of the service. Zero values fall back to
// the default cutoffs, the local zone and time.Now.
type Options struct {
	Policy   attendance.Policy
	Location *time.Location
	Now      func() time.Time
}

type AttendanceServiceImpl struct {
	attendance.Repository
	employees employee.Repository
	resolver  *geofence.Resolver
	oracle    workday.Oracle
	audit     audit.Logger

	policy attendance.Policy
	loc    *time.Location
	now    func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	resolver *geofence.Resolver,
	oracle workday.Oracle,
	auditLogger audit.Logger,
	opts Options,
) *AttendanceServiceImpl {
	if opts.Policy == (attendance.Policy{}) {
		opts.Policy = attendance.DefaultPolicy()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AttendanceServiceImpl{
		Repository: attendanceRepo,
		employees:  employeeRepo,
		resolver:   resolver,
		oracle:     oracle,
		audit:      auditLogger,
		policy:     opts.Policy,
		loc:        opts.Location,
		now:        opts.Now,
	}
}

// today returns the local calendar date and time of day.
func (s *AttendanceServiceImpl) today() (time.Time, attendance.Clock) {
	now := s.now().In(s.loc)
	return attendance.DateOf(now), attendance.ClockOf(now)
}

// punchingEmployee loads the employee and refuses those who may not punch.
func (s *AttendanceServiceImpl) punchingEmployee(ctx context.Context, employeeID string) (employee.Employee, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive {
		return employee.Employee{}, &attendance.NotOnboardedError{Status: "已停用"}
	}
	if !emp.CanPunch() {
		return employee.Employee{}, &attendance.NotOnboardedError{Status: emp.OnboardStatus.Label()}
	}
	return emp, nil
}

func (s *AttendanceServiceImpl) logEvent(ctx context.Context, req attendance.PunchRequest, action, detail string) {
	s.audit.Log(ctx, audit.Event{
		ActorID:   req.ActorID,
		Action:    action,
		Detail:    detail,
		IPAddress: req.ClientIP,
	})
}

var _ attendance.Service = (*AttendanceServiceImpl)(nil)
