package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/attendance-core/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core/internal/domain/audit"
	"github.com/cmlabs-hris/attendance-core/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-core/internal/domain/location"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-core/internal/service/geofence"
)

// verifyLocation applies the geofence to a punch. Employees with no
// applicable location punch from anywhere.
func (s *AttendanceServiceImpl) verifyLocation(ctx context.Context, emp employee.Employee, req attendance.PunchRequest, action string) (location.Resolution, error) {
	candidates, err := s.resolver.Candidates(ctx, emp.ID)
	if err != nil {
		return location.Resolution{}, err
	}
	if len(candidates) == 0 {
		return location.Resolution{InRange: true}, nil
	}
	if !req.HasCoordinate() {
		return location.Resolution{}, attendance.ErrLocationRequired
	}

	res := geofence.Match(geo.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}, candidates)
	if res.Bypassed {
		slog.Warn("punch without precise location, geofence skipped",
			"employee_id", emp.ID,
			"employee_code", emp.EmployeeCode,
			"action", action,
		)
		s.logEvent(ctx, req, audit.ActionLocationUnavailable, fmt.Sprintf("%s %s", emp.EmployeeCode, action))
	}
	if !res.InRange {
		return res, &attendance.OutOfRangeError{
			LocationName:   res.Nearest.Name,
			DistanceMeters: res.DistanceMeters,
			RadiusMeters:   res.Nearest.RadiusMeters,
		}
	}
	return res, nil
}

func (s *AttendanceServiceImpl) punchResponse(rec attendance.Record, isWorkday bool, res location.Resolution) attendance.PunchResponse {
	resp := attendance.PunchResponse{
		Record:             attendance.NewRecordResponse(rec),
		IsWorkday:          isWorkday,
		LocationUnverified: res.Bypassed,
	}
	if res.Nearest != nil {
		name := res.Nearest.Name
		d := res.DistanceMeters
		resp.LocationName = &name
		resp.DistanceMeters = &d
	}
	return resp
}

// CheckIn implements attendance.Service.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.PunchRequest) (attendance.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchResponse{}, err
	}
	emp, err := s.punchingEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.PunchResponse{}, err
	}
	res, err := s.verifyLocation(ctx, emp, req, audit.ActionCheckIn)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	date, now := s.today()
	isWorkday := s.oracle.IsWorkday(ctx, date)

	existing, err := s.Repository.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return attendance.PunchResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing != nil && existing.HasCheckIn() {
		return attendance.PunchResponse{}, attendance.ErrAlreadyCheckedIn
	}

	late := isWorkday && s.policy.IsLate(now)
	reason := strings.TrimSpace(req.Notes)
	if late && reason == "" {
		return attendance.PunchResponse{}, &attendance.ReasonRequiredError{Kind: attendance.ReasonLate, Cutoff: s.policy.LateCutoff}
	}

	var note string
	switch {
	case late:
		note = attendance.WithPrefix(attendance.NotePrefixLate, reason)
	case reason != "":
		note = reason
	case !isWorkday:
		note = attendance.NoteOvertime
	}

	var rec attendance.Record
	if existing == nil {
		rec = attendance.Record{EmployeeID: emp.ID, Date: date, CheckIn: &now, Notes: note}
		attendance.Reclassify(&rec, isWorkday, s.policy)

		rec, err = s.Repository.Create(ctx, rec)
		if err != nil {
			if !errors.Is(err, attendance.ErrDuplicateRecord) {
				return attendance.PunchResponse{}, fmt.Errorf("failed to create attendance: %w", err)
			}
			// Lost the insert race. Another check-in wins; an absence
			// record written meanwhile is taken over below.
			existing, err = s.Repository.GetByEmployeeAndDate(ctx, emp.ID, date)
			if err != nil {
				return attendance.PunchResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
			}
			if existing == nil || existing.HasCheckIn() {
				return attendance.PunchResponse{}, attendance.ErrAlreadyCheckedIn
			}
		}
	}
	if existing != nil {
		rec = *existing
		rec.CheckIn = &now
		if note == attendance.NoteOvertime && rec.Notes != "" {
			note = ""
		}
		rec.Notes = attendance.AppendNote(rec.Notes, attendance.NoteLineSeparator, note)
		attendance.Reclassify(&rec, isWorkday, s.policy)

		if err := s.Repository.Update(ctx, rec); err != nil {
			return attendance.PunchResponse{}, fmt.Errorf("failed to update attendance: %w", err)
		}
	}

	s.logEvent(ctx, req, audit.ActionCheckIn, fmt.Sprintf("%s %s %s", emp.EmployeeCode, date.Format("2006-01-02"), now))
	return s.punchResponse(rec, isWorkday, res), nil
}

// CheckOut implements attendance.Service. Repeating it moves the check-out
// time without asking for a reason again.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.PunchRequest) (attendance.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchResponse{}, err
	}
	emp, err := s.punchingEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.PunchResponse{}, err
	}
	res, err := s.verifyLocation(ctx, emp, req, audit.ActionCheckOut)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	date, now := s.today()
	isWorkday := s.oracle.IsWorkday(ctx, date)

	existing, err := s.Repository.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return attendance.PunchResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing == nil || !existing.HasCheckIn() {
		return attendance.PunchResponse{}, attendance.ErrNoRecord
	}

	first := !existing.HasCheckOut()
	early := isWorkday && s.policy.IsEarly(now)
	reason := strings.TrimSpace(req.Notes)
	if first && early && reason == "" {
		return attendance.PunchResponse{}, &attendance.ReasonRequiredError{Kind: attendance.ReasonEarlyLeave, Cutoff: s.policy.EarlyLeaveCutoff}
	}

	rec := *existing
	rec.CheckOut = &now
	if reason != "" {
		note := reason
		if early {
			note = attendance.WithPrefix(attendance.NotePrefixEarlyLeave, reason)
		}
		rec.Notes = attendance.AppendNote(rec.Notes, attendance.NoteLineSeparator, note)
	}
	attendance.Reclassify(&rec, isWorkday, s.policy)

	if err := s.Repository.Update(ctx, rec); err != nil {
		return attendance.PunchResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	s.logEvent(ctx, req, audit.ActionCheckOut, fmt.Sprintf("%s %s %s", emp.EmployeeCode, date.Format("2006-01-02"), now))
	return s.punchResponse(rec, isWorkday, res), nil
}

// UpdateCheckOut implements attendance.Service.
func (s *AttendanceServiceImpl) UpdateCheckOut(ctx context.Context, req attendance.PunchRequest) (attendance.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchResponse{}, err
	}
	emp, err := s.punchingEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.PunchResponse{}, err
	}
	res, err := s.verifyLocation(ctx, emp, req, audit.ActionUpdateCheckOut)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	date, now := s.today()
	isWorkday := s.oracle.IsWorkday(ctx, date)

	existing, err := s.Repository.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return attendance.PunchResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing == nil {
		return attendance.PunchResponse{}, attendance.ErrNoRecord
	}
	if !existing.HasCheckOut() {
		return attendance.PunchResponse{}, attendance.ErrNotCheckedOut
	}

	rec := *existing
	previous := *rec.CheckOut
	rec.CheckOut = &now
	attendance.Reclassify(&rec, isWorkday, s.policy)
	rec.Notes = attendance.AppendRemark(rec.Notes, strings.TrimSpace(req.Notes))

	if err := s.Repository.Update(ctx, rec); err != nil {
		return attendance.PunchResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	s.logEvent(ctx, req, audit.ActionUpdateCheckOut,
		fmt.Sprintf("%s %s %s->%s", emp.EmployeeCode, date.Format("2006-01-02"), previous, now))
	return s.punchResponse(rec, isWorkday, res), nil
}
