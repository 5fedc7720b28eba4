package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-core/internal/service/geofence"
)

func toResponses(records []attendance.Record) []attendance.RecordResponse {
	out := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, attendance.NewRecordResponse(rec))
	}
	return out
}

func parseDate(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// Today implements attendance.Service.
func (s *AttendanceServiceImpl) Today(ctx context.Context, employeeID string) (*attendance.RecordResponse, error) {
	date, _ := s.today()
	rec, err := s.Repository.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	resp := attendance.NewRecordResponse(*rec)
	return &resp, nil
}

// Range implements attendance.Service. Missing bounds leave that side open.
func (s *AttendanceServiceImpl) Range(ctx context.Context, employeeID string, req attendance.RangeRequest) ([]attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from := time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	if req.StartDate != "" {
		from = parseDate(req.StartDate)
	}
	if req.EndDate != "" {
		to = parseDate(req.EndDate)
	}
	if from.After(to) {
		return nil, attendance.ErrInvalidDateRange
	}

	records, err := s.Repository.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return toResponses(records), nil
}

// scope narrows a filter to what the actor may read: admins everything,
// managers their departments, everyone else their own records.
func scope(actor auth.Actor) (employeeID *string, departments []string, err error) {
	switch {
	case actor.IsAdmin:
		return nil, nil, nil
	case len(actor.ManagedDepartmentIDs) > 0:
		return nil, actor.ManagedDepartmentIDs, nil
	case actor.EmployeeID != "":
		id := actor.EmployeeID
		return &id, nil, nil
	default:
		return nil, nil, auth.ErrNoEmployeeLink
	}
}

// List implements attendance.Service.
func (s *AttendanceServiceImpl) List(ctx context.Context, actor auth.Actor, req attendance.ListRequest) (attendance.ListResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ListResponse{}, err
	}

	ownID, departments, err := scope(actor)
	if err != nil {
		return attendance.ListResponse{}, err
	}

	filter := attendance.Filter{
		EmployeeID:    req.EmployeeID,
		DepartmentIDs: departments,
		Page:          req.Page,
		Limit:         req.Limit,
	}
	if ownID != nil {
		filter.EmployeeID = ownID
	}
	if req.StartDate != nil && *req.StartDate != "" {
		d := parseDate(*req.StartDate)
		filter.StartDate = &d
	}
	if req.EndDate != nil && *req.EndDate != "" {
		d := parseDate(*req.EndDate)
		filter.EndDate = &d
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return attendance.ListResponse{}, attendance.ErrInvalidDateRange
	}
	if req.Status != nil && *req.Status != "" {
		st := attendance.Status(*req.Status)
		filter.Status = &st
	}

	records, total, err := s.Repository.List(ctx, filter)
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	totalPages := int(total) / req.Limit
	if int(total)%req.Limit != 0 {
		totalPages++
	}

	return attendance.ListResponse{
		Records:    toResponses(records),
		TotalCount: total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// Alerts implements attendance.Service.
func (s *AttendanceServiceImpl) Alerts(ctx context.Context, actor auth.Actor, req attendance.AlertRequest) (attendance.AlertResponse, error) {
	req.Normalize()

	ownID, departments, err := scope(actor)
	if err != nil {
		return attendance.AlertResponse{}, err
	}

	today, _ := s.today()
	filter := attendance.AlertFilter{
		Since:         today.AddDate(0, 0, -req.Days),
		Until:         today,
		Statuses:      attendance.AlertStatuses,
		EmployeeID:    ownID,
		DepartmentIDs: departments,
		Limit:         attendance.MaxAlerts,
	}
	if req.Type != "" {
		filter.Statuses = []attendance.Status{attendance.Status(req.Type)}
	}

	records, err := s.Repository.ListAlerts(ctx, filter)
	if err != nil {
		return attendance.AlertResponse{}, fmt.Errorf("failed to list attendance alerts: %w", err)
	}

	return attendance.AlertResponse{
		Days:    req.Days,
		Total:   len(records),
		Records: toResponses(records),
	}, nil
}

// CheckLocation implements attendance.Service.
func (s *AttendanceServiceImpl) CheckLocation(ctx context.Context, employeeID string, latitude, longitude float64) (attendance.LocationCheckResponse, error) {
	candidates, err := s.resolver.Candidates(ctx, employeeID)
	if err != nil {
		return attendance.LocationCheckResponse{}, err
	}

	res := geofence.Match(geo.Point{Latitude: latitude, Longitude: longitude}, candidates)
	resp := attendance.LocationCheckResponse{
		InRange:    res.InRange,
		Restricted: res.Restricted,
	}
	if res.Nearest != nil {
		name := res.Nearest.Name
		d := res.DistanceMeters
		r := res.Nearest.RadiusMeters
		resp.LocationName = &name
		resp.DistanceMeters = &d
		resp.RadiusMeters = &r
	}
	return resp, nil
}
