package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core/internal/domain/employee"
)

type attendanceRepository struct {
	s *Store
}

// cloneRecord detaches the punch pointers so callers cannot mutate stored rows.
func cloneRecord(rec attendance.Record) attendance.Record {
	if rec.CheckIn != nil {
		c := *rec.CheckIn
		rec.CheckIn = &c
	}
	if rec.CheckOut != nil {
		c := *rec.CheckOut
		rec.CheckOut = &c
	}
	return rec
}

func (r *attendanceRepository) insertLocked(rec attendance.Record) attendance.Record {
	rec.ID = newID()
	rec.CreatedAt = r.s.stamp()
	rec.UpdatedAt = rec.CreatedAt
	rec.EmployeeName, rec.EmployeeCode, rec.DepartmentID = nil, nil, nil
	r.s.records[rec.ID] = cloneRecord(rec)
	r.s.byDay[dayKey(rec.EmployeeID, rec.Date)] = rec.ID
	return rec
}

func (r *attendanceRepository) Create(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.byDay[dayKey(rec.EmployeeID, rec.Date)]; ok {
		return attendance.Record{}, attendance.ErrDuplicateRecord
	}
	return r.insertLocked(rec), nil
}

func (r *attendanceRepository) FindOrCreate(_ context.Context, rec attendance.Record) (attendance.Record, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if id, ok := r.s.byDay[dayKey(rec.EmployeeID, rec.Date)]; ok {
		return cloneRecord(r.s.records[id]), false, nil
	}
	return r.insertLocked(rec), true, nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byDay[dayKey(employeeID, date)]
	if !ok {
		return nil, nil
	}
	rec := cloneRecord(r.s.records[id])
	return &rec, nil
}

func (r *attendanceRepository) Update(_ context.Context, rec attendance.Record) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.records[rec.ID]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	stored.CheckIn = rec.CheckIn
	stored.CheckOut = rec.CheckOut
	stored.Status = rec.Status
	stored.Notes = rec.Notes
	stored.UpdatedAt = r.s.stamp()
	r.s.records[rec.ID] = cloneRecord(stored)
	return nil
}

func (r *attendanceRepository) ListByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []attendance.Record
	for _, rec := range r.s.records {
		if rec.EmployeeID != employeeID || rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		out = append(out, cloneRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// withEmployeeLocked fills the DTO fields and reports whether the employee exists.
func (r *attendanceRepository) withEmployeeLocked(rec attendance.Record) (attendance.Record, bool) {
	e, ok := r.s.employees[rec.EmployeeID]
	if !ok {
		return rec, false
	}
	name, code := e.FullName, e.EmployeeCode
	rec.EmployeeName = &name
	rec.EmployeeCode = &code
	rec.DepartmentID = e.DepartmentID
	return rec, true
}

func (r *attendanceRepository) List(_ context.Context, filter attendance.Filter) ([]attendance.Record, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []attendance.Record
	for _, stored := range r.s.records {
		rec, ok := r.withEmployeeLocked(cloneRecord(stored))
		if !ok {
			continue
		}
		if filter.EmployeeID != nil && *filter.EmployeeID != "" && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if !inDepartments(rec.DepartmentID, filter.DepartmentIDs) {
			continue
		}
		if filter.StartDate != nil && rec.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && rec.Date.After(*filter.EndDate) {
			continue
		}
		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}
		matched = append(matched, rec)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return *matched[i].EmployeeName < *matched[j].EmployeeName
	})

	total := int64(len(matched))
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return []attendance.Record{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *attendanceRepository) ListAlerts(_ context.Context, filter attendance.AlertFilter) ([]attendance.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[attendance.Status]bool, len(filter.Statuses))
	for _, st := range filter.Statuses {
		wanted[st] = true
	}

	var out []attendance.Record
	for _, stored := range r.s.records {
		if !wanted[stored.Status] || stored.Date.Before(filter.Since) || stored.Date.After(filter.Until) {
			continue
		}
		if filter.EmployeeID != nil && stored.EmployeeID != *filter.EmployeeID {
			continue
		}
		e, ok := r.s.employees[stored.EmployeeID]
		if !ok || e.OnboardStatus != employee.OnboardOnboarded {
			continue
		}
		rec, _ := r.withEmployeeLocked(cloneRecord(stored))
		if !inDepartments(rec.DepartmentID, filter.DepartmentIDs) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = attendance.MaxAlerts
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *attendanceRepository) EmployeeIDsWithRecordOn(_ context.Context, date time.Time) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var ids []string
	day := date.Format("2006-01-02")
	for k := range r.s.byDay {
		if k.Date == day {
			ids = append(ids, k.EmployeeID)
		}
	}
	return ids, nil
}
