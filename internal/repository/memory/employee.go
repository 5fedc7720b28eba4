package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-core/internal/domain/leave"
)

type employeeRepository struct {
	s *Store
}

func (r *employeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) ListEligibleForDate(_ context.Context, date time.Time) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []employee.Employee
	for _, e := range r.s.employees {
		if e.EligibleOn(date) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeCode < out[j].EmployeeCode })
	return out, nil
}

type leaveRepository struct {
	s *Store
}

func (r *leaveRepository) ApprovedSpansOn(_ context.Context, kind leave.Kind, date time.Time) ([]leave.Span, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []leave.Span
	for _, span := range r.s.spans {
		if span.Kind == kind && span.Covers(date) {
			out = append(out, span)
		}
	}
	return out, nil
}
