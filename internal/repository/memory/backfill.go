package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/backfill"
)

type backfillRepository struct {
	s *Store
}

func (r *backfillRepository) hasPendingLocked(employeeID string, date time.Time, kind backfill.Kind) bool {
	day := date.Format("2006-01-02")
	for _, req := range r.s.requests {
		if req.EmployeeID == employeeID && req.Kind == kind &&
			req.Status == backfill.StatusPending && req.Date.Format("2006-01-02") == day {
			return true
		}
	}
	return false
}

func (r *backfillRepository) withEmployeeLocked(req backfill.Request) backfill.Request {
	if e, ok := r.s.employees[req.EmployeeID]; ok {
		name := e.FullName
		req.EmployeeName = &name
		req.DepartmentID = e.DepartmentID
	}
	return req
}

func (r *backfillRepository) Create(_ context.Context, req backfill.Request) (backfill.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if req.Status == backfill.StatusPending && r.hasPendingLocked(req.EmployeeID, req.Date, req.Kind) {
		return backfill.Request{}, backfill.ErrDuplicatePending
	}
	req.ID = newID()
	req.CreatedAt = r.s.stamp()
	req.EmployeeName, req.DepartmentID = nil, nil
	r.s.requests[req.ID] = req
	return req, nil
}

func (r *backfillRepository) GetByID(_ context.Context, id string) (backfill.Request, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.requests[id]
	if !ok {
		return backfill.Request{}, backfill.ErrRequestNotFound
	}
	return r.withEmployeeLocked(req), nil
}

func (r *backfillRepository) HasPending(_ context.Context, employeeID string, date time.Time, kind backfill.Kind) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.hasPendingLocked(employeeID, date, kind), nil
}

func (r *backfillRepository) List(_ context.Context, filter backfill.ListFilter) ([]backfill.Request, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []backfill.Request
	for _, stored := range r.s.requests {
		if filter.EmployeeID != nil && stored.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && stored.Status != *filter.Status {
			continue
		}
		req := r.withEmployeeLocked(stored)
		if !inDepartments(req.DepartmentID, filter.DepartmentIDs) {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *backfillRepository) Resolve(_ context.Context, req backfill.Request) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.requests[req.ID]
	if !ok {
		return backfill.ErrRequestNotFound
	}
	if stored.Status != backfill.StatusPending {
		return backfill.ErrAlreadyProcessed
	}
	stored.Status = req.Status
	stored.ReviewerID = req.ReviewerID
	stored.ReviewedAt = req.ReviewedAt
	stored.Comments = req.Comments
	r.s.requests[req.ID] = stored
	return nil
}
