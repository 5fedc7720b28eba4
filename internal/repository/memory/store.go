// Package memory provides in-memory repositories for local development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core/internal/domain/audit"
	"github.com/cmlabs-hris/attendance-core/internal/domain/backfill"
	"github.com/cmlabs-hris/attendance-core/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-core/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-core/internal/domain/location"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/database"
)

// =============================================================================
// MEMORY STORE - one lock over every table
// =============================================================================

type recordKey struct {
	EmployeeID string
	Date       string
}

func dayKey(employeeID string, date time.Time) recordKey {
	return recordKey{EmployeeID: employeeID, Date: date.Format("2006-01-02")}
}

type Store struct {
	mu sync.RWMutex
	// txMu serializes WithinTransaction callers.
	txMu sync.Mutex

	records   map[string]attendance.Record
	byDay     map[recordKey]string
	employees map[string]employee.Employee
	locations map[string]location.CheckInLocation
	scopes    map[string][]string
	requests  map[string]backfill.Request
	spans     []leave.Span
	events    []audit.Event

	now  func() time.Time
	last time.Time
}

func NewStore() *Store {
	return &Store{
		records:   make(map[string]attendance.Record),
		byDay:     make(map[recordKey]string),
		employees: make(map[string]employee.Employee),
		locations: make(map[string]location.CheckInLocation),
		scopes:    make(map[string][]string),
		requests:  make(map[string]backfill.Request),
		now:       time.Now,
	}
}

// WithClock replaces the clock used for created/updated timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Attendance() attendance.Repository { return &attendanceRepository{s} }
func (s *Store) Employees() employee.Repository    { return &employeeRepository{s} }
func (s *Store) Locations() location.Repository    { return &locationRepository{s} }
func (s *Store) Backfills() backfill.Repository    { return &backfillRepository{s} }
func (s *Store) Leaves() leave.Repository          { return &leaveRepository{s} }
func (s *Store) Audit() audit.Repository           { return &auditRepository{s} }

// stamp returns a strictly increasing timestamp so newest-first orderings
// stay stable under a frozen clock. Callers hold mu.
func (s *Store) stamp() time.Time {
	t := s.now()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

type txKey struct{}

type transactor struct{ s *Store }

// Transactor returns a database.Transactor that runs one transaction at a time.
// Nested calls join the outer one.
func (s *Store) Transactor() database.Transactor { return transactor{s} }

func (t transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

// =============================================================================
// SEEDING
// =============================================================================

// PutEmployee inserts or replaces a directory entry.
func (s *Store) PutEmployee(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
		e.UpdatedAt = e.CreatedAt
	}
	s.employees[e.ID] = e
}

// AddSpan records an approved leave request or business trip.
func (s *Store) AddSpan(span leave.Span) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if span.ID == "" {
		span.ID = newID()
	}
	s.spans = append(s.spans, span)
}

// Events returns a copy of the audit events written so far.
func (s *Store) Events() []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]audit.Event, len(s.events))
	copy(out, s.events)
	return out
}

// RecordCount returns the number of stored attendance records.
func (s *Store) RecordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
