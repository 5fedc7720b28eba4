package backfill

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core/internal/domain/audit"
	"github.com/cmlabs-hris/attendance-core/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-core/internal/domain/backfill"
	"github.com/cmlabs-hris/attendance-core/internal/domain/workday"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/database"
)

type BackfillServiceImpl struct {
	tx database.Transactor
	backfill.Repository
	records attendance.Repository
	oracle  workday.Oracle
	audit   audit.Logger

	policy attendance.Policy
	loc    *time.Location
	now    func() time.Time
}

func NewBackfillService(
	tx database.Transactor,
	backfillRepo backfill.Repository,
	attendanceRepo attendance.Repository,
	oracle workday.Oracle,
	auditLogger audit.Logger,
	policy attendance.Policy,
	loc *time.Location,
	now func() time.Time,
) *BackfillServiceImpl {
	if policy == (attendance.Policy{}) {
		policy = attendance.DefaultPolicy()
	}
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &BackfillServiceImpl{
		tx:         tx,
		Repository: backfillRepo,
		records:    attendanceRepo,
		oracle:     oracle,
		audit:      auditLogger,
		policy:     policy,
		loc:        loc,
		now:        now,
	}
}

func toResponses(requests []backfill.Request) []backfill.Response {
	out := make([]backfill.Response, 0, len(requests))
	for _, r := range requests {
		out = append(out, backfill.NewResponse(r))
	}
	return out
}

// Submit implements backfill.Service.
func (s *BackfillServiceImpl) Submit(ctx context.Context, req backfill.SubmitRequest) (backfill.Response, error) {
	date, clock, kind, err := req.Parse()
	if err != nil {
		return backfill.Response{}, err
	}
	if date.After(attendance.DateOf(s.now().In(s.loc))) {
		return backfill.Response{}, backfill.ErrFutureDate
	}

	pending, err := s.Repository.HasPending(ctx, req.EmployeeID, date, kind)
	if err != nil {
		return backfill.Response{}, fmt.Errorf("failed to check pending backfill: %w", err)
	}
	if pending {
		return backfill.Response{}, backfill.ErrDuplicatePending
	}

	created, err := s.Repository.Create(ctx, backfill.Request{
		EmployeeID: req.EmployeeID,
		Date:       date,
		Time:       clock,
		Kind:       kind,
		Reason:     req.Reason,
		Status:     backfill.StatusPending,
	})
	if err != nil {
		return backfill.Response{}, err
	}

	s.audit.Log(ctx, audit.Event{
		ActorID:   req.ActorID,
		Action:    audit.ActionBackfillSubmit,
		Detail:    fmt.Sprintf("%s %s %s", req.EmployeeID, req.Date, kind),
		IPAddress: req.ClientIP,
	})
	return backfill.NewResponse(created), nil
}

// ListMine implements backfill.Service.
func (s *BackfillServiceImpl) ListMine(ctx context.Context, employeeID string) ([]backfill.Response, error) {
	requests, err := s.Repository.List(ctx, backfill.ListFilter{EmployeeID: &employeeID})
	if err != nil {
		return nil, fmt.Errorf("failed to list backfill requests: %w", err)
	}
	return toResponses(requests), nil
}

// ListForReview implements backfill.Service.
func (s *BackfillServiceImpl) ListForReview(ctx context.Context, actor auth.Actor, req backfill.ListRequest) ([]backfill.Response, error) {
	if !actor.IsReviewer() {
		return nil, auth.ErrForbidden
	}
	status, err := req.StatusFilter()
	if err != nil {
		return nil, err
	}

	requests, err := s.Repository.List(ctx, backfill.ListFilter{
		Status:        status,
		DepartmentIDs: actor.DepartmentScope(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list backfill requests: %w", err)
	}
	return toResponses(requests), nil
}

// Review implements backfill.Service.
func (s *BackfillServiceImpl) Review(ctx context.Context, actor auth.Actor, req backfill.ReviewRequest) (backfill.ReviewResponse, error) {
	if !actor.IsReviewer() {
		return backfill.ReviewResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return backfill.ReviewResponse{}, err
	}

	request, err := s.Repository.GetByID(ctx, req.ID)
	if err != nil {
		return backfill.ReviewResponse{}, err
	}
	if !actor.IsAdmin && (request.DepartmentID == nil || !actor.Manages(*request.DepartmentID)) {
		return backfill.ReviewResponse{}, auth.ErrForbidden
	}
	if request.Status != backfill.StatusPending {
		return backfill.ReviewResponse{}, backfill.ErrAlreadyProcessed
	}

	approve := backfill.Action(req.Action) == backfill.ActionApprove
	reviewedAt := s.now()
	request.Status = backfill.StatusRejected
	if approve {
		request.Status = backfill.StatusApproved
	}
	request.ReviewerID = &req.ReviewerID
	request.ReviewedAt = &reviewedAt
	request.Comments = req.Comments

	// Resolved outside the transaction: the oracle may hit the network.
	isWorkday := approve && s.oracle.IsWorkday(ctx, request.Date)

	var merged *attendance.Record
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.Repository.Resolve(ctx, request); err != nil {
			return err
		}
		if !approve {
			return nil
		}
		rec, err := s.merge(ctx, request, isWorkday)
		if err != nil {
			return err
		}
		merged = &rec
		return nil
	})
	if err != nil {
		return backfill.ReviewResponse{}, err
	}

	s.audit.Log(ctx, audit.Event{
		ActorID:   req.ReviewerID,
		Action:    audit.ActionBackfillReview,
		Detail:    fmt.Sprintf("%s %s %s %s", request.Status, request.EmployeeID, request.Date.Format("2006-01-02"), request.Kind),
		IPAddress: req.ClientIP,
	})

	resp := backfill.ReviewResponse{Request: backfill.NewResponse(request)}
	if merged != nil {
		r := attendance.NewRecordResponse(*merged)
		resp.Record = &r
	}
	return resp, nil
}

// merge writes an approved punch into the day's attendance record.
func (s *BackfillServiceImpl) merge(ctx context.Context, request backfill.Request, isWorkday bool) (attendance.Record, error) {
	rec, _, err := s.records.FindOrCreate(ctx, attendance.Record{
		EmployeeID: request.EmployeeID,
		Date:       request.Date,
		Status:     attendance.StatusCheckedIn,
	})
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to find or create attendance: %w", err)
	}

	at := request.Time
	if request.Kind == backfill.KindCheckOut {
		rec.CheckOut = &at
	} else {
		rec.CheckIn = &at
	}
	rec.Notes = attendance.AppendNote(rec.Notes, attendance.NoteLineSeparator,
		attendance.WithPrefix(request.Kind.NotePrefix(), request.Reason))
	attendance.Reclassify(&rec, isWorkday, s.policy)

	if err := s.records.Update(ctx, rec); err != nil {
		return attendance.Record{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	return rec, nil
}

var _ backfill.Service = (*BackfillServiceImpl)(nil)
