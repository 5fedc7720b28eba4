package backfill

import (
	"errors"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/validator"
)

type SubmitRequest struct {
	EmployeeID string `json:"-"`
	ActorID    string `json:"-"`
	ClientIP   string `json:"-"`
	Date       string `json:"date" validate:"required"`
	Time       string `json:"time" validate:"required"`
	Kind       string `json:"supplement_type" validate:"required"`
	Reason     string `json:"reason" validate:"max=500"`
}

// Parse validates the request in the documented order and returns the typed values.
func (r *SubmitRequest) Parse() (time.Time, attendance.Clock, Kind, error) {
	if err := validator.Struct(r); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && errs.HasRule("required") {
			return time.Time{}, 0, "", ErrMissingFields
		}
		return time.Time{}, 0, "", err
	}
	if validator.IsEmpty(r.Reason) {
		return time.Time{}, 0, "", ErrReasonRequired
	}

	kind := Kind(r.Kind)
	if !kind.Valid() {
		return time.Time{}, 0, "", ErrInvalidKind
	}

	date, ok := validator.IsValidDate(r.Date)
	if !ok {
		return time.Time{}, 0, "", ErrInvalidDate
	}

	clock, err := attendance.ParseClock(r.Time)
	if err != nil {
		return time.Time{}, 0, "", ErrInvalidTime
	}

	r.Reason = strings.TrimSpace(r.Reason)
	return date, clock, kind, nil
}

type ReviewRequest struct {
	ID         string `json:"-"`
	ReviewerID string `json:"-"`
	ClientIP   string `json:"-"`
	Action     string `json:"action"`
	Comments   string `json:"comments" validate:"max=500"`
}

func (r *ReviewRequest) Validate() error {
	switch Action(r.Action) {
	case ActionApprove, ActionReject:
	default:
		return ErrInvalidAction
	}
	return validator.Struct(r)
}

type ListRequest struct {
	// Status is a backfill status or "all"; empty means pending.
	Status string `json:"status"`
}

// StatusFilter resolves the requested status into a repository filter value.
func (r ListRequest) StatusFilter() (*Status, error) {
	switch r.Status {
	case "":
		s := StatusPending
		return &s, nil
	case "all":
		return nil, nil
	}
	s := Status(r.Status)
	if !s.Valid() {
		return nil, ErrInvalidStatus
	}
	return &s, nil
}

type Response struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Kind         Kind    `json:"supplement_type"`
	Reason       string  `json:"reason"`
	Status       Status  `json:"status"`
	ReviewerID   *string `json:"reviewer_id,omitempty"`
	ReviewedAt   *string `json:"reviewed_at,omitempty"`
	Comments     string  `json:"comments"`
	CreatedAt    string  `json:"created_at"`
}

func NewResponse(r Request) Response {
	resp := Response{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Date:         r.Date.Format("2006-01-02"),
		Time:         r.Time.String(),
		Kind:         r.Kind,
		Reason:       r.Reason,
		Status:       r.Status,
		ReviewerID:   r.ReviewerID,
		Comments:     r.Comments,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
	if r.ReviewedAt != nil {
		s := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &s
	}
	return resp
}

type ReviewResponse struct {
	Request Response                   `json:"request"`
	Record  *attendance.RecordResponse `json:"attendance,omitempty"`
}
