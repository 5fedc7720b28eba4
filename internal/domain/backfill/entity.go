package backfill

import (
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/attendance"
)

// Kind is the punch a backfill request adds.
type Kind string

const (
	KindCheckIn  Kind = "check_in"
	KindCheckOut Kind = "check_out"
)

func (k Kind) Valid() bool {
	return k == KindCheckIn || k == KindCheckOut
}

// NotePrefix is the attendance note prefix written on approval.
func (k Kind) NotePrefix() string {
	if k == KindCheckOut {
		return attendance.NotePrefixBackfillCheckOut
	}
	return attendance.NotePrefixBackfillCheckIn
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Request asks for a missed punch to be added after the fact.
type Request struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Time       attendance.Clock
	Kind       Kind
	Reason     string
	Status     Status
	ReviewerID *string
	ReviewedAt *time.Time
	Comments   string
	CreatedAt  time.Time

	// DTO
	EmployeeName *string
	DepartmentID *string
}
