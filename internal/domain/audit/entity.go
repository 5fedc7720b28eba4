package audit

import "time"

// Action names recorded in the audit log.
const (
	ActionCheckIn             = "attendance.check_in"
	ActionCheckOut            = "attendance.check_out"
	ActionUpdateCheckOut      = "attendance.update_check_out"
	ActionLocationUnavailable = "attendance.location_unavailable"
	ActionBackfillSubmit      = "backfill.submit"
	ActionBackfillReview      = "backfill.review"
	ActionLocationCreate      = "location.create"
	ActionLocationUpdate      = "location.update"
	ActionLocationDelete      = "location.delete"
	ActionLocationAssign      = "location.assign"
	ActionAbsenceSweep        = "absence.sweep"
)

// Event is one audit log entry.
type Event struct {
	ID        string
	ActorID   string
	Action    string
	Detail    string
	IPAddress string
	CreatedAt time.Time
}
