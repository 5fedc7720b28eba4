package backfill

import "errors"

var (
	ErrMissingFields    = errors.New("date, time and type are required")
	ErrReasonRequired   = errors.New("a backfill reason is required")
	ErrInvalidKind      = errors.New("backfill type must be check_in or check_out")
	ErrInvalidDate      = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidTime      = errors.New("time must be formatted as HH:MM or HH:MM:SS")
	ErrFutureDate       = errors.New("cannot backfill a future date")
	ErrDuplicatePending = errors.New("a pending backfill request already exists for this date and type")
	ErrRequestNotFound  = errors.New("backfill request not found")
	ErrAlreadyProcessed = errors.New("backfill request has already been processed")
	ErrInvalidAction    = errors.New("action must be approve or reject")
	ErrInvalidStatus    = errors.New("unknown backfill status")
)
