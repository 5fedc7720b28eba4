package workday

import "errors"

var (
	ErrCalendarUnavailable = errors.New("holiday calendar unavailable")
	ErrMalformedResponse   = errors.New("holiday calendar returned a malformed payload")
	ErrCalendarRejected    = errors.New("holiday calendar rejected the lookup")
)
