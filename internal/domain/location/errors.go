package location

import "errors"

var (
	ErrLocationNotFound = errors.New("check-in location not found")
	ErrUnknownLocation  = errors.New("one or more check-in locations do not exist")
	// ErrDefaultTaken means another location still holds the default flag.
	ErrDefaultTaken = errors.New("another check-in location is already the default")
)
