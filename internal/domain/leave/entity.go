package leave

import "time"

// Kind distinguishes the two absence-excusing workflows.
type Kind string

const (
	KindLeave        Kind = "leave"
	KindBusinessTrip Kind = "business_trip"
)

// Span is an approved leave request or business trip, inclusive of both ends.
type Span struct {
	ID         string
	EmployeeID string
	Kind       Kind
	StartDate  time.Time
	EndDate    time.Time
}

// Covers reports whether date falls within the span.
func (s Span) Covers(date time.Time) bool {
	return !date.Before(s.StartDate) && !date.After(s.EndDate)
}

// EmployeeSet collects the employees of spans covering date.
func EmployeeSet(spans []Span, date time.Time) map[string]struct{} {
	set := make(map[string]struct{}, len(spans))
	for _, s := range spans {
		if s.Covers(date) {
			set[s.EmployeeID] = struct{}{}
		}
	}
	return set
}
