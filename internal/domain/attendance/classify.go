package attendance

// Policy holds the time-of-day cutoffs enforced on working days.
type Policy struct {
	LateCutoff       Clock
	EarlyLeaveCutoff Clock
}

func DefaultPolicy() Policy {
	return Policy{
		LateCutoff:       NewClock(9, 0, 0),
		EarlyLeaveCutoff: NewClock(18, 0, 0),
	}
}

// IsLate is strictly after the late cutoff.
func (p Policy) IsLate(c Clock) bool { return c.After(p.LateCutoff) }

// IsEarly is strictly before the early-leave cutoff.
func (p Policy) IsEarly(c Clock) bool { return c.Before(p.EarlyLeaveCutoff) }

// DayFinished reports whether the early-leave cutoff has been reached.
func (p Policy) DayFinished(c Clock) bool { return !c.Before(p.EarlyLeaveCutoff) }

// Classify derives a record's status from its punches. Cutoffs only apply on
// working days, and lateness outranks early leave.
func Classify(rec Record, isWorkday bool, p Policy) Status {
	switch {
	case rec.CheckIn == nil && rec.CheckOut == nil:
		return StatusAbsent
	case isWorkday && rec.CheckIn != nil && p.IsLate(*rec.CheckIn):
		return StatusLate
	case isWorkday && rec.CheckOut != nil && p.IsEarly(*rec.CheckOut):
		return StatusEarlyLeave
	case rec.CheckOut != nil:
		return StatusCheckedOut
	default:
		return StatusCheckedIn
	}
}

// Reclassify recomputes rec.Status and cleans notes that no longer apply:
// early-leave reasons once the record is no longer an early leave, and the
// automatic absence note once a real punch exists.
func Reclassify(rec *Record, isWorkday bool, p Policy) {
	prev := rec.Status
	rec.Status = Classify(*rec, isWorkday, p)

	if prev == StatusEarlyLeave && rec.Status != StatusEarlyLeave {
		rec.Notes = StripLines(rec.Notes, NotePrefixEarlyLeave)
	}
	if rec.Status != StatusAbsent {
		rec.Notes = StripLines(rec.Notes, NoteAutoAbsent)
	}
}
