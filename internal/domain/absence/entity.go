package absence

// SkipReason explains why a sweep wrote nothing.
type SkipReason string

const (
	SkipFutureDate   SkipReason = "future_date"
	SkipNotWorkday   SkipReason = "not_workday"
	SkipBeforeCutoff SkipReason = "before_cutoff"
)

// Summary reports one sweep run.
type Summary struct {
	Date       string     `json:"date"`
	Eligible   int        `json:"eligible_count"`
	Created    int        `json:"created_count"`
	Skipped    int        `json:"skipped_count"`
	SkipReason SkipReason `json:"skip_reason,omitempty"`
}
