package absence

import (
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/pkg/validator"
)

// RunRequest is the manual trigger body. An empty date sweeps yesterday.
type RunRequest struct {
	Date string `json:"date"`
}

func (r RunRequest) Target() (*time.Time, error) {
	if r.Date == "" {
		return nil, nil
	}
	d, ok := validator.IsValidDate(r.Date)
	if !ok {
		return nil, validator.ValidationErrors{{Field: "date", Message: "date must be YYYY-MM-DD", Rule: "date"}}
	}
	return &d, nil
}
