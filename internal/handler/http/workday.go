package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/workday"
	"github.com/cmlabs-hris/attendance-core/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/validator"
)

type WorkdayHandler interface {
	Status(w http.ResponseWriter, r *http.Request)
}

type workdayHandlerImpl struct {
	oracle workday.Oracle
	loc    *time.Location
	now    func() time.Time
}

func NewWorkdayHandler(oracle workday.Oracle, loc *time.Location, now func() time.Time) WorkdayHandler {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &workdayHandlerImpl{oracle: oracle, loc: loc, now: now}
}

// Status implements WorkdayHandler. It reports today unless ?date= names another day.
func (h *workdayHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	y, m, d := h.now().In(h.loc).Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, ok := validator.IsValidDate(raw)
		if !ok {
			response.HandleError(w, validator.ValidationErrors{{Field: "date", Message: "date must be YYYY-MM-DD", Rule: "date"}})
			return
		}
		date = parsed
	}

	response.Success(w, workday.NewStatusResponse(h.oracle.Classify(r.Context(), date)))
}
