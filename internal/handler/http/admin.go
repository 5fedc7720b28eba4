package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-core/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-core/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/cron"
)

// JobLister exposes scheduler bookkeeping.
type JobLister interface {
	Jobs() []cron.JobStatus
}

type AdminHandler interface {
	RunAbsenceSweep(w http.ResponseWriter, r *http.Request)
	ListJobs(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	sweeper absence.Service
	jobs    JobLister
}

func NewAdminHandler(sweeper absence.Service, jobs JobLister) AdminHandler {
	return &adminHandlerImpl{sweeper: sweeper, jobs: jobs}
}

// RunAbsenceSweep implements AdminHandler.
func (h *adminHandlerImpl) RunAbsenceSweep(w http.ResponseWriter, r *http.Request) {
	var req absence.RunRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	target, err := req.Target()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.sweeper.Run(r.Context(), target)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// ListJobs implements AdminHandler.
func (h *adminHandlerImpl) ListJobs(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		response.Success(w, []cron.JobStatus{})
		return
	}
	response.Success(w, h.jobs.Jobs())
}
