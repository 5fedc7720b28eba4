package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-core/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-core/internal/domain/backfill"
	"github.com/cmlabs-hris/attendance-core/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type BackfillHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListForReview(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
}

type backfillHandlerImpl struct {
	backfillService backfill.Service
}

func NewBackfillHandler(backfillService backfill.Service) BackfillHandler {
	return &backfillHandlerImpl{
		backfillService: backfillService,
	}
}

// Submit implements BackfillHandler.
func (h *backfillHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if actor.EmployeeID == "" {
		response.HandleError(w, auth.ErrNoEmployeeLink)
		return
	}

	var req backfill.SubmitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = actor.EmployeeID
	req.ActorID = actor.UserID
	req.ClientIP = clientIP(r)

	result, err := h.backfillService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "补签申请已提交", result)
}

// ListMine implements BackfillHandler.
func (h *backfillHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if actor.EmployeeID == "" {
		response.HandleError(w, auth.ErrNoEmployeeLink)
		return
	}

	results, err := h.backfillService.ListMine(r.Context(), actor.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// ListForReview implements BackfillHandler.
func (h *backfillHandlerImpl) ListForReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	req := backfill.ListRequest{Status: r.URL.Query().Get("status")}
	results, err := h.backfillService.ListForReview(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Review implements BackfillHandler.
func (h *backfillHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req backfill.ReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ReviewerID = actor.UserID
	req.ClientIP = clientIP(r)

	result, err := h.backfillService.Review(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "补签申请已驳回"
	if backfill.Action(req.Action) == backfill.ActionApprove {
		message = "补签申请已通过"
	}
	response.SuccessWithMessage(w, message, result)
}
