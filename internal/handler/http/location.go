package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-core/internal/domain/location"
	"github.com/cmlabs-hris/attendance-core/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LocationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListActive(w http.ResponseWriter, r *http.Request)
	GetEmployeeLocations(w http.ResponseWriter, r *http.Request)
	AssignEmployeeLocations(w http.ResponseWriter, r *http.Request)
}

type locationHandlerImpl struct {
	locationService location.Service
}

func NewLocationHandler(locationService location.Service) LocationHandler {
	return &locationHandlerImpl{
		locationService: locationService,
	}
}

// Create implements LocationHandler.
func (h *locationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req location.CreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ActorID = actor.UserID
	req.ClientIP = clientIP(r)

	result, err := h.locationService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "打卡地点已创建", result)
}

// Update implements LocationHandler.
func (h *locationHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req location.UpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ActorID = actor.UserID
	req.ClientIP = clientIP(r)

	result, err := h.locationService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "打卡地点已更新", result)
}

// Delete implements LocationHandler.
func (h *locationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	err := h.locationService.Delete(r.Context(), location.DeleteRequest{
		ID:       chi.URLParam(r, "id"),
		ActorID:  actor.UserID,
		ClientIP: clientIP(r),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "打卡地点已删除", nil)
}

// Get implements LocationHandler.
func (h *locationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.locationService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements LocationHandler.
func (h *locationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	results, err := h.locationService.List(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// ListActive implements LocationHandler.
func (h *locationHandlerImpl) ListActive(w http.ResponseWriter, r *http.Request) {
	results, err := h.locationService.ListActive(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// GetEmployeeLocations implements LocationHandler.
func (h *locationHandlerImpl) GetEmployeeLocations(w http.ResponseWriter, r *http.Request) {
	result, err := h.locationService.GetEmployeeLocations(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AssignEmployeeLocations implements LocationHandler.
func (h *locationHandlerImpl) AssignEmployeeLocations(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req location.AssignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeID")
	req.ActorID = actor.UserID
	req.ClientIP = clientIP(r)

	result, err := h.locationService.AssignEmployeeLocations(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "员工打卡地点已更新", result)
}
