package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-core/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/validator"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	UpdateCheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	MyRecords(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Alerts(w http.ResponseWriter, r *http.Request)
	CheckLocation(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

type punchFunc func(ctx context.Context, req attendance.PunchRequest) (attendance.PunchResponse, error)

// punch decodes a punch body, resolves whose punch it is and runs fn.
func (h *attendanceHandlerImpl) punch(w http.ResponseWriter, r *http.Request, fn punchFunc, created bool, message string) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req attendance.PunchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	employeeID, err := actor.ResolveEmployee(req.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.EmployeeID = employeeID
	req.ActorID = actor.UserID
	req.ClientIP = clientIP(r)

	result, err := fn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if created {
		response.Created(w, message, result)
		return
	}
	response.SuccessWithMessage(w, message, result)
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.attendanceService.CheckIn, true, "签到成功")
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.attendanceService.CheckOut, false, "签退成功")
}

// UpdateCheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpdateCheckOut(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.attendanceService.UpdateCheckOut, false, "签退时间已更新")
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	employeeID, err := actor.ResolveEmployee(r.URL.Query().Get("employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.Today(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// A null record means no punch yet today.
	response.Success(w, result)
}

// MyRecords implements AttendanceHandler.
func (h *attendanceHandlerImpl) MyRecords(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	employeeID, err := actor.ResolveEmployee(r.URL.Query().Get("employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := attendance.RangeRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	results, err := h.attendanceService.Range(r.Context(), employeeID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	req := attendance.ListRequest{
		EmployeeID: queryString(r, "employee_id"),
		StartDate:  queryString(r, "start_date"),
		EndDate:    queryString(r, "end_date"),
		Status:     queryString(r, "attendance_type"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
	}

	result, err := h.attendanceService.List(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Records, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Alerts implements AttendanceHandler.
func (h *attendanceHandlerImpl) Alerts(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	req := attendance.AlertRequest{
		Days: queryInt(r, "days", attendance.DefaultAlertDays),
		Type: r.URL.Query().Get("type"),
	}

	result, err := h.attendanceService.Alerts(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CheckLocation implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckLocation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	employeeID, err := actor.ResolveEmployee(r.URL.Query().Get("employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var errs validator.ValidationErrors
	lat, err := strconv.ParseFloat(r.URL.Query().Get("latitude"), 64)
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude must be a number"})
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get("longitude"), 64)
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude must be a number"})
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result, err := h.attendanceService.CheckLocation(r.Context(), employeeID, lat, lng)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
