package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/pkg/validator"
)

// ========================================
// PUNCH DTOs
// ========================================

// PunchRequest is shared by check-in, check-out and check-out correction.
type PunchRequest struct {
	EmployeeID string   `json:"employee_id" validate:"required"`
	Latitude   *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Notes      string   `json:"notes" validate:"max=500"`

	// ActorID and ClientIP are recorded with audit events.
	ActorID  string `json:"-"`
	ClientIP string `json:"-"`
}

func (r *PunchRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return ErrInvalidLocation
	}
	return nil
}

// HasCoordinate reports whether the client sent a position.
func (r PunchRequest) HasCoordinate() bool {
	return r.Latitude != nil && r.Longitude != nil
}

type RecordResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	Date         string  `json:"date"`
	CheckIn      *string `json:"check_in_time"`
	CheckOut     *string `json:"check_out_time"`
	Status       Status  `json:"attendance_type"`
	Notes        string  `json:"notes"`
	CreatedAt    string  `json:"created_at"`
}

func NewRecordResponse(rec Record) RecordResponse {
	resp := RecordResponse{
		ID:           rec.ID,
		EmployeeID:   rec.EmployeeID,
		EmployeeName: rec.EmployeeName,
		EmployeeCode: rec.EmployeeCode,
		Date:         rec.Date.Format("2006-01-02"),
		Status:       rec.Status,
		Notes:        rec.Notes,
		CreatedAt:    rec.CreatedAt.Format(time.RFC3339),
	}
	if rec.CheckIn != nil {
		s := rec.CheckIn.String()
		resp.CheckIn = &s
	}
	if rec.CheckOut != nil {
		s := rec.CheckOut.String()
		resp.CheckOut = &s
	}
	return resp
}

// PunchResponse adds what the geofence decided to the stored record.
type PunchResponse struct {
	Record             RecordResponse `json:"record"`
	IsWorkday          bool           `json:"is_workday"`
	LocationName       *string        `json:"location_name,omitempty"`
	DistanceMeters     *float64       `json:"distance_meters,omitempty"`
	LocationUnverified bool           `json:"location_unverified,omitempty"`
}

// ========================================
// QUERY DTOs
// ========================================

type RangeRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *RangeRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.StartDate != "" {
		if _, ok := validator.IsValidDate(r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
		}
	}
	if r.EndDate != "" {
		if _, ok := validator.IsValidDate(r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListRequest struct {
	EmployeeID *string `json:"employee_id"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
	Status     *string `json:"attendance_type"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (r *ListRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StartDate != nil && *r.StartDate != "" {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
		}
	}
	if r.EndDate != nil && *r.EndDate != "" {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
		}
	}
	if r.Status != nil && *r.Status != "" && !Status(*r.Status).Valid() {
		errs = append(errs, validator.ValidationError{Field: "attendance_type", Message: "unknown attendance type"})
	}
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListResponse struct {
	Records    []RecordResponse `json:"records"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

const (
	DefaultAlertDays = 7
	MaxAlertDays     = 180
	MaxAlerts        = 100
)

type AlertRequest struct {
	Days int    `json:"days"`
	Type string `json:"type"`
}

// Normalize clamps days into [1, MaxAlertDays] and drops unknown types.
func (r *AlertRequest) Normalize() {
	if r.Days == 0 {
		r.Days = DefaultAlertDays
	}
	if r.Days < 1 {
		r.Days = 1
	}
	if r.Days > MaxAlertDays {
		r.Days = MaxAlertDays
	}
	switch Status(r.Type) {
	case StatusAbsent, StatusLate, StatusEarlyLeave:
	default:
		r.Type = ""
	}
}

type AlertResponse struct {
	Days    int              `json:"days"`
	Total   int              `json:"total"`
	Records []RecordResponse `json:"records"`
}

// LocationCheckResponse previews a geofence decision without punching.
type LocationCheckResponse struct {
	InRange        bool     `json:"in_range"`
	Restricted     bool     `json:"restricted"`
	LocationName   *string  `json:"location_name,omitempty"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
	RadiusMeters   *int     `json:"radius_meters,omitempty"`
}
