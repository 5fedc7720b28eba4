package location

import (
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Address      string  `json:"address" validate:"max=255"`
	Latitude     float64 `json:"latitude" validate:"gte=3.86,lte=53.55"`
	Longitude    float64 `json:"longitude" validate:"gte=73.66,lte=135.05"`
	RadiusMeters int     `json:"radius_meters" validate:"gte=50,lte=10000"`
	IsActive     *bool   `json:"is_active"`
	IsDefault    bool    `json:"is_default"`

	ActorID  string `json:"-"`
	ClientIP string `json:"-"`
}

func (r *CreateRequest) Validate() error {
	if r.RadiusMeters == 0 {
		r.RadiusMeters = 200
	}
	return validator.Struct(r)
}

func (r CreateRequest) ToEntity() CheckInLocation {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return CheckInLocation{
		Name:         r.Name,
		Address:      r.Address,
		Latitude:     decimal.NewFromFloat(r.Latitude).Round(7),
		Longitude:    decimal.NewFromFloat(r.Longitude).Round(7),
		RadiusMeters: r.RadiusMeters,
		IsActive:     active,
		IsDefault:    r.IsDefault,
	}
}

// UpdateRequest carries a partial update; nil fields keep their value.
type UpdateRequest struct {
	ID           string   `json:"-" validate:"required"`
	Name         *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Address      *string  `json:"address" validate:"omitempty,max=255"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,gte=3.86,lte=53.55"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,gte=73.66,lte=135.05"`
	RadiusMeters *int     `json:"radius_meters" validate:"omitempty,gte=50,lte=10000"`
	IsActive     *bool    `json:"is_active"`
	IsDefault    *bool    `json:"is_default"`

	ActorID  string `json:"-"`
	ClientIP string `json:"-"`
}

func (r *UpdateRequest) Validate() error {
	return validator.Struct(r)
}

// Apply merges the request into loc.
func (r UpdateRequest) Apply(loc *CheckInLocation) {
	if r.Name != nil {
		loc.Name = *r.Name
	}
	if r.Address != nil {
		loc.Address = *r.Address
	}
	if r.Latitude != nil {
		loc.Latitude = decimal.NewFromFloat(*r.Latitude).Round(7)
	}
	if r.Longitude != nil {
		loc.Longitude = decimal.NewFromFloat(*r.Longitude).Round(7)
	}
	if r.RadiusMeters != nil {
		loc.RadiusMeters = *r.RadiusMeters
	}
	if r.IsActive != nil {
		loc.IsActive = *r.IsActive
	}
	if r.IsDefault != nil {
		loc.IsDefault = *r.IsDefault
	}
}

type AssignRequest struct {
	EmployeeID  string   `json:"-" validate:"required"`
	LocationIDs []string `json:"location_ids" validate:"dive,required"`

	ActorID  string `json:"-"`
	ClientIP string `json:"-"`
}

type DeleteRequest struct {
	ID       string
	ActorID  string
	ClientIP string
}

func (r *AssignRequest) Validate() error {
	return validator.Struct(r)
}

type Response struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Latitude     string  `json:"latitude"`
	Longitude    string  `json:"longitude"`
	RadiusMeters int     `json:"radius_meters"`
	IsActive     bool    `json:"is_active"`
	IsDefault    bool    `json:"is_default"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    *string `json:"updated_at,omitempty"`
}

func NewResponse(l CheckInLocation) Response {
	resp := Response{
		ID:           l.ID,
		Name:         l.Name,
		Address:      l.Address,
		Latitude:     l.Latitude.StringFixed(7),
		Longitude:    l.Longitude.StringFixed(7),
		RadiusMeters: l.RadiusMeters,
		IsActive:     l.IsActive,
		IsDefault:    l.IsDefault,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
	}
	if !l.UpdatedAt.IsZero() {
		s := l.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &s
	}
	return resp
}

type EmployeeLocationsResponse struct {
	EmployeeID  string   `json:"employee_id"`
	LocationIDs []string `json:"location_ids"`
}
