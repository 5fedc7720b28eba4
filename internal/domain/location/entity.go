package location

import (
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/pkg/geo"
	"github.com/shopspring/decimal"
)

// Serviceable territory and radius bounds for check-in locations.
const (
	MinLatitude     = 3.86
	MaxLatitude     = 53.55
	MinLongitude    = 73.66
	MaxLongitude    = 135.05
	MinRadiusMeters = 50
	MaxRadiusMeters = 10000
)

// CheckInLocation is a named geofence center.
type CheckInLocation struct {
	ID           string
	Name         string
	Address      string
	Latitude     decimal.Decimal
	Longitude    decimal.Decimal
	RadiusMeters int
	IsActive     bool
	IsDefault    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (l CheckInLocation) Point() geo.Point {
	lat, _ := l.Latitude.Float64()
	lng, _ := l.Longitude.Float64()
	return geo.Point{Latitude: lat, Longitude: lng}
}

// Resolution is the outcome of matching a coordinate against candidate locations.
type Resolution struct {
	InRange bool
	// Nearest is the matched location when in range, otherwise the closest one.
	Nearest        *CheckInLocation
	DistanceMeters float64
	// Restricted is false when no candidate applied.
	Restricted bool
	// Bypassed marks the (0,0) unknown-position sentinel.
	Bypassed bool
}
