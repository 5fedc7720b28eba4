// Package geofence decides whether a coordinate is close enough to an
// applicable check-in location.
package geofence

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-core/internal/domain/location"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/geo"
)

type Resolver struct {
	locations location.Repository
}

func NewResolver(locations location.Repository) *Resolver {
	return &Resolver{locations: locations}
}

// Candidates returns the employee's active scoped locations, or every active
// location when the employee has none.
func (r *Resolver) Candidates(ctx context.Context, employeeID string) ([]location.CheckInLocation, error) {
	if employeeID != "" {
		scoped, err := r.locations.ListActiveForEmployee(ctx, employeeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load scoped locations: %w", err)
		}
		if len(scoped) > 0 {
			return scoped, nil
		}
	}

	all, err := r.locations.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load active locations: %w", err)
	}
	return all, nil
}

// Resolve matches p against the employee's candidate locations.
func (r *Resolver) Resolve(ctx context.Context, employeeID string, p geo.Point) (location.Resolution, error) {
	candidates, err := r.Candidates(ctx, employeeID)
	if err != nil {
		return location.Resolution{}, err
	}
	return Match(p, candidates), nil
}

// Match scans candidates in order and stops at the first one whose radius
// contains p. Otherwise the closest candidate is reported as Nearest.
//
// An empty candidate set places no restriction. The (0,0) coordinate is what
// browsers report when they cannot locate the device; it is let through with
// Bypassed set so the caller can audit it.
func Match(p geo.Point, candidates []location.CheckInLocation) location.Resolution {
	if len(candidates) == 0 {
		return location.Resolution{InRange: true}
	}
	if p.IsZero() {
		return location.Resolution{InRange: true, Restricted: true, Bypassed: true}
	}

	res := location.Resolution{Restricted: true}
	for i := range candidates {
		c := candidates[i]
		d := geo.Distance(p, c.Point())
		if d <= float64(c.RadiusMeters) {
			return location.Resolution{InRange: true, Restricted: true, Nearest: &c, DistanceMeters: d}
		}
		if res.Nearest == nil || d < res.DistanceMeters {
			res.Nearest = &c
			res.DistanceMeters = d
		}
	}
	return res
}
