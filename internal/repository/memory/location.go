package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/attendance-core/internal/domain/location"
)

type locationRepository struct {
	s *Store
}

// defaultTakenLocked mirrors the single-default index of the postgres schema.
func (r *locationRepository) defaultTakenLocked(l location.CheckInLocation) bool {
	if !l.IsDefault {
		return false
	}
	for id, other := range r.s.locations {
		if other.IsDefault && id != l.ID {
			return true
		}
	}
	return false
}

func (r *locationRepository) Create(_ context.Context, l location.CheckInLocation) (location.CheckInLocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l.ID = ""
	if r.defaultTakenLocked(l) {
		return location.CheckInLocation{}, location.ErrDefaultTaken
	}

	l.ID = newID()
	l.CreatedAt = r.s.stamp()
	l.UpdatedAt = l.CreatedAt
	r.s.locations[l.ID] = l
	return l, nil
}

func (r *locationRepository) GetByID(_ context.Context, id string) (location.CheckInLocation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.locations[id]
	if !ok {
		return location.CheckInLocation{}, location.ErrLocationNotFound
	}
	return l, nil
}

func (r *locationRepository) Update(_ context.Context, l location.CheckInLocation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.locations[l.ID]
	if !ok {
		return location.ErrLocationNotFound
	}
	if r.defaultTakenLocked(l) {
		return location.ErrDefaultTaken
	}
	l.CreatedAt = stored.CreatedAt
	l.UpdatedAt = r.s.stamp()
	r.s.locations[l.ID] = l
	return nil
}

func (r *locationRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.locations[id]; !ok {
		return location.ErrLocationNotFound
	}
	delete(r.s.locations, id)
	for emp, ids := range r.s.scopes {
		kept := ids[:0]
		for _, lid := range ids {
			if lid != id {
				kept = append(kept, lid)
			}
		}
		r.s.scopes[emp] = kept
	}
	return nil
}

func sortLocations(locs []location.CheckInLocation) {
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].IsDefault != locs[j].IsDefault {
			return locs[i].IsDefault
		}
		return locs[i].Name < locs[j].Name
	})
}

func (r *locationRepository) List(_ context.Context, includeInactive bool) ([]location.CheckInLocation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []location.CheckInLocation
	for _, l := range r.s.locations {
		if includeInactive || l.IsActive {
			out = append(out, l)
		}
	}
	sortLocations(out)
	return out, nil
}

func (r *locationRepository) ListActiveForEmployee(_ context.Context, employeeID string) ([]location.CheckInLocation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []location.CheckInLocation
	for _, id := range r.s.scopes[employeeID] {
		if l, ok := r.s.locations[id]; ok && l.IsActive {
			out = append(out, l)
		}
	}
	sortLocations(out)
	return out, nil
}

func (r *locationRepository) ClearDefaultExcept(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for lid, l := range r.s.locations {
		if l.IsDefault && lid != id {
			l.IsDefault = false
			l.UpdatedAt = r.s.stamp()
			r.s.locations[lid] = l
		}
	}
	return nil
}

func (r *locationRepository) ListEmployeeLocationIDs(_ context.Context, employeeID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := append([]string(nil), r.s.scopes[employeeID]...)
	sort.Strings(ids)
	return ids, nil
}

func (r *locationRepository) SetEmployeeLocations(_ context.Context, employeeID string, locationIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := make(map[string]bool, len(locationIDs))
	ids := make([]string, 0, len(locationIDs))
	for _, id := range locationIDs {
		if _, ok := r.s.locations[id]; !ok {
			return location.ErrUnknownLocation
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	r.s.scopes[employeeID] = ids
	return nil
}
