package location

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-core/internal/domain/audit"
	"github.com/cmlabs-hris/attendance-core/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-core/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-core/internal/domain/location"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/database"
)

type LocationServiceImpl struct {
	tx database.Transactor
	location.Repository
	employees employee.Repository
	audit     audit.Logger
}

func NewLocationService(
	tx database.Transactor,
	locationRepo location.Repository,
	employeeRepo employee.Repository,
	auditLogger audit.Logger,
) *LocationServiceImpl {
	return &LocationServiceImpl{
		tx:         tx,
		Repository: locationRepo,
		employees:  employeeRepo,
		audit:      auditLogger,
	}
}

var _ location.Service = (*LocationServiceImpl)(nil)

func toResponses(locs []location.CheckInLocation) []location.Response {
	out := make([]location.Response, 0, len(locs))
	for _, l := range locs {
		out = append(out, location.NewResponse(l))
	}
	return out
}

// Create implements location.Service.
func (s *LocationServiceImpl) Create(ctx context.Context, req location.CreateRequest) (location.Response, error) {
	if err := req.Validate(); err != nil {
		return location.Response{}, err
	}

	var created location.CheckInLocation
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		entity := req.ToEntity()
		// The previous default must go before the insert; the unique index
		// allows only one default row at any moment.
		if entity.IsDefault {
			if err := s.Repository.ClearDefaultExcept(ctx, ""); err != nil {
				return fmt.Errorf("failed to clear previous default: %w", err)
			}
		}
		var err error
		created, err = s.Repository.Create(ctx, entity)
		if err != nil {
			return fmt.Errorf("failed to create check-in location: %w", err)
		}
		return nil
	})
	if err != nil {
		return location.Response{}, err
	}

	s.audit.Log(ctx, audit.Event{
		ActorID:   req.ActorID,
		Action:    audit.ActionLocationCreate,
		Detail:    fmt.Sprintf("location=%s name=%s radius=%d", created.ID, created.Name, created.RadiusMeters),
		IPAddress: req.ClientIP,
	})
	return location.NewResponse(created), nil
}

// Update implements location.Service.
func (s *LocationServiceImpl) Update(ctx context.Context, req location.UpdateRequest) (location.Response, error) {
	if err := req.Validate(); err != nil {
		return location.Response{}, err
	}

	var updated location.CheckInLocation
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.Repository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		req.Apply(&current)

		if current.IsDefault {
			if err := s.Repository.ClearDefaultExcept(ctx, current.ID); err != nil {
				return fmt.Errorf("failed to clear previous default: %w", err)
			}
		}
		if err := s.Repository.Update(ctx, current); err != nil {
			return err
		}

		updated, err = s.Repository.GetByID(ctx, current.ID)
		return err
	})
	if err != nil {
		return location.Response{}, err
	}

	s.audit.Log(ctx, audit.Event{
		ActorID:   req.ActorID,
		Action:    audit.ActionLocationUpdate,
		Detail:    fmt.Sprintf("location=%s active=%t default=%t", updated.ID, updated.IsActive, updated.IsDefault),
		IPAddress: req.ClientIP,
	})
	return location.NewResponse(updated), nil
}

// Delete implements location.Service.
func (s *LocationServiceImpl) Delete(ctx context.Context, req location.DeleteRequest) error {
	if err := s.Repository.Delete(ctx, req.ID); err != nil {
		return err
	}
	s.audit.Log(ctx, audit.Event{
		ActorID:   req.ActorID,
		Action:    audit.ActionLocationDelete,
		Detail:    "location=" + req.ID,
		IPAddress: req.ClientIP,
	})
	return nil
}

// Get implements location.Service.
func (s *LocationServiceImpl) Get(ctx context.Context, id string) (location.Response, error) {
	loc, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return location.Response{}, err
	}
	return location.NewResponse(loc), nil
}

// List implements location.Service.
func (s *LocationServiceImpl) List(ctx context.Context, actor auth.Actor) ([]location.Response, error) {
	locs, err := s.Repository.List(ctx, actor.IsAdmin)
	if err != nil {
		return nil, err
	}
	return toResponses(locs), nil
}

// ListActive implements location.Service.
func (s *LocationServiceImpl) ListActive(ctx context.Context) ([]location.Response, error) {
	locs, err := s.Repository.List(ctx, false)
	if err != nil {
		return nil, err
	}
	return toResponses(locs), nil
}

// GetEmployeeLocations implements location.Service.
func (s *LocationServiceImpl) GetEmployeeLocations(ctx context.Context, employeeID string) (location.EmployeeLocationsResponse, error) {
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return location.EmployeeLocationsResponse{}, err
	}
	ids, err := s.Repository.ListEmployeeLocationIDs(ctx, employeeID)
	if err != nil {
		return location.EmployeeLocationsResponse{}, err
	}
	if ids == nil {
		ids = []string{}
	}
	return location.EmployeeLocationsResponse{EmployeeID: employeeID, LocationIDs: ids}, nil
}

// AssignEmployeeLocations implements location.Service. An empty set lifts the
// restriction so every active location applies again.
func (s *LocationServiceImpl) AssignEmployeeLocations(ctx context.Context, req location.AssignRequest) (location.EmployeeLocationsResponse, error) {
	if err := req.Validate(); err != nil {
		return location.EmployeeLocationsResponse{}, err
	}
	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return location.EmployeeLocationsResponse{}, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.Repository.SetEmployeeLocations(ctx, req.EmployeeID, req.LocationIDs)
	})
	if err != nil {
		return location.EmployeeLocationsResponse{}, err
	}

	s.audit.Log(ctx, audit.Event{
		ActorID:   req.ActorID,
		Action:    audit.ActionLocationAssign,
		Detail:    fmt.Sprintf("employee=%s locations=%d", req.EmployeeID, len(req.LocationIDs)),
		IPAddress: req.ClientIP,
	})
	return s.GetEmployeeLocations(ctx, req.EmployeeID)
}
