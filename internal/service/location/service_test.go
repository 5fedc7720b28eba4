package location

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-core/internal/domain/audit"
	"github.com/cmlabs-hris/attendance-core/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-core/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-core/internal/domain/location"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-core/internal/repository/memory"
	auditservice "github.com/cmlabs-hris/attendance-core/internal/service/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*LocationServiceImpl, *memory.Store, func()) {
	t.Helper()
	store := memory.NewStore()
	store.PutEmployee(employee.Employee{
		ID: "emp-1", EmployeeCode: "E001", FullName: "李四",
		IsActive: true, OnboardStatus: employee.OnboardOnboarded,
	})
	logger := auditservice.NewLogger(store.Audit(), auditservice.Config{})
	svc := NewLocationService(store.Transactor(), store.Locations(), store.Employees(), logger)
	return svc, store, logger.Close
}

func create(name string, isDefault bool) location.CreateRequest {
	return location.CreateRequest{
		Name:         name,
		Latitude:     31.2304,
		Longitude:    121.4737,
		RadiusMeters: 300,
		IsDefault:    isDefault,
		ActorID:      "admin-1",
	}
}

func TestCreate_SingleDefault(t *testing.T) {
	svc, _, closeLog := newService(t)
	defer closeLog()
	ctx := context.Background()

	first, err := svc.Create(ctx, create("总部", true))
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.Create(ctx, create("分部", true))
	require.NoError(t, err)

	list, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.True(t, list[0].IsDefault)
	assert.False(t, list[1].IsDefault)
}

func TestCreate_RejectsOutOfBounds(t *testing.T) {
	svc, _, closeLog := newService(t)
	defer closeLog()

	req := create("海外", false)
	req.Latitude = 1.3
	_, err := svc.Create(context.Background(), req)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "latitude")
}

func TestUpdate_PromoteToDefault(t *testing.T) {
	svc, _, closeLog := newService(t)
	defer closeLog()
	ctx := context.Background()

	hq, err := svc.Create(ctx, create("总部", true))
	require.NoError(t, err)
	branch, err := svc.Create(ctx, create("分部", false))
	require.NoError(t, err)

	yes := true
	radius := 500
	updated, err := svc.Update(ctx, location.UpdateRequest{ID: branch.ID, IsDefault: &yes, RadiusMeters: &radius})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)
	assert.Equal(t, 500, updated.RadiusMeters)

	old, err := svc.Get(ctx, hq.ID)
	require.NoError(t, err)
	assert.False(t, old.IsDefault)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, closeLog := newService(t)
	defer closeLog()

	name := "x"
	_, err := svc.Update(context.Background(), location.UpdateRequest{ID: "missing", Name: &name})
	assert.ErrorIs(t, err, location.ErrLocationNotFound)
}

func TestList_InactiveOnlyForAdmins(t *testing.T) {
	svc, _, closeLog := newService(t)
	defer closeLog()
	ctx := context.Background()

	inactive := false
	req := create("旧仓库", false)
	req.IsActive = &inactive
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)
	_, err = svc.Create(ctx, create("总部", false))
	require.NoError(t, err)

	all, err := svc.List(ctx, auth.Actor{UserID: "a", IsAdmin: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	visible, err := svc.List(ctx, auth.Actor{UserID: "u", EmployeeID: "emp-1"})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "总部", visible[0].Name)
}

func TestAssignEmployeeLocations(t *testing.T) {
	svc, _, closeLog := newService(t)
	defer closeLog()
	ctx := context.Background()

	hq, err := svc.Create(ctx, create("总部", false))
	require.NoError(t, err)

	t.Run("unknown employee", func(t *testing.T) {
		_, err := svc.AssignEmployeeLocations(ctx, location.AssignRequest{EmployeeID: "ghost", LocationIDs: []string{hq.ID}})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("unknown location", func(t *testing.T) {
		_, err := svc.AssignEmployeeLocations(ctx, location.AssignRequest{EmployeeID: "emp-1", LocationIDs: []string{"nope"}})
		assert.ErrorIs(t, err, location.ErrUnknownLocation)
	})

	t.Run("replace and clear", func(t *testing.T) {
		resp, err := svc.AssignEmployeeLocations(ctx, location.AssignRequest{EmployeeID: "emp-1", LocationIDs: []string{hq.ID, hq.ID}})
		require.NoError(t, err)
		assert.Equal(t, []string{hq.ID}, resp.LocationIDs)

		resp, err = svc.AssignEmployeeLocations(ctx, location.AssignRequest{EmployeeID: "emp-1", LocationIDs: nil})
		require.NoError(t, err)
		assert.Empty(t, resp.LocationIDs)
		assert.NotNil(t, resp.LocationIDs)
	})
}

func TestDelete_DropsScopeAndAudits(t *testing.T) {
	svc, store, closeLog := newService(t)
	ctx := context.Background()

	hq, err := svc.Create(ctx, create("总部", false))
	require.NoError(t, err)
	_, err = svc.AssignEmployeeLocations(ctx, location.AssignRequest{EmployeeID: "emp-1", LocationIDs: []string{hq.ID}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, location.DeleteRequest{ID: hq.ID, ActorID: "admin-1"}))
	assert.ErrorIs(t, svc.Delete(ctx, location.DeleteRequest{ID: hq.ID}), location.ErrLocationNotFound)

	scoped, err := svc.GetEmployeeLocations(ctx, "emp-1")
	require.NoError(t, err)
	assert.Empty(t, scoped.LocationIDs)

	closeLog()
	var actions []string
	for _, e := range store.Events() {
		actions = append(actions, e.Action)
	}
	assert.ElementsMatch(t, []string{audit.ActionLocationCreate, audit.ActionLocationAssign, audit.ActionLocationDelete}, actions)
}
