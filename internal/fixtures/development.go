package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-core/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-core/internal/domain/location"
	"github.com/cmlabs-hris/attendance-core/internal/repository/memory"
	"github.com/shopspring/decimal"
)

// ==========================================
// DEFAULT DATA
// ==========================================

const (
	DepartmentEngineering = "10000000-0000-0000-0000-000000000001"
	DepartmentOperations  = "10000000-0000-0000-0000-000000000002"
)

type defaultLocation struct {
	Name      string
	Address   string
	Latitude  string
	Longitude string
	Radius    int
	IsDefault bool
}

var defaultLocations = []defaultLocation{
	{Name: "上海总部", Address: "上海市浦东新区世纪大道100号", Latitude: "31.2304000", Longitude: "121.4737000", Radius: 200, IsDefault: true},
	{Name: "北京分公司", Address: "北京市朝阳区建国路88号", Latitude: "39.9042000", Longitude: "116.4074000", Radius: 300},
	{Name: "苏州仓库", Address: "苏州市工业园区星湖街328号", Latitude: "31.2989000", Longitude: "120.5853000", Radius: 500},
}

type defaultEmployee struct {
	ID         string
	Code       string
	Name       string
	Department string
	Status     employee.OnboardStatus
	Active     bool
}

var defaultEmployees = []defaultEmployee{
	{ID: "20000000-0000-0000-0000-000000000001", Code: "E0001", Name: "张伟", Department: DepartmentEngineering, Status: employee.OnboardOnboarded, Active: true},
	{ID: "20000000-0000-0000-0000-000000000002", Code: "E0002", Name: "李娜", Department: DepartmentEngineering, Status: employee.OnboardOnboarded, Active: true},
	{ID: "20000000-0000-0000-0000-000000000003", Code: "E0003", Name: "王强", Department: DepartmentOperations, Status: employee.OnboardOnboarded, Active: true},
	{ID: "20000000-0000-0000-0000-000000000004", Code: "E0004", Name: "赵敏", Department: DepartmentOperations, Status: employee.OnboardPending, Active: true},
	{ID: "20000000-0000-0000-0000-000000000005", Code: "E0005", Name: "陈杰", Department: DepartmentOperations, Status: employee.OnboardResigned, Active: false},
}

// ==========================================
// SEEDED DATA RESULT
// ==========================================

// SeededDataIDs holds the IDs a developer needs to mint tokens and call the API.
type SeededDataIDs struct {
	// Location IDs by name
	LocationIDs map[string]string

	// Employee IDs by employee code
	EmployeeIDs map[string]string
}

// SeedDevelopment fills an empty in-memory store with a small directory,
// three check-in locations, one scoped employee and one approved leave.
func SeedDevelopment(ctx context.Context, store *memory.Store, today time.Time) (*SeededDataIDs, error) {
	ids := &SeededDataIDs{
		LocationIDs: make(map[string]string),
		EmployeeIDs: make(map[string]string),
	}

	hired := today.AddDate(-1, 0, 0)
	for _, e := range defaultEmployees {
		dept := e.Department
		store.PutEmployee(employee.Employee{
			ID:            e.ID,
			EmployeeCode:  e.Code,
			FullName:      e.Name,
			DepartmentID:  &dept,
			IsActive:      e.Active,
			OnboardStatus: e.Status,
			HireDate:      &hired,
		})
		ids.EmployeeIDs[e.Code] = e.ID
	}

	for _, l := range defaultLocations {
		created, err := store.Locations().Create(ctx, location.CheckInLocation{
			Name:         l.Name,
			Address:      l.Address,
			Latitude:     decimal.RequireFromString(l.Latitude),
			Longitude:    decimal.RequireFromString(l.Longitude),
			RadiusMeters: l.Radius,
			IsActive:     true,
			IsDefault:    l.IsDefault,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to seed location %s: %w", l.Name, err)
		}
		ids.LocationIDs[l.Name] = created.ID
	}

	// Operations staff punch at the warehouse only.
	if err := store.Locations().SetEmployeeLocations(ctx, ids.EmployeeIDs["E0003"], []string{ids.LocationIDs["苏州仓库"]}); err != nil {
		return nil, fmt.Errorf("failed to seed employee locations: %w", err)
	}

	store.AddSpan(leave.Span{
		EmployeeID: ids.EmployeeIDs["E0002"],
		Kind:       leave.KindLeave,
		StartDate:  today,
		EndDate:    today.AddDate(0, 0, 2),
	})

	return ids, nil
}
