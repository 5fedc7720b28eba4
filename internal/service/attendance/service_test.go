package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core/internal/domain/audit"
	"github.com/cmlabs-hris/attendance-core/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-core/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-core/internal/domain/location"
	"github.com/cmlabs-hris/attendance-core/internal/domain/workday"
	"github.com/cmlabs-hris/attendance-core/internal/repository/memory"
	auditservice "github.com/cmlabs-hris/attendance-core/internal/service/audit"
	"github.com/cmlabs-hris/attendance-core/internal/service/geofence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shanghai = time.FixedZone("CST", 8*3600)

type fakeOracle struct {
	days map[string]workday.DayType
}

func (f *fakeOracle) Classify(_ context.Context, date time.Time) workday.DayInfo {
	if t, ok := f.days[date.Format("2006-01-02")]; ok {
		return workday.DayInfo{Date: date, Type: t, Source: workday.SourceCalendar}
	}
	return workday.WeekdayFallback(date)
}

func (f *fakeOracle) IsWorkday(ctx context.Context, date time.Time) bool {
	return f.Classify(ctx, date).IsWorkday()
}

func (f *fakeOracle) Prewarm(context.Context, ...time.Time) int { return 0 }

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) set(hour, minute int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	y, m, d := c.t.Date()
	c.t = time.Date(y, m, d, hour, minute, 0, 0, shanghai)
}

type fixture struct {
	svc    *AttendanceServiceImpl
	store  *memory.Store
	clock  *testClock
	oracle *fakeOracle
}

const empID = "emp-1"

// newFixture starts on Monday 2024-03-04 in UTC+8.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	dept := "dept-1"
	store.PutEmployee(employee.Employee{
		ID: empID, EmployeeCode: "E001", FullName: "张三", DepartmentID: &dept,
		IsActive: true, OnboardStatus: employee.OnboardOnboarded,
	})

	clock := &testClock{t: time.Date(2024, 3, 4, 8, 0, 0, 0, shanghai)}
	oracle := &fakeOracle{days: map[string]workday.DayType{}}
	svc := NewAttendanceService(
		store.Attendance(),
		store.Employees(),
		geofence.NewResolver(store.Locations()),
		oracle,
		auditservice.Nop{},
		Options{Location: shanghai, Now: clock.now},
	)
	return &fixture{svc: svc, store: store, clock: clock, oracle: oracle}
}

func (f *fixture) addOffice(t *testing.T) location.CheckInLocation {
	t.Helper()
	loc, err := f.store.Locations().Create(context.Background(), location.CheckInLocation{
		Name:         "总部",
		Latitude:     decimal.NewFromFloat(31.2304),
		Longitude:    decimal.NewFromFloat(121.4737),
		RadiusMeters: 200,
		IsActive:     true,
	})
	require.NoError(t, err)
	return loc
}

func punch(notes string) attendance.PunchRequest {
	return attendance.PunchRequest{EmployeeID: empID, Notes: notes}
}

func punchAt(lat, lng float64, notes string) attendance.PunchRequest {
	return attendance.PunchRequest{EmployeeID: empID, Latitude: &lat, Longitude: &lng, Notes: notes}
}

func (f *fixture) record(t *testing.T) attendance.Record {
	t.Helper()
	rec, err := f.store.Attendance().GetByEmployeeAndDate(context.Background(), empID, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, rec)
	return *rec
}

func TestCheckIn_OnTime(t *testing.T) {
	f := newFixture(t)
	f.clock.set(8, 50)

	resp, err := f.svc.CheckIn(context.Background(), punch(""))
	require.NoError(t, err)

	assert.True(t, resp.IsWorkday)
	assert.Equal(t, attendance.StatusCheckedIn, resp.Record.Status)
	assert.Equal(t, "2024-03-04", resp.Record.Date)
	require.NotNil(t, resp.Record.CheckIn)
	assert.Equal(t, "08:50:00", *resp.Record.CheckIn)
}

func TestCheckIn_LateRequiresReason(t *testing.T) {
	f := newFixture(t)
	f.clock.set(9, 15)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, punch(""))
	require.ErrorIs(t, err, attendance.ErrReasonRequired)
	var reasonErr *attendance.ReasonRequiredError
	require.True(t, errors.As(err, &reasonErr))
	assert.Equal(t, attendance.ReasonLate, reasonErr.Kind)
	assert.Zero(t, f.store.RecordCount())

	resp, err := f.svc.CheckIn(ctx, punch("traffic"))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, resp.Record.Status)
	assert.Equal(t, "迟到原因：traffic", resp.Record.Notes)
}

func TestCheckIn_ExactlyAtCutoffIsNotLate(t *testing.T) {
	f := newFixture(t)
	f.clock.set(9, 0)

	resp, err := f.svc.CheckIn(context.Background(), punch(""))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusCheckedIn, resp.Record.Status)
}

func TestCheckIn_TwiceIsAlreadyCheckedIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.clock.set(8, 30)

	_, err := f.svc.CheckIn(ctx, punch("first"))
	require.NoError(t, err)
	before := f.record(t)

	f.clock.set(8, 40)
	_, err = f.svc.CheckIn(ctx, punch("second"))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	after := f.record(t)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, f.store.RecordCount())
}

func TestCheckIn_ConcurrentPunchesCreateOneRecord(t *testing.T) {
	f := newFixture(t)
	f.clock.set(8, 30)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.CheckIn(context.Background(), punch(""))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, f.store.RecordCount())
}

func TestCheckIn_NonWorkdayIsOvertime(t *testing.T) {
	f := newFixture(t)
	f.oracle.days["2024-03-04"] = workday.DayHoliday
	f.clock.set(11, 0)

	resp, err := f.svc.CheckIn(context.Background(), punch(""))
	require.NoError(t, err)
	assert.False(t, resp.IsWorkday)
	assert.Equal(t, attendance.StatusCheckedIn, resp.Record.Status)
	assert.Equal(t, attendance.NoteOvertime, resp.Record.Notes)
}

func TestCheckIn_NotOnboarded(t *testing.T) {
	f := newFixture(t)
	f.store.PutEmployee(employee.Employee{ID: "emp-2", IsActive: true, OnboardStatus: employee.OnboardPending})

	_, err := f.svc.CheckIn(context.Background(), attendance.PunchRequest{EmployeeID: "emp-2"})
	assert.ErrorIs(t, err, attendance.ErrNotOnboarded)

	_, err = f.svc.CheckIn(context.Background(), attendance.PunchRequest{EmployeeID: "nobody"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestCheckIn_Geofence(t *testing.T) {
	f := newFixture(t)
	f.addOffice(t)
	f.clock.set(8, 30)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, punch(""))
	assert.ErrorIs(t, err, attendance.ErrLocationRequired)

	_, err = f.svc.CheckIn(ctx, punchAt(31.2404, 121.4737, ""))
	require.ErrorIs(t, err, attendance.ErrOutOfRange)
	var rangeErr *attendance.OutOfRangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, "总部", rangeErr.LocationName)
	assert.Equal(t, 200, rangeErr.RadiusMeters)
	assert.InDelta(t, 1112, rangeErr.DistanceMeters, 5)

	resp, err := f.svc.CheckIn(ctx, punchAt(31.2310, 121.4737, ""))
	require.NoError(t, err)
	require.NotNil(t, resp.LocationName)
	assert.Equal(t, "总部", *resp.LocationName)
}

func TestCheckIn_ZeroCoordinateBypassesGeofence(t *testing.T) {
	store := memory.NewStore()
	logger := auditservice.NewLogger(store.Audit(), auditservice.Config{FlushInterval: time.Hour})

	f := newFixture(t)
	f.svc.audit = logger
	f.addOffice(t)
	f.clock.set(8, 30)

	resp, err := f.svc.CheckIn(context.Background(), punchAt(0, 0, ""))
	require.NoError(t, err)
	assert.True(t, resp.LocationUnverified)

	logger.Close()
	var actions []string
	for _, e := range store.Events() {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, audit.ActionLocationUnavailable)
	assert.Contains(t, actions, audit.ActionCheckIn)
}

func TestCheckOut_RequiresCheckIn(t *testing.T) {
	f := newFixture(t)
	f.clock.set(18, 30)

	_, err := f.svc.CheckOut(context.Background(), punch(""))
	assert.ErrorIs(t, err, attendance.ErrNoRecord)
}

func TestCheckOut_EarlyLeaveThenCorrection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.clock.set(8, 50)
	_, err := f.svc.CheckIn(ctx, punch(""))
	require.NoError(t, err)

	f.clock.set(17, 30)
	_, err = f.svc.CheckOut(ctx, punch(""))
	require.ErrorIs(t, err, attendance.ErrReasonRequired)

	resp, err := f.svc.CheckOut(ctx, punch("doctor"))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusEarlyLeave, resp.Record.Status)
	assert.Equal(t, "早退原因：doctor", resp.Record.Notes)

	f.clock.set(18, 10)
	resp, err = f.svc.UpdateCheckOut(ctx, punch(""))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusCheckedOut, resp.Record.Status)
	assert.Empty(t, resp.Record.Notes)
	assert.Equal(t, "18:10:00", *resp.Record.CheckOut)
	assert.Equal(t, 1, f.store.RecordCount())
}

func TestCheckOut_LateIsNeverOverwritten(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.clock.set(9, 15)
	_, err := f.svc.CheckIn(ctx, punch("traffic"))
	require.NoError(t, err)

	f.clock.set(17, 0)
	resp, err := f.svc.CheckOut(ctx, punch("doctor"))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, resp.Record.Status)
	assert.Equal(t, "迟到原因：traffic\n早退原因：doctor", resp.Record.Notes)

	f.clock.set(18, 30)
	resp, err = f.svc.UpdateCheckOut(ctx, punch("clock drift"))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, resp.Record.Status)
	assert.Equal(t, "迟到原因：traffic\n早退原因：doctor\nclock drift", resp.Record.Notes)
}

func TestUpdateCheckOut_KeepsOtherNotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.clock.set(8, 0)
	_, err := f.svc.CheckIn(ctx, punch("早到"))
	require.NoError(t, err)

	f.clock.set(16, 0)
	_, err = f.svc.CheckOut(ctx, punch("接孩子"))
	require.NoError(t, err)

	f.clock.set(18, 5)
	resp, err := f.svc.UpdateCheckOut(ctx, punch("回来加班"))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusCheckedOut, resp.Record.Status)
	assert.Equal(t, "早到 | 回来加班", resp.Record.Notes)
}

func TestUpdateCheckOut_RemarkOutlivesEarlyLeaveReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.clock.set(8, 30)
	_, err := f.svc.CheckIn(ctx, punch(""))
	require.NoError(t, err)

	f.clock.set(16, 0)
	_, err = f.svc.CheckOut(ctx, punch("doctor"))
	require.NoError(t, err)

	f.clock.set(17, 0)
	resp, err := f.svc.UpdateCheckOut(ctx, punch("再走一次"))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusEarlyLeave, resp.Record.Status)
	assert.Equal(t, "早退原因：doctor\n再走一次", resp.Record.Notes)

	f.clock.set(18, 10)
	resp, err = f.svc.UpdateCheckOut(ctx, punch(""))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusCheckedOut, resp.Record.Status)
	assert.Equal(t, "再走一次", resp.Record.Notes)
}

func TestUpdateCheckOut_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateCheckOut(ctx, punch(""))
	assert.ErrorIs(t, err, attendance.ErrNoRecord)

	f.clock.set(8, 0)
	_, err = f.svc.CheckIn(ctx, punch(""))
	require.NoError(t, err)

	_, err = f.svc.UpdateCheckOut(ctx, punch(""))
	assert.ErrorIs(t, err, attendance.ErrNotCheckedOut)
}

func TestCheckIn_TakesOverAutoAbsentRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.Attendance().Create(ctx, attendance.Record{
		EmployeeID: empID,
		Date:       time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Status:     attendance.StatusAbsent,
		Notes:      attendance.NoteAutoAbsent,
	})
	require.NoError(t, err)

	f.clock.set(19, 0)
	resp, err := f.svc.CheckIn(ctx, punch("加班到很晚"))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, resp.Record.Status)
	assert.Equal(t, "迟到原因：加班到很晚", resp.Record.Notes)
	assert.Equal(t, 1, f.store.RecordCount())
}

func TestToday_And_Range(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	today, err := f.svc.Today(ctx, empID)
	require.NoError(t, err)
	assert.Nil(t, today)

	f.clock.set(8, 0)
	_, err = f.svc.CheckIn(ctx, punch(""))
	require.NoError(t, err)

	today, err = f.svc.Today(ctx, empID)
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.Equal(t, attendance.StatusCheckedIn, today.Status)

	records, err := f.svc.Range(ctx, empID, attendance.RangeRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = f.svc.Range(ctx, empID, attendance.RangeRequest{StartDate: "2024-03-31", EndDate: "2024-03-01"})
	assert.ErrorIs(t, err, attendance.ErrInvalidDateRange)
}

func TestList_ScopesByActor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := "dept-2"
	f.store.PutEmployee(employee.Employee{
		ID: "emp-2", EmployeeCode: "E002", FullName: "李四", DepartmentID: &other,
		IsActive: true, OnboardStatus: employee.OnboardOnboarded,
	})

	f.clock.set(8, 0)
	_, err := f.svc.CheckIn(ctx, punch(""))
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, attendance.PunchRequest{EmployeeID: "emp-2"})
	require.NoError(t, err)

	all, err := f.svc.List(ctx, auth.Actor{UserID: "admin", IsAdmin: true}, attendance.ListRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.TotalCount)
	assert.Equal(t, 1, all.TotalPages)

	managed, err := f.svc.List(ctx, auth.Actor{UserID: "mgr", ManagedDepartmentIDs: []string{"dept-2"}}, attendance.ListRequest{})
	require.NoError(t, err)
	require.Len(t, managed.Records, 1)
	assert.Equal(t, "emp-2", managed.Records[0].EmployeeID)

	other2 := "emp-2"
	own, err := f.svc.List(ctx, auth.Actor{UserID: "u1", EmployeeID: empID}, attendance.ListRequest{EmployeeID: &other2})
	require.NoError(t, err)
	require.Len(t, own.Records, 1)
	assert.Equal(t, empID, own.Records[0].EmployeeID)

	_, err = f.svc.List(ctx, auth.Actor{UserID: "ghost"}, attendance.ListRequest{})
	assert.ErrorIs(t, err, auth.ErrNoEmployeeLink)
}

func TestAlerts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.clock.set(9, 30)
	_, err := f.svc.CheckIn(ctx, punch("traffic"))
	require.NoError(t, err)

	_, err = f.store.Attendance().Create(ctx, attendance.Record{
		EmployeeID: empID,
		Date:       time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Status:     attendance.StatusAbsent,
	})
	require.NoError(t, err)

	admin := auth.Actor{UserID: "admin", IsAdmin: true}

	resp, err := f.svc.Alerts(ctx, admin, attendance.AlertRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.DefaultAlertDays, resp.Days)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, attendance.StatusLate, resp.Records[0].Status)

	resp, err = f.svc.Alerts(ctx, admin, attendance.AlertRequest{Days: 60, Type: "absent"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, attendance.StatusAbsent, resp.Records[0].Status)
}

func TestCheckLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.CheckLocation(ctx, empID, 31.2304, 121.4737)
	require.NoError(t, err)
	assert.True(t, resp.InRange)
	assert.False(t, resp.Restricted)

	f.addOffice(t)
	resp, err = f.svc.CheckLocation(ctx, empID, 31.2404, 121.4737)
	require.NoError(t, err)
	assert.False(t, resp.InRange)
	require.NotNil(t, resp.RadiusMeters)
	assert.Equal(t, 200, *resp.RadiusMeters)
}
