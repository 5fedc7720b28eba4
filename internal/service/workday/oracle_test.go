package workday

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/workday"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/holiday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCalendar struct {
	mu    sync.Mutex
	days  map[string]workday.DayInfo
	err   error
	calls int
	// gate, when set, holds every lookup until it is closed.
	gate chan struct{}
}

func (s *stubCalendar) Lookup(ctx context.Context, date time.Time) (workday.DayInfo, error) {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err := ctx.Err(); err != nil {
		return workday.DayInfo{}, err
	}
	if s.err != nil {
		return workday.DayInfo{}, s.err
	}
	if info, ok := s.days[date.Format("2006-01-02")]; ok {
		return info, nil
	}
	return workday.DayInfo{Type: workday.DayOrdinary}, nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func newOracle(cal workday.Calendar, overrides *holiday.Overrides) (*OracleImpl, *clock) {
	c := &clock{t: time.Date(2024, 10, 1, 8, 0, 0, 0, time.UTC)}
	return NewOracle(cal, overrides, cache.NewTTL[workday.DayInfo]().WithClock(c.now)), c
}

func TestOracle_CalendarAnswerIsCachedForADay(t *testing.T) {
	cal := &stubCalendar{days: map[string]workday.DayInfo{
		"2024-10-01": {Type: workday.DayHoliday, HolidayName: "国庆节"},
	}}
	oracle, c := newOracle(cal, nil)
	ctx := context.Background()

	info := oracle.Classify(ctx, day("2024-10-01"))
	assert.Equal(t, workday.DayHoliday, info.Type)
	assert.Equal(t, "国庆节", info.HolidayName)
	assert.Equal(t, workday.SourceCalendar, info.Source)
	assert.False(t, oracle.IsWorkday(ctx, day("2024-10-01")))
	assert.Equal(t, 1, cal.calls)

	c.advance(23 * time.Hour)
	oracle.Classify(ctx, day("2024-10-01"))
	assert.Equal(t, 1, cal.calls)

	c.advance(2 * time.Hour)
	oracle.Classify(ctx, day("2024-10-01"))
	assert.Equal(t, 2, cal.calls)
}

func TestOracle_MakeupSaturdayIsWorkday(t *testing.T) {
	cal := &stubCalendar{days: map[string]workday.DayInfo{
		"2024-10-12": {Type: workday.DayMakeup, HolidayName: "国庆节后补班"},
	}}
	oracle, _ := newOracle(cal, nil)

	assert.True(t, oracle.IsWorkday(context.Background(), day("2024-10-12")))
}

func TestOracle_CancelledCallerDoesNotPoisonCache(t *testing.T) {
	cal := &stubCalendar{days: map[string]workday.DayInfo{
		"2024-10-12": {Type: workday.DayMakeup, HolidayName: "国庆节后补班"},
	}}
	oracle, _ := newOracle(cal, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	info := oracle.Classify(ctx, day("2024-10-12"))
	assert.True(t, info.IsWorkday())
	assert.Equal(t, workday.SourceCalendar, info.Source)

	assert.True(t, oracle.IsWorkday(context.Background(), day("2024-10-12")))
	assert.Equal(t, 1, cal.calls)
}

func TestOracle_ConcurrentMissesShareOneLookup(t *testing.T) {
	cal := &stubCalendar{gate: make(chan struct{})}
	oracle, _ := newOracle(cal, nil)

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = oracle.IsWorkday(context.Background(), day("2024-10-08"))
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(cal.gate)
	wg.Wait()

	for _, ok := range results {
		assert.True(t, ok)
	}
	assert.Equal(t, 1, cal.calls)
}

func TestOracle_FailureFallsBackForAnHour(t *testing.T) {
	cal := &stubCalendar{err: workday.ErrCalendarUnavailable}
	oracle, c := newOracle(cal, nil)
	ctx := context.Background()

	// 2024-10-01 is a Tuesday, 2024-10-05 a Saturday.
	assert.True(t, oracle.IsWorkday(ctx, day("2024-10-01")))
	assert.False(t, oracle.IsWorkday(ctx, day("2024-10-05")))
	assert.Equal(t, workday.SourceFallback, oracle.Classify(ctx, day("2024-10-01")).Source)
	assert.Equal(t, 2, cal.calls)

	cal.err = nil
	cal.days = map[string]workday.DayInfo{"2024-10-01": {Type: workday.DayHoliday, HolidayName: "国庆节"}}

	c.advance(30 * time.Minute)
	assert.True(t, oracle.IsWorkday(ctx, day("2024-10-01")))

	c.advance(31 * time.Minute)
	assert.False(t, oracle.IsWorkday(ctx, day("2024-10-01")))
}

func TestOracle_NeverFails(t *testing.T) {
	for _, err := range []error{
		workday.ErrCalendarUnavailable,
		workday.ErrMalformedResponse,
		workday.ErrCalendarRejected,
		errors.New("boom"),
	} {
		oracle, _ := newOracle(&stubCalendar{err: err}, nil)
		info := oracle.Classify(context.Background(), day("2024-10-06"))
		assert.Equal(t, workday.DayWeekend, info.Type)
	}
}

func TestOracle_DisabledUsesWeekdayRule(t *testing.T) {
	oracle, _ := newOracle(nil, nil)
	ctx := context.Background()

	assert.True(t, oracle.IsWorkday(ctx, day("2024-10-01")))
	assert.False(t, oracle.IsWorkday(ctx, day("2024-10-06")))
	assert.Zero(t, oracle.cache.Len())
}

func TestOracle_OverridesWin(t *testing.T) {
	overrides, err := holiday.ParseOverrides([]byte(`
days:
  - date: "2024-10-01"
    type: workday
    name: 盘点日
`))
	require.NoError(t, err)

	cal := &stubCalendar{days: map[string]workday.DayInfo{
		"2024-10-01": {Type: workday.DayHoliday, HolidayName: "国庆节"},
	}}
	oracle, _ := newOracle(cal, overrides)

	info := oracle.Classify(context.Background(), day("2024-10-01"))
	assert.True(t, info.IsWorkday())
	assert.Equal(t, workday.SourceOverride, info.Source)
	assert.Zero(t, cal.calls)
}

func TestOracle_Prewarm(t *testing.T) {
	cal := &stubCalendar{}
	oracle, c := newOracle(cal, nil)
	ctx := context.Background()

	assert.Zero(t, oracle.Prewarm(ctx, day("2024-10-01"), day("2024-10-02")))
	assert.Equal(t, 2, cal.calls)
	assert.Equal(t, 2, oracle.cache.Len())

	c.advance(25 * time.Hour)
	assert.Equal(t, 2, oracle.Prewarm(ctx, day("2024-10-02")))
	assert.Equal(t, 1, oracle.cache.Len())
}
