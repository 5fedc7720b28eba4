package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsImmediatelyOnStart(t *testing.T) {
	s := NewScheduler()
	var calls atomic.Int32
	s.AddJob("tick", time.Hour, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	s.Start()
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "tick", jobs[0].Name)
	assert.Equal(t, int64(1), jobs[0].Runs)
	assert.NotNil(t, jobs[0].LastStart)
	assert.False(t, jobs[0].Running)
}

func TestScheduler_TicksUntilStopped(t *testing.T) {
	s := NewScheduler()
	var calls atomic.Int32
	s.AddJob("fast", 10*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	s.Start()
	s.Start()
	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())
}

func TestScheduler_RecordsFailures(t *testing.T) {
	s := NewScheduler()
	fail := true
	s.AddJob("flaky", time.Hour, func(context.Context) error {
		if fail {
			return errors.New("calendar down")
		}
		return nil
	})

	s.RunOnce(context.Background())
	st := s.Jobs()[0]
	assert.Equal(t, int64(1), st.Runs)
	assert.Equal(t, int64(1), st.Failures)
	assert.Equal(t, "calendar down", st.LastError)

	fail = false
	s.RunOnce(context.Background())
	st = s.Jobs()[0]
	assert.Equal(t, int64(2), st.Runs)
	assert.Equal(t, int64(1), st.Failures)
	assert.Empty(t, st.LastError)
}

func TestScheduler_RunOnceKeepsOrder(t *testing.T) {
	s := NewScheduler()
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		s.AddJob(name, time.Hour, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	s.RunOnce(context.Background())
	assert.Equal(t, []string{"a", "b", "c"}, order)
}
