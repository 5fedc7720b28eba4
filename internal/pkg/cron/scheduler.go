package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job represents a scheduled job
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

// JobStatus is the bookkeeping kept for each registered job.
type JobStatus struct {
	Name         string        `json:"name"`
	Interval     time.Duration `json:"interval"`
	Runs         int64         `json:"runs"`
	Failures     int64         `json:"failures"`
	LastStart    *time.Time    `json:"last_start,omitempty"`
	LastDuration time.Duration `json:"last_duration"`
	LastError    string        `json:"last_error,omitempty"`
	Running      bool          `json:"running"`
}

type entry struct {
	job    Job
	status JobStatus
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	jobs    []*entry
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewScheduler creates a new cron scheduler
func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make([]*entry, 0),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob adds a job to the scheduler. Jobs added after Start are not run.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, &entry{
		job:    Job{Name: name, Interval: interval, Fn: fn},
		status: JobStatus{Name: name, Interval: interval},
	})
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

// Start begins running all scheduled jobs. Calling it twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	for _, e := range s.jobs {
		s.wg.Add(1)
		go s.runJob(e)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

// Jobs returns a snapshot of every registered job's bookkeeping.
func (s *Scheduler) Jobs() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobStatus, 0, len(s.jobs))
	for _, e := range s.jobs {
		st := e.status
		if st.LastStart != nil {
			t := *st.LastStart
			st.LastStart = &t
		}
		out = append(out, st)
	}
	return out
}

// runJob runs a single job on its schedule
func (s *Scheduler) runJob(e *entry) {
	defer s.wg.Done()

	ticker := time.NewTicker(e.job.Interval)
	defer ticker.Stop()

	// Run immediately on start
	s.executeJob(s.ctx, e)

	for {
		select {
		case <-s.ctx.Done():
			slog.Info("Cron job stopping", "name", e.job.Name)
			return
		case <-ticker.C:
			s.executeJob(s.ctx, e)
		}
	}
}

// executeJob executes a job, logs results and records its bookkeeping.
func (s *Scheduler) executeJob(ctx context.Context, e *entry) {
	start := time.Now()

	s.mu.Lock()
	e.status.Running = true
	e.status.LastStart = &start
	s.mu.Unlock()

	slog.Info("Cron job starting", "name", e.job.Name)
	err := e.job.Fn(ctx)
	duration := time.Since(start)

	s.mu.Lock()
	e.status.Running = false
	e.status.Runs++
	e.status.LastDuration = duration
	e.status.LastError = ""
	if err != nil {
		e.status.Failures++
		e.status.LastError = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		slog.Error("Cron job failed", "name", e.job.Name, "error", err, "duration", duration)
	} else {
		slog.Info("Cron job completed", "name", e.job.Name, "duration", duration)
	}
}

// RunOnce runs all jobs once, in registration order.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := make([]*entry, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.Unlock()

	for _, e := range jobs {
		s.executeJob(ctx, e)
	}
}
