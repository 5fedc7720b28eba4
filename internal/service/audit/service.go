package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/audit"
	"github.com/google/uuid"
)

// Config holds audit sink configuration
type Config struct {
	BatchSize     int           // default: 50
	FlushInterval time.Duration // default: 2 seconds
	WorkerCount   int           // default: 1
	QueueSize     int           // default: 1000
}

type service struct {
	repo   audit.Repository
	config Config

	queue  chan audit.Event
	wg     sync.WaitGroup
	stopCh chan struct{}

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewLogger starts the background writers of the audit sink.
func NewLogger(repo audit.Repository, cfg Config) audit.Logger {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 50
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 2 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 1
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		config: cfg,
		queue:  make(chan audit.Event, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("audit logger started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval,
	)
	return s
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]audit.Event, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			slog.Error("audit batch insert failed", "worker", id, "events", len(batch), "error", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case e := <-s.queue:
			batch = append(batch, e)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// drain what was queued before Close
			for {
				select {
				case e := <-s.queue:
					batch = append(batch, e)
					if len(batch) >= s.config.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// Log implements audit.Logger. It never blocks on storage unless the queue is full.
func (s *service) Log(ctx context.Context, event audit.Event) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.closed {
		select {
		case s.queue <- event:
			return
		default:
		}
	}
	s.directInsert(ctx, event)
}

// directInsert writes an event synchronously when the queue is full or closed.
func (s *service) directInsert(ctx context.Context, event audit.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.repo.CreateBatch(ctx, []audit.Event{event}); err != nil {
		slog.Error("audit insert failed", "action", event.Action, "actor_id", event.ActorID, "error", err)
	}
}

// Close implements audit.Logger.
func (s *service) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		close(s.stopCh)
		s.wg.Wait()
		slog.Info("audit logger stopped")
	})
}

// Nop discards every event.
type Nop struct{}

func (Nop) Log(context.Context, audit.Event) {}
func (Nop) Close()                           {}
