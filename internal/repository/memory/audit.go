package memory

import (
	"context"

	"github.com/cmlabs-hris/attendance-core/internal/domain/audit"
)

type auditRepository struct {
	s *Store
}

func (r *auditRepository) CreateBatch(_ context.Context, events []audit.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range events {
		if e.ID == "" {
			e.ID = newID()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = r.s.stamp()
		}
		r.s.events = append(r.s.events, e)
	}
	return nil
}
