package audit

import "context"

// Logger records events without ever failing the caller.
type Logger interface {
	Log(ctx context.Context, event Event)
	// Close flushes queued events and stops background workers.
	Close()
}
