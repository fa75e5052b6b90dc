package notify

import (
	"context"
	"log/slog"
	"sync"
)

// LogPublisher only logs events. It stands in when no broker is configured.
// Tokens are never logged.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) error {
	l := p.Logger
	if l == nil {
		l = slog.Default()
	}
	l.InfoContext(ctx, "email event",
		slog.String("type", string(e.Type)),
		slog.Int64("user_id", e.UserID),
		slog.String("email", e.Email),
		slog.String("lang", e.Lang),
		slog.Int("reasons", len(e.Reasons)),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// Recorder keeps every event in memory. Tests use it to assert dispatch.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of what has been published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
