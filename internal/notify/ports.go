package notify

import (
	"context"
	"time"
)

// Urgency of a reminder. The two values match the two places a reminder can be raised.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
)

// Notification is a single outbound reminder.
type Notification struct {
	Title   string
	Message string
	Urgency Urgency
	Count   int
	// At is when the reminder was decided.
	At time.Time
}

// Sink delivers notifications. Implementations are expected to be best-effort;
// callers log and drop the returned error.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, n Notification) error

func (f SinkFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }
