package services

import (
	"context"
	"time"

	"smartpay/internal/core"
	"smartpay/internal/log"
	"smartpay/internal/notify"
)

// Snapshotter is the read side of the repository.
type Snapshotter interface {
	List() []core.Payment
}

// Reminder evaluates the collection and hands the resulting notification to
// a sink. Delivery failures never reach the caller.
type Reminder struct {
	source Snapshotter
	sink   notify.Sink
	logger *log.Logger
}

func NewReminder(source Snapshotter, sink notify.Sink, logger *log.Logger) *Reminder {
	if logger == nil {
		logger = log.Default(log.ComponentReminder)
	}
	return &Reminder{
		source: source,
		sink:   sink,
		logger: logger.WithComponent(log.ComponentReminder),
	}
}

// Check decides on a notification for today and delivers it. The returned
// notification is the one decided, whether or not delivery succeeded.
func (r *Reminder) Check(ctx context.Context, today time.Time) (notify.Notification, bool) {
	n, ok := Decide(r.source.List(), today)
	if !ok {
		r.logger.DebugContext(ctx, "Nothing to remind")
		return n, false
	}
	if r.sink == nil {
		return n, true
	}

	if err := r.sink.Notify(ctx, n); err != nil {
		r.logger.WarnContext(ctx, "Failed to deliver reminder",
			log.FieldOperation, log.OpNotify,
			log.FieldUrgency, n.Urgency,
			log.FieldCount, n.Count,
			log.FieldError, err)
	}
	return n, true
}
