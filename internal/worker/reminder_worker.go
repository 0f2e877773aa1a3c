package worker

import (
	"context"
	"time"

	"smartpay/internal/log"
	"smartpay/internal/notify"
)

// DefaultInterval is how often reminders are re-evaluated.
const DefaultInterval = time.Hour

// Checker evaluates and delivers the reminder for a given day.
type Checker interface {
	Check(ctx context.Context, today time.Time) (notify.Notification, bool)
}

// ReminderWorker re-runs the reminder check on a fixed interval so a long
// running process notices when a due date arrives.
type ReminderWorker struct {
	checker  Checker
	interval time.Duration
	now      func() time.Time
	logger   *log.Logger
}

func NewReminderWorker(checker Checker, interval time.Duration, logger *log.Logger) *ReminderWorker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = log.Default(log.ComponentWorker)
	}
	return &ReminderWorker{
		checker:  checker,
		interval: interval,
		now:      time.Now,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// Run checks once immediately, then on every tick until ctx is cancelled.
func (w *ReminderWorker) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Reminder worker started", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Reminder worker stopping", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *ReminderWorker) tick(ctx context.Context) {
	n, ok := w.checker.Check(ctx, w.now())
	if ok {
		w.logger.DebugContext(ctx, "Reminder raised",
			log.FieldUrgency, n.Urgency,
			log.FieldCount, n.Count)
	}
}
