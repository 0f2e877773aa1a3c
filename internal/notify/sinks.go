package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// LogSink writes notifications to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(ctx context.Context, n Notification) error {
	level := slog.LevelInfo
	if n.Urgency == UrgencyHigh {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, n.Title,
		"message", n.Message,
		"urgency", string(n.Urgency),
		"count", n.Count)
	return nil
}

// Fanout delivers to every sink, even when some of them fail.
type Fanout []Sink

func (f Fanout) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for i, s := range f {
		if s == nil {
			continue
		}
		if err := s.Notify(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
