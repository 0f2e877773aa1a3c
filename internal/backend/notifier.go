package backend

import (
	"fmt"
	"log/slog"

	"smartpay/internal/amqp"
	"smartpay/internal/config"
	"smartpay/internal/notify"
)

// NewNotifier builds the reminder sink: a log sink, plus an AMQP publisher when
// a broker URL is configured. An unreachable broker is logged and skipped.
func NewNotifier(cfg *config.Config, logger *slog.Logger) (notify.Sink, CleanupFunc) {
	if logger == nil {
		logger = slog.Default()
	}

	sinks := notify.Fanout{notify.NewLogSink(logger)}
	if cfg == nil || !cfg.AMQPEnabled() {
		return sinks, nil
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, continuing without broker", "error", err)
		return sinks, nil
	}

	logger.Info("Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	return append(sinks, client), func() error {
		if err := client.Close(); err != nil {
			return fmt.Errorf("close amqp: %w", err)
		}
		return nil
	}
}
