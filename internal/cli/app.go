package cli

import (
	"context"
	"errors"
	"fmt"

	"smartpay/internal/backend"
	"smartpay/internal/config"
	"smartpay/internal/log"
	"smartpay/internal/notify"
	"smartpay/internal/services"
	"smartpay/internal/storage"
)

// App is the wired application shared by the server and the CLI.
type App struct {
	Config   *config.Config
	Service  *services.PaymentService
	Reminder *services.Reminder
	Access   services.AccessPolicy
	Board    services.BoardOptions
	Logger   *log.Logger

	cleanups []backend.CleanupFunc
}

// OpenApp builds the configured store and notifier and loads the collection.
func OpenApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	sink, closeSink := backend.NewNotifier(cfg, logger.Logger)

	app := NewApp(ctx, cfg, res.Store, sink, logger)
	app.cleanups = append(app.cleanups, closeSink, res.Cleanup)
	return app, nil
}

// NewApp wires an App around an existing store and sink.
func NewApp(ctx context.Context, cfg *config.Config, store storage.PaymentStore, sink notify.Sink, logger *log.Logger) *App {
	svc := services.NewPaymentService(store, logger)
	svc.Load(ctx)

	return &App{
		Config:   cfg,
		Service:  svc,
		Reminder: services.NewReminder(svc, sink, logger),
		Access:   services.NewAccessPolicy(cfg.FreeLimit),
		Board: services.BoardOptions{
			Labels:   services.LabelsFor(cfg.Locale),
			Currency: cfg.Currency,
		},
		Logger: logger,
	}
}

// Close releases the store and broker connections.
func (a *App) Close() error {
	var errs []error
	for _, fn := range a.cleanups {
		if fn == nil {
			continue
		}
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
