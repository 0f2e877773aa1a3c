package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"smartpay/internal/cli"
	apphttp "smartpay/internal/http"
	"smartpay/internal/log"
	"smartpay/internal/worker"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup always happens.
func run() int {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		log.Default(log.ComponentApp).Error("Configuration validation failed", log.FieldError, err)
		return 1
	}

	logger := cli.SetupLogger(cfg.LogLevel)

	ctx, cancel := cli.ShutdownContext(context.Background(), logger)
	defer cancel()

	app, err := cli.OpenApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage", log.FieldBackend, cfg.DataBackend, log.FieldError, err)
		return 1
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Failed to release resources", log.FieldError, err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Options{
		Service:  app.Service,
		Reminder: app.Reminder,
		Access:   &app.Access,
		Board:    app.Board,
		Logger:   logger.WithComponent(log.ComponentHTTP),
	})

	reminders := worker.NewReminderWorker(app.Reminder, cfg.ReminderInterval, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting smartpay server",
			"port", cfg.Port,
			log.FieldBackend, cfg.DataBackend,
			"amqp_enabled", cfg.AMQPEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return reminders.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		return 1
	}

	logger.Info("Server stopped gracefully")
	return 0
}
