package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "yaml"

	// Open builds the application; tests replace it with an in-memory app.
	Open func(ctx context.Context, opts *RootOptions) (*App, error)
	// Clock returns the current time; defaults to time.Now.
	Clock func() time.Time
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command of smartpay-cli.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	if opts == nil {
		opts = &RootOptions{}
	}
	if opts.Open == nil {
		opts.Open = openFromEnv
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	cmd := &cobra.Command{
		Use:   "smartpay-cli",
		Short: "Track bills and their due dates",
		Long: `smartpay-cli manages the list of recurring bills: add them, mark them
paid, and see which ones are overdue or due soon.

Payments are addressed by the index shown in the first column of "list".
Indices shift after a delete, so list again before the next change.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return WrapExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats), nil)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewPayCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// openFromEnv loads .env and the environment, then opens the configured app.
// Logs go to stderr so structured output on stdout stays clean.
func openFromEnv(ctx context.Context, opts *RootOptions) (*App, error) {
	LoadEnvFile()
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	} else if level == "info" {
		level = "warn"
	}
	logger := SetupLoggerTo(os.Stderr, level)

	app, err := OpenApp(ctx, cfg, logger)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open storage", err)
	}
	return app, nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// withApp opens the app for the duration of fn.
func (o *RootOptions) withApp(cmd *cobra.Command, fn func(ctx context.Context, app *App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := o.Open(ctx, o)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			o.formatter(cmd).Warn("close: %v", err)
		}
	}()
	return fn(ctx, app)
}
