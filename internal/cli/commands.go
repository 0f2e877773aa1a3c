package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"smartpay/internal/amqp"
	"smartpay/internal/core"
	"smartpay/internal/notify"
	"smartpay/internal/services"
)

// MutationResult is printed after add, edit, pay and delete.
type MutationResult struct {
	Action   string              `json:"action" yaml:"action"`
	Payment  *services.BoardItem `json:"payment,omitempty" yaml:"payment,omitempty"`
	Saved    bool                `json:"saved" yaml:"saved"`
	Warning  string              `json:"warning,omitempty" yaml:"warning,omitempty"`
	Reminder *ReminderResult     `json:"reminder,omitempty" yaml:"reminder,omitempty"`
}

// ReminderResult is the reminder decided for the current collection.
type ReminderResult struct {
	Title   string `json:"title" yaml:"title"`
	Message string `json:"message" yaml:"message"`
	Urgency string `json:"urgency" yaml:"urgency"`
	Count   int    `json:"count" yaml:"count"`
}

func newReminderResult(n notify.Notification) *ReminderResult {
	return &ReminderResult{
		Title:   n.Title,
		Message: n.Message,
		Urgency: string(n.Urgency),
		Count:   n.Count,
	}
}

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show payments ordered by urgency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				board := services.BuildBoard(app.Service.List(), opts.Clock(), app.Board)
				return opts.formatter(cmd).Print(board, func(w io.Writer) error {
					return printBoard(w, board)
				})
			})
		},
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	var title, amount, due string

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a payment",
		Example: `  smartpay-cli add --title Rent --amount 150000 --due 2024-02-01`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkDueDate(due); err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				receipt, err := app.Service.AddIfAllowed(ctx, core.Payment{Title: title, Amount: amount, DueDate: due}, app.Access)
				if errors.Is(err, core.ErrLimitReached) {
					return WrapExitError(ExitFailure,
						fmt.Sprintf("free plan holds at most %d payments", app.Access.FreeLimit), nil)
				}
				if err != nil {
					return WrapExitError(ExitFailure, "add payment", err)
				}
				return opts.printMutation(ctx, cmd, app, "added", receipt)
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "payment title (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, digits preferred (required)")
	cmd.Flags().StringVar(&due, "due", "", "due date YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

// NewEditCommand creates the edit command. Omitted flags keep the current value.
func NewEditCommand(opts *RootOptions) *cobra.Command {
	var title, amount, due string

	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Change title, amount or due date of a payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("due") {
				if err := checkDueDate(due); err != nil {
					return err
				}
			}
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				items := app.Service.List()
				if index >= len(items) {
					return indexFailure("edit payment", &core.IndexError{Index: index, Len: len(items)})
				}

				next := items[index]
				if cmd.Flags().Changed("title") {
					next.Title = title
				}
				if cmd.Flags().Changed("amount") {
					next.Amount = amount
				}
				if cmd.Flags().Changed("due") {
					next.DueDate = due
				}

				receipt, err := app.Service.Update(ctx, index, next)
				if err != nil {
					return indexFailure("edit payment", err)
				}
				return opts.printMutation(ctx, cmd, app, "updated", receipt)
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&due, "due", "", "new due date YYYY-MM-DD")

	return cmd
}

// NewPayCommand creates the pay command.
func NewPayCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pay <index>",
		Short: "Mark a payment as paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				receipt, err := app.Service.MarkPaid(ctx, index)
				if err != nil {
					return indexFailure("mark paid", err)
				}
				return opts.printMutation(ctx, cmd, app, "paid", receipt)
			})
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <index>",
		Aliases: []string{"rm"},
		Short:   "Remove a payment",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				receipt, err := app.Service.Delete(ctx, index)
				if err != nil {
					return indexFailure("delete payment", err)
				}
				return opts.printMutation(ctx, cmd, app, "deleted", receipt)
			})
		},
	}
}

// NewCheckCommand creates the check command, which raises the reminder for today.
func NewCheckCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Decide and deliver today's reminder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				var result *ReminderResult
				if n, ok := app.Reminder.Check(ctx, opts.Clock()); ok {
					result = newReminderResult(n)
				}
				return opts.formatter(cmd).Print(result, func(w io.Writer) error {
					if result == nil {
						_, err := fmt.Fprintln(w, "Nothing to remind")
						return err
					}
					return printReminder(w, result)
				})
			})
		},
	}
}

// NewWatchCommand creates the watch command, which prints reminders published
// by the server until interrupted.
func NewWatchCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print reminders from the message broker as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				if !app.Config.AMQPEnabled() {
					return WrapExitError(ExitCommandError, "watch needs AMQP_URL to be set", nil)
				}

				client, err := amqp.NewClient(app.Config.AMQPURL, app.Config.AMQPExchange, app.Config.AMQPQueue)
				if err != nil {
					return WrapExitError(ExitCommandError, "connect to broker", err)
				}
				defer client.Close()

				ctx, cancel := ShutdownContext(ctx, app.Logger)
				defer cancel()

				out := opts.formatter(cmd)
				out.VerboseLog("Waiting for reminders on %s", app.Config.AMQPQueue)
				err = client.ConsumeNotifications(ctx, func(msg *amqp.NotificationMessage) error {
					result := newReminderResult(msg.Notification())
					return out.Print(result, func(w io.Writer) error {
						return printReminder(w, result)
					})
				})
				if err != nil && !errors.Is(err, context.Canceled) {
					return WrapExitError(ExitFailure, "consume reminders", err)
				}
				return nil
			})
		},
	}
}

// printMutation reports a mutation, its persistence outcome and the reminder
// it leaves behind.
func (o *RootOptions) printMutation(ctx context.Context, cmd *cobra.Command, app *App, action string, r services.Receipt) error {
	now := o.Clock()
	out := o.formatter(cmd)

	result := MutationResult{Action: action, Saved: r.Saved}
	if p, err := app.Service.Get(r.ID); err == nil {
		idx, _ := app.Service.IndexOf(r.ID)
		item := services.NewBoardItem(p, idx, now, app.Board)
		result.Payment = &item
	}
	if r.SaveErr != nil {
		result.Warning = fmt.Sprintf("change kept in memory only: %v", r.SaveErr)
		out.Warn("%s", result.Warning)
	}
	if n, ok := app.Reminder.Check(ctx, now); ok {
		result.Reminder = newReminderResult(n)
	}

	return out.Print(result, func(w io.Writer) error {
		if result.Payment != nil {
			fmt.Fprintf(w, "%s [%d] %s  %s  %s  %s\n", action, result.Payment.Index,
				result.Payment.Title, result.Payment.AmountDisplay, result.Payment.DueDate, result.Payment.Label)
		} else {
			fmt.Fprintf(w, "%s\n", action)
		}
		if result.Reminder != nil {
			return printReminder(w, result.Reminder)
		}
		return nil
	})
}

func printBoard(w io.Writer, board services.Board) error {
	if len(board.Items) == 0 {
		_, err := fmt.Fprintln(w, "No payments")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tAMOUNT\tDUE\tSTATUS")
	for _, item := range board.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			item.Index, item.Title, item.AmountDisplay, item.DueDate, item.Label)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d payments, %d unpaid\n", board.Total, board.Unpaid)
	return err
}

func printReminder(w io.Writer, r *ReminderResult) error {
	_, err := fmt.Fprintf(w, "[%s] %s: %s\n", r.Urgency, r.Title, r.Message)
	return err
}

func parseIndex(raw string) (int, error) {
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, WrapExitError(ExitFailure, fmt.Sprintf("invalid index %q", raw), nil)
	}
	return index, nil
}

func checkDueDate(due string) error {
	if _, err := core.ParseDate(due); err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("invalid due date %q, want YYYY-MM-DD", due), nil)
	}
	return nil
}

func indexFailure(action string, err error) error {
	if errors.Is(err, core.ErrStaleIndex) {
		return WrapExitError(ExitFailure, action+": index no longer exists, run list again", err)
	}
	return WrapExitError(ExitFailure, action, err)
}
