package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/o-vuong/doggo-hotel/jobs"
)

var errSweepFailed = errors.New("job finished with an error, see logs")

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one background job now and exit",
}

func sweepCommand(use, short string, run func(r *jobs.Runner, ctx context.Context) string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			runner := &jobs.Runner{
				Overstay:  app.Overstay,
				Payments:  app.Payments,
				Reminders: app.Reminders,
				Logger:    app.Logger,
			}
			outcome := run(runner, ctx)
			cmd.Printf("%s: %s\n", use, outcome)
			if outcome == jobs.OutcomeError {
				return errSweepFailed
			}
			return nil
		},
	}
}

func init() {
	sweepCmd.AddCommand(
		sweepCommand("overstay", "Flag overdue reservations and escalate contact", (*jobs.Runner).RunOverstaySweep),
		sweepCommand("payments", "Retry due and deferred payments", (*jobs.Runner).RunPaymentRetry),
		sweepCommand("reminders", "Remind owners of deferred payments due within 24h", (*jobs.Runner).RunPaymentReminders),
	)
	rootCmd.AddCommand(sweepCmd)
}
