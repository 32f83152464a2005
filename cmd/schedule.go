package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/aicred/internal/scheduler"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the daily Knowledge Fusion Score recompute until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		at, _ := cmd.Flags().GetString("at")
		now, _ := cmd.Flags().GetBool("now")
		if at == "" {
			at = appConfig.Schedule.At
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		sched, err := scheduler.New(e.dashboard(), at, appConfig.Schedule.Location)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if now {
			if err := sched.RunOnce(ctx); err != nil {
				return fmt.Errorf("recompute: %w", err)
			}
		}
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()

		fmt.Fprintf(e.out, "Next run at %s. Press Ctrl+C to stop.\n", sched.NextRun().Format("2006-01-02 15:04 MST"))
		<-ctx.Done()
		return nil
	},
}

func init() {
	scheduleCmd.Flags().String("at", "", "Daily run time as HH:MM (default AICRED_SCHEDULE_AT or 23:55)")
	scheduleCmd.Flags().Bool("now", false, "Also recompute once immediately")
}
