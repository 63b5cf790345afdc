package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var errSchedulerNotConfigured = errors.New("scheduler not configured")

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Background maintenance",
}

var schedulerRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the periodic markov sweep until interrupted",
	Long: `Run the markov sweep in the foreground every sweep.interval while
scheduler.enabled is true. The countdown survives restarts.`,
	Args: cobra.NoArgs,
	RunE: runScheduler,
}

var schedulerHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent scheduled sweeps",
	Args:  cobra.NoArgs,
	RunE:  runSchedulerHistory,
}

func init() {
	schedulerHistoryCmd.Flags().IntP("limit", "n", 10, "number of runs to show")

	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerHistoryCmd)
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errSchedulerNotConfigured
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Println("Scheduler running. Press Ctrl+C to stop.")

	err := scheduler.Start(ctx)
	if stopErr := scheduler.Stop(); stopErr != nil && err == nil {
		err = stopErr
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err == nil {
		cmd.Println("Scheduler stopped.")
	}
	return err
}

func runSchedulerHistory(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errSchedulerNotConfigured
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	runs, err := scheduler.History(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		cmd.Println("No scheduled sweeps yet.")
		return nil
	}

	for _, run := range runs {
		status := "ok"
		if !run.Succeeded() {
			status = "failed: " + run.Error
		}
		cmd.Printf("%s  %d source(s), %d group(s), %d failure(s)  %s  %s\n",
			run.StartedAt.Local().Format(time.DateTime),
			run.SourcesUpdated, run.GroupsUpdated, run.Failures,
			run.EndedAt.Sub(run.StartedAt).Round(time.Millisecond), status)
	}
	return nil
}
