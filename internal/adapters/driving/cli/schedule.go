package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pvflow/internal/core/domain"
)

var scheduleLimit int

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Inspect background tasks",
	Long: `Background tasks run while "pvflow serve" is running: the forecast is
refreshed periodically and old forecast periods are pruned daily.`,
}

var scheduleStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show scheduled tasks",
	Args:  cobra.NoArgs,
	RunE:  runScheduleStatus,
}

var scheduleHistoryCmd = &cobra.Command{
	Use:   "history <task-id>",
	Short: "Show recent runs of a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runScheduleHistory,
}

func init() {
	scheduleHistoryCmd.Flags().IntVarP(&scheduleLimit, "limit", "n", 10, "maximum number of runs")
	scheduleCmd.AddCommand(scheduleStatusCmd)
	scheduleCmd.AddCommand(scheduleHistoryCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(time.DateTime)
}

func runScheduleStatus(cmd *cobra.Command, _ []string) error {
	if err := requireService(scheduleStatus != nil, "scheduler"); err != nil {
		return err
	}

	tasks, err := scheduleStatus.Tasks(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing tasks failed: %w", err)
	}
	if len(tasks) == 0 {
		cmd.Println(`No tasks yet. They are created when "pvflow serve" starts.`)
		return nil
	}

	rows := make([][]string, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		status := "ok"
		switch {
		case !t.Enabled:
			status = "disabled"
		case t.LastError != "":
			status = "error: " + t.LastError
		case t.LastRun.IsZero():
			status = "pending"
		}
		rows[i] = []string{t.ID, t.Interval.String(), formatTime(t.LastRun), formatTime(t.NextRun), status}
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Task", "Every", "Last run", "Next run", "Status"}, rows))
	return nil
}

func runScheduleHistory(cmd *cobra.Command, args []string) error {
	if err := requireService(scheduleStatus != nil, "scheduler"); err != nil {
		return err
	}

	taskID := args[0]
	results, err := scheduleStatus.History(cmd.Context(), taskID, scheduleLimit)
	if err != nil {
		return fmt.Errorf("task history failed: %w", err)
	}
	if len(results) == 0 {
		cmd.Printf("No runs recorded for %s.\n", domain.TaskName(taskID))
		return nil
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		outcome := "ok"
		if !r.Success {
			outcome = "failed: " + r.Error
		}
		rows[i] = []string{
			formatTime(r.StartedAt),
			r.EndedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
			fmt.Sprintf("%d", r.ItemsProcessed),
			outcome,
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(domain.TaskName(taskID)))
	fmt.Fprintln(out, renderTable([]string{"Started", "Took", "Items", "Outcome"}, rows, 2))
	return nil
}
