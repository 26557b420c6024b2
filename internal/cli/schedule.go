package cli

import (
	"github.com/spf13/cobra"

	"github.com/findosh/stockpulse/internal/app"
	"github.com/findosh/stockpulse/internal/services/scheduler"
)

func newScheduleCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage scheduled report delivery",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the delivery schedule and recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := a.Open(cmd.Context()); err != nil {
				return err
			}
			if err := a.Controller.RefreshSchedule(cmd.Context(), false); err != nil {
				printStatus(output, a.Controller.Statuses()[app.AreaSchedule])
				return err
			}
			return printSchedule(output, a)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Pause an active schedule or resume a paused one",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := a.Open(cmd.Context()); err != nil {
				return err
			}
			if err := a.Controller.RefreshSchedule(cmd.Context(), false); err != nil {
				printStatus(output, a.Controller.Statuses()[app.AreaSchedule])
				return err
			}
			err := a.Controller.ToggleSchedule(cmd.Context())
			printStatus(output, a.Controller.Statuses()[app.AreaSchedule])
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sync-email <email>",
		Short: "Save the delivery email and update the scheduled message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := a.Open(cmd.Context()); err != nil {
				return err
			}
			if err := a.Controller.RefreshSchedule(cmd.Context(), false); err != nil {
				printStatus(output, a.Controller.Statuses()[app.AreaSchedule])
				return err
			}
			err := a.Controller.SyncEmail(cmd.Context(), args[0])
			printStatus(output, a.Controller.Statuses()[app.AreaSchedule])
			return err
		},
	})

	return cmd
}

func printSchedule(output *Output, a *App) error {
	sched, logs, id := a.Controller.Schedule()
	if output.IsJSON() {
		return output.JSON(map[string]interface{}{
			"schedule_id":    id,
			"schedule":       sched,
			"execution_logs": logs,
		})
	}
	if sched == nil {
		output.Warning("No schedule found")
		return nil
	}

	state := output.Red("paused")
	if sched.IsActive {
		state = output.Green("active")
	}
	output.Bold("Schedule %s", sched.ID)
	output.Printf("  State:    %s\n", state)
	output.Printf("  When:     %s (%s)\n", scheduler.CronToHuman(sched.CronExpression), sched.Timezone)
	if sched.NextRunTime != nil {
		output.Printf("  Next run: %s\n", sched.NextRunTime.Local().Format("2006-01-02 15:04"))
	}
	if len(logs) == 0 {
		return nil
	}
	output.Println()
	output.Bold("Recent runs")
	for _, l := range logs {
		line := l.ExecutedAt.Local().Format("2006-01-02 15:04")
		if l.Success {
			output.Success("  ✓ %s", line)
		} else {
			output.Error("  ✗ %s %s", line, l.Error)
		}
	}
	return nil
}
