package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/findosh/stockpulse/internal/app"
	"github.com/findosh/stockpulse/internal/models"
	"github.com/findosh/stockpulse/internal/services/report"
)

func newReportCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate and browse analysis reports",
	}
	cmd.PersistentFlags().String("format", "terminal", "output format: terminal, markdown or html")
	cmd.PersistentFlags().String("style", "", "glamour style for terminal output (default: auto)")

	cmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Ask the coordinator agent for a fresh report",
		Long: `Generate a report for the current watchlist.

The report is added to history and, when a delivery email is saved, sent
through the delivery agent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := a.Open(cmd.Context()); err != nil {
				return err
			}

			if !output.IsJSON() {
				output.Info("%s", app.LoadingMessages[0])
			}
			out, err := a.Controller.GenerateReport(cmd.Context())
			if err != nil {
				printStatus(output, a.Controller.Statuses()[app.AreaReport])
				return err
			}
			if output.IsJSON() {
				return output.JSON(out)
			}
			if err := writeReport(cmd, out.Entry.Report); err != nil {
				return err
			}
			printStatus(output, a.Controller.Statuses()[app.AreaReport])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [id]",
		Short: "Show the current report or a stored one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := a.Open(cmd.Context()); err != nil {
				return err
			}

			var r models.Report
			if len(args) == 1 {
				entry, err := a.Controller.HistoryEntry(args[0])
				if err != nil {
					output.Error("%v", err)
					return err
				}
				r = entry.Report
			} else {
				current, ok := a.Controller.CurrentReport()
				if !ok {
					output.Dim("No report generated yet. Run 'stockpulse report generate'.")
					return nil
				}
				r = current
			}

			if output.IsJSON() {
				return output.JSON(r)
			}
			return writeReport(cmd, r)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sample",
		Short: "Show the built-in example report",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(models.SampleReport())
			}
			return writeReport(cmd, models.SampleReport())
		},
	})

	history := &cobra.Command{
		Use:   "history",
		Short: "List stored reports, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := a.Open(cmd.Context()); err != nil {
				return err
			}

			if clearAll, _ := cmd.Flags().GetBool("clear"); clearAll {
				if err := a.Controller.ClearHistory(); err != nil {
					return err
				}
				output.Success("History cleared")
				return nil
			}

			entries := a.Controller.History()
			if output.IsJSON() {
				return output.JSON(entries)
			}
			if len(entries) == 0 {
				output.Dim("No reports in history")
				return nil
			}
			for _, e := range entries {
				output.Printf("%s  %s  %s\n", e.ID, e.GeneratedAt.Local().Format("2006-01-02 15:04"), summaryLine(e.Report.ExecutiveSummary))
			}
			return nil
		},
	}
	history.Flags().Bool("clear", false, "delete every stored report")
	cmd.AddCommand(history)

	return cmd
}

func writeReport(cmd *cobra.Command, r models.Report) error {
	format, _ := cmd.Flags().GetString("format")
	w := cmd.OutOrStdout()

	switch format {
	case "markdown", "md":
		_, err := fmt.Fprint(w, report.Markdown(r))
		return err
	case "html":
		page, err := report.RenderHTML(r)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, page)
		return err
	case "", "terminal":
		style, _ := cmd.Flags().GetString("style")
		out, err := report.RenderTerminal(r, style, terminalWidth())
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, out)
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}

func summaryLine(s string) string {
	s = strings.TrimSpace(strings.SplitN(s, "\n", 2)[0])
	if len(s) > 80 {
		return s[:77] + "..."
	}
	return s
}

func terminalWidth() int {
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 20 {
		return cols - 2
	}
	return 100
}
