package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/findosh/stockpulse/internal/app"
	"github.com/findosh/stockpulse/internal/models"
	"github.com/findosh/stockpulse/internal/services/analytics"
	"github.com/findosh/stockpulse/internal/services/importer"
	"github.com/findosh/stockpulse/internal/services/report"
)

func newImportCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import holdings from a CSV, JSON or arbitrary file",
		Long: `Import holdings into the ledger.

Modes:
  csv    ticker,shares[,price[,investment]] rows or a broker export with a header
  json   an array of holding objects, or an object with a "holdings" array
  smart  any text file; holdings are extracted by the extraction agent

Holdings with the same ticker and source replace the existing entry.`,
		Example: `  stockpulse import positions.csv --source Trading212
  stockpulse import statement.pdf.txt --mode smart --source Schwab`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			modeName, _ := cmd.Flags().GetString("mode")
			source, _ := cmd.Flags().GetString("source")

			mode, err := importer.ParseMode(modeName)
			if err != nil {
				return err
			}
			if err := a.Open(cmd.Context()); err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				output.Error("Could not open %s: %v", args[0], err)
				return err
			}
			defer f.Close()

			if mode == importer.ModeSmart {
				output.Info("Extracting holdings with the extraction agent...")
			}
			result, err := a.Controller.Import(cmd.Context(), mode, filepath.Base(args[0]), f, source)
			if err != nil {
				printStatus(output, a.Controller.Statuses()[app.AreaImport])
				return err
			}

			if output.IsJSON() {
				return output.JSON(result)
			}
			printStatus(output, a.Controller.Statuses()[app.AreaImport])
			for _, e := range result.Errors {
				output.Warning("  %s", e)
			}
			return nil
		},
	}
	cmd.Flags().String("mode", "csv", "import mode: csv, json or smart")
	cmd.Flags().String("source", models.DefaultSource, "source tag applied to imported holdings")
	return cmd
}

func newHoldingsCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holdings",
		Short: "Inspect and edit the holdings ledger",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List holdings grouped by source",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := a.Open(cmd.Context()); err != nil {
				return err
			}
			ledger := a.Controller.Ledger()
			if output.IsJSON() {
				return output.JSON(ledger)
			}
			printLedger(output, ledger)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "allocation",
		Short: "Show invested capital by ticker and source",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := a.Open(cmd.Context()); err != nil {
				return err
			}
			summary := analytics.NewService().CalculateAllocation(a.Controller.Ledger())
			if output.IsJSON() {
				return output.JSON(summary)
			}
			printAllocation(output, summary)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Write the ledger as CSV to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Open(cmd.Context()); err != nil {
				return err
			}
			return importer.ExportCSV(cmd.OutOrStdout(), a.Controller.Ledger())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "template",
		Short: "Write a sample import CSV to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return importer.WriteTemplate(cmd.OutOrStdout())
		},
	})

	add := &cobra.Command{
		Use:   "add <ticker> <shares>",
		Short: "Add or replace one holding",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			shares, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid shares %q", args[1])
			}
			draft := models.HoldingDraft{Ticker: args[0], Shares: shares}
			draft.AcquisitionPrice.Clear()
			draft.InvestmentSize.Clear()
			draft.Source, _ = cmd.Flags().GetString("source")

			if v, _ := cmd.Flags().GetString("price"); v != "" {
				d, err := decimal.NewFromString(v)
				if err != nil {
					return fmt.Errorf("invalid price %q", v)
				}
				draft.AcquisitionPrice.Set(d)
			}
			if v, _ := cmd.Flags().GetString("investment"); v != "" {
				d, err := decimal.NewFromString(v)
				if err != nil {
					return fmt.Errorf("invalid investment %q", v)
				}
				draft.InvestmentSize.Set(d)
			}
			draft.Refresh()

			if err := a.Open(cmd.Context()); err != nil {
				return err
			}
			h, err := a.Controller.AddHolding(draft)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(h)
			}
			printStatus(output, a.Controller.Statuses()[app.AreaSettings])
			return nil
		},
	}
	add.Flags().String("price", "", "acquisition price per share")
	add.Flags().String("investment", "", "total invested (defaults to shares x price)")
	add.Flags().String("source", models.DefaultSource, "source tag")
	cmd.AddCommand(add)

	remove := &cobra.Command{
		Use:   "remove <ticker>",
		Short: "Remove a holding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			source, _ := cmd.Flags().GetString("source")
			if err := a.Open(cmd.Context()); err != nil {
				return err
			}
			if err := a.Controller.RemoveHolding(args[0], source); err != nil {
				output.Error("%v", err)
				return err
			}
			output.Success("Removed %s (%s)", models.NormalizeTicker(args[0]), models.NormalizeSource(source))
			return nil
		},
	}
	remove.Flags().String("source", models.DefaultSource, "source tag")
	cmd.AddCommand(remove)

	return cmd
}

func printLedger(output *Output, ledger models.Ledger) {
	if len(ledger) == 0 {
		output.Dim("No holdings. Watching the default list: %v", ledger.Watchlist())
		return
	}

	for _, g := range ledger.GroupBySource() {
		output.Bold("%s", g.Source)
		tw := tabwriter.NewWriter(output.writer, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  TICKER\tSHARES\tPRICE\tINVESTED")
		for _, h := range g.Holdings {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", h.Ticker, h.Shares.String(), report.FormatUSD(h.AcquisitionPrice), report.FormatUSD(h.InvestmentSize))
		}
		tw.Flush()
	}
	output.Println()
	output.Printf("Total invested: %s\n", output.Green(report.FormatUSD(ledger.TotalInvested())))
}

func printAllocation(output *Output, summary *analytics.AllocationSummary) {
	for _, group := range []struct {
		title  string
		slices []analytics.AllocationSlice
	}{
		{"By ticker", summary.ByTicker},
		{"By source", summary.BySource},
	} {
		output.Bold("%s", group.title)
		tw := tabwriter.NewWriter(output.writer, 0, 0, 2, ' ', 0)
		for _, sl := range group.slices {
			fmt.Fprintf(tw, "  %s\t%s\t%s%%\n", sl.Name, report.FormatUSD(sl.Invested), sl.Percent.StringFixed(2))
		}
		tw.Flush()
	}
	if len(summary.Unpriced) > 0 {
		output.Warning("No investment size recorded for: %v", summary.Unpriced)
	}
}

func printStatus(output *Output, st app.Status) {
	if st.Text == "" {
		return
	}
	switch st.Kind {
	case app.StatusSuccess:
		output.Success("✓ %s", st.Text)
	case app.StatusError:
		output.Error("✗ %s", st.Text)
	default:
		output.Info("%s", st.Text)
	}
}
