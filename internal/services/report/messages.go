package report

import (
	"fmt"
	"strings"

	"github.com/findosh/stockpulse/internal/models"
)

// ReportMessage is the request sent to the coordinator agent
func ReportMessage(tickers []string, ledger models.Ledger) string {
	msg := fmt.Sprintf("Generate the daily portfolio analysis report for the following stock tickers: %s. "+
		"Provide comprehensive analysis covering market data, news sentiment, technical indicators, and actionable recommendations.",
		strings.Join(watchlist(tickers), ", "))
	return withContext(msg, ledger)
}

// ScheduleMessage is the payload the scheduler sends to the coordinator on each run
func ScheduleMessage(tickers []string, email string, ledger models.Ledger) string {
	msg := fmt.Sprintf("Generate the daily portfolio analysis report for the following stock tickers: %s. "+
		"Provide comprehensive analysis and send the report via email to %s.",
		strings.Join(watchlist(tickers), ", "), email)
	return withContext(msg, ledger)
}

// DeliveryMessage asks the delivery agent to email a finished report
func DeliveryMessage(email, reportJSON string) string {
	return fmt.Sprintf("Send the following portfolio analysis report via email to %s:\n\n%s", email, reportJSON)
}

func watchlist(tickers []string) []string {
	if len(tickers) == 0 {
		return models.DefaultTickers
	}
	return tickers
}

func withContext(msg string, ledger models.Ledger) string {
	if ctx := BuildPortfolioContext(ledger); ctx != "" {
		return msg + "\n\n" + ctx
	}
	return msg
}
