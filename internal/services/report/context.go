// Package report builds agent requests from the ledger, turns agent output
// into reports and renders them
package report

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/findosh/stockpulse/internal/models"
	"github.com/shopspring/decimal"
)

const contextInstruction = "Please factor in the acquisition prices above when assessing unrealized gain/loss and when forming recommendations for each holding."

// BuildPortfolioContext describes the ledger grouped by source for the
// coordinator agent. Amounts are summed in whole cents so the printed
// subtotals always add up to the printed total. Empty ledger, empty string.
func BuildPortfolioContext(ledger models.Ledger) string {
	if len(ledger) == 0 {
		return ""
	}

	groups := ledger.GroupBySource()
	lines := make([]string, 0, len(groups))
	var total int64

	for _, g := range groups {
		var subtotal int64
		parts := make([]string, 0, len(g.Holdings))
		for _, h := range g.Holdings {
			invested := cents(h.InvestmentSize)
			subtotal += invested
			parts = append(parts, describeHolding(h, invested))
		}
		total += subtotal
		lines = append(lines, fmt.Sprintf("- %s (subtotal %s): %s", g.Source, usd(subtotal), strings.Join(parts, "; ")))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "PORTFOLIO CONTEXT (total invested: %s across %d holdings):\n", usd(total), len(ledger))
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(contextInstruction)
	return b.String()
}

func describeHolding(h models.Holding, invested int64) string {
	if h.AcquisitionPrice.IsPositive() {
		return fmt.Sprintf("%s shares of %s @ %s (invested %s)", h.Shares.String(), h.Ticker, usd(cents(h.AcquisitionPrice)), usd(invested))
	}
	return fmt.Sprintf("%s shares of %s (invested %s)", h.Shares.String(), h.Ticker, usd(invested))
}

var hundred = decimal.NewFromInt(100)

func cents(d decimal.Decimal) int64 {
	return d.Round(2).Mul(hundred).IntPart()
}

func usd(c int64) string {
	return money.New(c, money.USD).Display()
}

// FormatUSD displays an amount the way the portfolio context does
func FormatUSD(d decimal.Decimal) string {
	return usd(cents(d))
}
