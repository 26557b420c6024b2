package report

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/findosh/stockpulse/internal/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func sampleLedger() models.Ledger {
	return models.Ledger{}.Merge([]models.Holding{
		models.NewHolding("AAPL", decimal.NewFromInt(10), decimal.NewFromInt(175), decimal.NewFromInt(1750), "Manual"),
		models.NewHolding("TSLA", decimal.NewFromInt(5), decimal.NewFromInt(240), decimal.Zero, "Manual"),
		models.NewHolding("VOD.L", decimal.NewFromInt(100), decimal.RequireFromString("1.2"), decimal.Zero, "Trading212"),
	})
}

func TestBuildPortfolioContext_Empty(t *testing.T) {
	if got := BuildPortfolioContext(models.Ledger{}); got != "" {
		t.Errorf("Expected empty context, got %q", got)
	}
}

func TestBuildPortfolioContext(t *testing.T) {
	got := BuildPortfolioContext(sampleLedger())

	expected := "PORTFOLIO CONTEXT (total invested: $3,070.00 across 3 holdings):\n" +
		"- Manual (subtotal $2,950.00): 10 shares of AAPL @ $175.00 (invested $1,750.00); 5 shares of TSLA @ $240.00 (invested $1,200.00)\n" +
		"- Trading212 (subtotal $120.00): 100 shares of VOD.L @ $1.20 (invested $120.00)\n" +
		contextInstruction
	if got != expected {
		t.Errorf("Unexpected context:\n%s\nexpected:\n%s", got, expected)
	}
}

func TestBuildPortfolioContext_UnknownPrice(t *testing.T) {
	l := models.Ledger{models.NewHolding("NVDA", decimal.NewFromInt(3), decimal.Zero, decimal.Zero, "")}

	got := BuildPortfolioContext(l)

	if !strings.Contains(got, "3 shares of NVDA (invested $0.00)") {
		t.Errorf("Expected holding without price, got %q", got)
	}
}

func TestReportMessage(t *testing.T) {
	msg := ReportMessage(nil, models.Ledger{})
	if !strings.Contains(msg, "AAPL, TSLA, NVDA, MSFT, GOOGL") {
		t.Errorf("Expected default tickers, got %q", msg)
	}
	if strings.Contains(msg, "PORTFOLIO CONTEXT") {
		t.Error("Expected no context for empty ledger")
	}

	ledger := sampleLedger()
	msg = ReportMessage(ledger.Watchlist(), ledger)
	if !strings.Contains(msg, "AAPL, TSLA, VOD.L.") || !strings.Contains(msg, "\n\nPORTFOLIO CONTEXT") {
		t.Errorf("Unexpected message %q", msg)
	}
}

func TestScheduleMessage(t *testing.T) {
	msg := ScheduleMessage([]string{"MSFT"}, "me@example.com", models.Ledger{})

	if !strings.Contains(msg, "send the report via email to me@example.com") {
		t.Errorf("Expected email instruction, got %q", msg)
	}
}

var (
	totalPattern    = regexp.MustCompile(`total invested: \$([0-9,]+\.[0-9]{2})`)
	subtotalPattern = regexp.MustCompile(`subtotal \$([0-9,]+\.[0-9]{2})`)
)

func printed(s string) decimal.Decimal {
	return decimal.RequireFromString(strings.ReplaceAll(s, ",", ""))
}

// Property: printed subtotals add up to the printed total, to the cent
func TestProperty_ContextSubtotalsMatchTotal(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	holdingGen := gopter.CombineGens(
		gen.OneConstOf("AAPL", "TSLA", "NVDA", "MSFT", "VOD.L"),
		gen.Int64Range(0, 1000000000),
		gen.OneConstOf("Manual", "Trading212", "Schwab", "eToro"),
	).Map(func(v []interface{}) models.Holding {
		// three decimals so rounding to the cent matters
		size := decimal.New(v[1].(int64), -3)
		return models.NewHolding(v[0].(string), decimal.NewFromInt(1), decimal.Zero, size, v[2].(string))
	})

	properties.Property("sum(subtotals) == total", prop.ForAll(
		func(batch []models.Holding) bool {
			ledger := models.Ledger{}.Merge(batch)
			text := BuildPortfolioContext(ledger)
			if len(ledger) == 0 {
				return text == ""
			}

			m := totalPattern.FindStringSubmatch(text)
			if m == nil {
				return false
			}
			sum := decimal.Zero
			for _, sub := range subtotalPattern.FindAllStringSubmatch(text, -1) {
				sum = sum.Add(printed(sub[1]))
			}
			return sum.Equal(printed(m[1]))
		},
		gen.SliceOf(holdingGen),
	))

	properties.TestingRun(t)
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"3070", "$3,070.00"},
		{"1.205", "$1.21"},
		{"0", "$0.00"},
	}
	for _, tt := range tests {
		if got := FormatUSD(decimal.RequireFromString(tt.in)); got != tt.expected {
			t.Errorf("FormatUSD(%s): expected %s, got %s", tt.in, tt.expected, got)
		}
	}
}
