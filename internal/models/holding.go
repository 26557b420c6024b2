package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultSource is stamped onto holdings that arrive without provenance
const DefaultSource = "Manual"

// SuggestedSources lists the brokerages offered when tagging an import.
// Any other free text is accepted as a custom source.
var SuggestedSources = []string{
	"Manual",
	"Trading212",
	"Interactive Brokers",
	"Robinhood",
	"Fidelity",
	"Schwab",
	"Vanguard",
	"eToro",
	"Freetrade",
	"Hargreaves Lansdown",
	"Other",
}

// Holding represents one position in one source account
type Holding struct {
	Ticker           string          `json:"ticker"`            // e.g., "AAPL", "VOD.L"
	Shares           decimal.Decimal `json:"shares"`            // may be fractional
	AcquisitionPrice decimal.Decimal `json:"acquisition_price"` // per share, 0 = unknown
	InvestmentSize   decimal.Decimal `json:"investment_size"`   // total cost basis
	Source           string          `json:"source"`            // "Manual", "Trading212", ...
}

// NewHolding creates a holding with a derived investment size when possible
func NewHolding(ticker string, shares, price, size decimal.Decimal, source string) Holding {
	h := Holding{
		Ticker:           NormalizeTicker(ticker),
		Shares:           nonNegative(shares),
		AcquisitionPrice: nonNegative(price),
		InvestmentSize:   nonNegative(size),
		Source:           NormalizeSource(source),
	}
	h.DeriveInvestmentSize()
	return h
}

// Key returns the ledger identity of the holding
func (h Holding) Key() HoldingKey {
	return HoldingKey{Ticker: h.Ticker, Source: NormalizeSource(h.Source)}
}

// DeriveInvestmentSize fills a zero investment size from shares × price
func (h *Holding) DeriveInvestmentSize() {
	if h.InvestmentSize.IsZero() && h.Shares.IsPositive() && h.AcquisitionPrice.IsPositive() {
		h.InvestmentSize = h.Shares.Mul(h.AcquisitionPrice)
	}
}

// Equal compares holdings field by field using decimal equality
func (h Holding) Equal(o Holding) bool {
	return h.Ticker == o.Ticker &&
		h.Source == o.Source &&
		h.Shares.Equal(o.Shares) &&
		h.AcquisitionPrice.Equal(o.AcquisitionPrice) &&
		h.InvestmentSize.Equal(o.InvestmentSize)
}

// HoldingKey is the (ticker, source) identity of a holding
type HoldingKey struct {
	Ticker string
	Source string
}

// NormalizeTicker upper-cases a symbol and strips everything outside [A-Z0-9.]
func NormalizeTicker(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeSource trims a source tag and falls back to DefaultSource
func NormalizeSource(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultSource
	}
	return s
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
