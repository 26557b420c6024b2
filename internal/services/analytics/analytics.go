// Package analytics provides portfolio breakdowns over the holdings ledger.
// Weights are computed from investment size since the ledger carries no
// market prices.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/findosh/stockpulse/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Service provides ledger calculations
type Service struct{}

// NewService creates a new analytics service
func NewService() *Service {
	return &Service{}
}

// AllocationSlice is the share of invested capital held in one bucket
type AllocationSlice struct {
	Name     string          `json:"name"`
	Invested decimal.Decimal `json:"invested"`
	Percent  decimal.Decimal `json:"percent"`
	Count    int             `json:"count"`
}

// AllocationSummary breaks the ledger down by ticker and by source
type AllocationSummary struct {
	TotalInvested decimal.Decimal   `json:"total_invested"`
	ByTicker      []AllocationSlice `json:"by_ticker"`
	BySource      []AllocationSlice `json:"by_source"`
	Unpriced      []string          `json:"unpriced"`
}

// CalculateAllocation aggregates investment size per ticker (across
// sources) and per source. Slices are sorted largest first; holdings
// without an investment size are listed in Unpriced.
func (s *Service) CalculateAllocation(ledger models.Ledger) *AllocationSummary {
	summary := &AllocationSummary{
		TotalInvested: ledger.TotalInvested(),
		ByTicker:      []AllocationSlice{},
		BySource:      []AllocationSlice{},
		Unpriced:      []string{},
	}

	tickers := make(map[string]*AllocationSlice)
	sources := make(map[string]*AllocationSlice)
	var tickerOrder, sourceOrder []string
	unpriced := make(map[string]bool)

	for _, h := range ledger {
		if h.Ticker == "" {
			continue
		}
		// Aggregate same ticker across sources
		t, ok := tickers[h.Ticker]
		if !ok {
			t = &AllocationSlice{Name: h.Ticker}
			tickers[h.Ticker] = t
			tickerOrder = append(tickerOrder, h.Ticker)
		}
		t.Invested = t.Invested.Add(h.InvestmentSize)
		t.Count++

		src := models.NormalizeSource(h.Source)
		sl, ok := sources[src]
		if !ok {
			sl = &AllocationSlice{Name: src}
			sources[src] = sl
			sourceOrder = append(sourceOrder, src)
		}
		sl.Invested = sl.Invested.Add(h.InvestmentSize)
		sl.Count++

		if !h.InvestmentSize.IsPositive() && !unpriced[h.Ticker] {
			unpriced[h.Ticker] = true
			summary.Unpriced = append(summary.Unpriced, h.Ticker)
		}
	}

	summary.ByTicker = rank(tickerOrder, tickers, summary.TotalInvested)
	summary.BySource = rank(sourceOrder, sources, summary.TotalInvested)
	return summary
}

// TopHoldings returns the n largest tickers by invested amount
func (s *Service) TopHoldings(ledger models.Ledger, n int) []AllocationSlice {
	all := s.CalculateAllocation(ledger).ByTicker
	if n > 0 && len(all) > n {
		return all[:n]
	}
	return all
}

func rank(order []string, buckets map[string]*AllocationSlice, total decimal.Decimal) []AllocationSlice {
	out := make([]AllocationSlice, 0, len(order))
	for _, name := range order {
		sl := *buckets[name]
		if total.IsPositive() {
			sl.Percent = sl.Invested.Div(total).Mul(hundred).Round(2)
		}
		out = append(out, sl)
	}
	// Stable so equal weights keep first-seen order
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Invested.GreaterThan(out[j].Invested)
	})
	return out
}
