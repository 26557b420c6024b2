package models

import (
	"github.com/shopspring/decimal"
)

// DefaultTickers is the watchlist used while the ledger is empty
var DefaultTickers = []string{"AAPL", "TSLA", "NVDA", "MSFT", "GOOGL"}

// Ledger is the full collection of holdings across all sources.
// Duplicates by (ticker, source) are prevented by Merge, not by the type.
type Ledger []Holding

// Merge combines the ledger with an incoming batch and returns a new ledger.
// A holding whose (ticker, source) already exists replaces that entry in
// place; anything else is appended. Neither input is modified.
func (l Ledger) Merge(batch []Holding) Ledger {
	result := l.Clone()

	for _, in := range batch {
		in.Source = NormalizeSource(in.Source)
		if idx := result.indexOf(in.Key()); idx >= 0 {
			result[idx] = in
			continue
		}
		result = append(result, in)
	}

	return result
}

// Remove returns a new ledger without the (ticker, source) position
func (l Ledger) Remove(ticker, source string) Ledger {
	key := HoldingKey{Ticker: NormalizeTicker(ticker), Source: NormalizeSource(source)}
	result := make(Ledger, 0, len(l))
	for _, h := range l {
		if h.Key() == key {
			continue
		}
		result = append(result, h)
	}
	return result
}

// Clone returns a copy that can be modified independently
func (l Ledger) Clone() Ledger {
	if l == nil {
		return Ledger{}
	}
	out := make(Ledger, len(l))
	copy(out, l)
	return out
}

// Tickers returns the de-duplicated tickers in first-seen order
func (l Ledger) Tickers() []string {
	seen := make(map[string]bool, len(l))
	tickers := make([]string, 0, len(l))
	for _, h := range l {
		if h.Ticker == "" || seen[h.Ticker] {
			continue
		}
		seen[h.Ticker] = true
		tickers = append(tickers, h.Ticker)
	}
	return tickers
}

// Watchlist returns the ledger tickers, or the default list when empty
func (l Ledger) Watchlist() []string {
	tickers := l.Tickers()
	if len(tickers) == 0 {
		out := make([]string, len(DefaultTickers))
		copy(out, DefaultTickers)
		return out
	}
	return tickers
}

// TotalInvested sums the investment size of every holding
func (l Ledger) TotalInvested() decimal.Decimal {
	total := decimal.Zero
	for _, h := range l {
		total = total.Add(h.InvestmentSize)
	}
	return total
}

// SourceGroup is the subset of a ledger attributed to one source
type SourceGroup struct {
	Source   string    `json:"source"`
	Holdings []Holding `json:"holdings"`
}

// GroupBySource groups holdings by source in first-seen order
func (l Ledger) GroupBySource() []SourceGroup {
	index := make(map[string]int)
	var groups []SourceGroup
	for _, h := range l {
		src := NormalizeSource(h.Source)
		i, ok := index[src]
		if !ok {
			i = len(groups)
			index[src] = i
			groups = append(groups, SourceGroup{Source: src})
		}
		groups[i].Holdings = append(groups[i].Holdings, h)
	}
	return groups
}

func (l Ledger) indexOf(key HoldingKey) int {
	for i, h := range l {
		if h.Key() == key {
			return i
		}
	}
	return -1
}
