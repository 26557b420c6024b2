package models

import (
	"time"

	"github.com/google/uuid"
)

// PriceMovement is one row of the price section, values shown verbatim
type PriceMovement struct {
	Ticker        string `json:"ticker"`
	CompanyName   string `json:"company_name"`
	CurrentPrice  string `json:"current_price"`
	PriceChange   string `json:"price_change"`
	PercentChange string `json:"percent_change"`
	Volume        string `json:"volume"`
}

// SentimentItem summarizes news sentiment for a ticker
type SentimentItem struct {
	Ticker         string `json:"ticker"`
	Sentiment      string `json:"sentiment"`
	KeyNews        string `json:"key_news"`
	AnalystOutlook string `json:"analyst_outlook"`
}

// TechnicalIndicator holds indicator values computed by the agent
type TechnicalIndicator struct {
	Ticker           string `json:"ticker"`
	RSI              string `json:"rsi"`
	MACDStatus       string `json:"macd_status"`
	SMA50            string `json:"sma_50"`
	SMA200           string `json:"sma_200"`
	Support          string `json:"support"`
	Resistance       string `json:"resistance"`
	TechnicalOutlook string `json:"technical_outlook"`
}

// Recommendation is the agent's suggested action for a ticker
type Recommendation struct {
	Ticker    string `json:"ticker"`
	Action    string `json:"action"`
	Reasoning string `json:"reasoning"`
	RiskLevel string `json:"risk_level"`
}

// Report is an immutable analysis snapshot produced by the coordinator agent
type Report struct {
	ReportDate          string               `json:"report_date"`
	ExecutiveSummary    string               `json:"executive_summary"`
	PortfolioHealth     string               `json:"portfolio_health"`
	PriceMovements      []PriceMovement      `json:"price_movements"`
	SentimentAnalysis   []SentimentItem      `json:"sentiment_analysis"`
	TechnicalIndicators []TechnicalIndicator `json:"technical_indicators"`
	Recommendations     []Recommendation     `json:"recommendations"`
	RiskAssessment      string               `json:"risk_assessment"`
	MarketOverview      string               `json:"market_overview"`
	GeneratedAt         time.Time            `json:"generated_at"`
}

// Normalized replaces missing sections with empty lists
func (r Report) Normalized() Report {
	if r.PriceMovements == nil {
		r.PriceMovements = []PriceMovement{}
	}
	if r.SentimentAnalysis == nil {
		r.SentimentAnalysis = []SentimentItem{}
	}
	if r.TechnicalIndicators == nil {
		r.TechnicalIndicators = []TechnicalIndicator{}
	}
	if r.Recommendations == nil {
		r.Recommendations = []Recommendation{}
	}
	return r
}

// HistoryLimit bounds the number of stored reports
const HistoryLimit = 50

// HistoryEntry is a stored report
type HistoryEntry struct {
	ID          string    `json:"id"`
	Report      Report    `json:"report"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewHistoryEntry wraps a report with a fresh id
func NewHistoryEntry(r Report) HistoryEntry {
	return HistoryEntry{
		ID:          uuid.New().String(),
		Report:      r,
		GeneratedAt: r.GeneratedAt,
	}
}

// History is the newest-first list of generated reports
type History []HistoryEntry

// Insert returns a new history with the entry first, keeping at most limit entries
func (h History) Insert(e HistoryEntry, limit int) History {
	if limit <= 0 {
		limit = HistoryLimit
	}
	out := make(History, 0, len(h)+1)
	out = append(out, e)
	out = append(out, h...)
	return out.Truncate(limit)
}

// Truncate drops the oldest entries beyond limit
func (h History) Truncate(limit int) History {
	if limit > 0 && len(h) > limit {
		return h[:limit]
	}
	return h
}

// Find looks up an entry by id
func (h History) Find(id string) (HistoryEntry, bool) {
	for _, e := range h {
		if e.ID == id {
			return e, true
		}
	}
	return HistoryEntry{}, false
}

