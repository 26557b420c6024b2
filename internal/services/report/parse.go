package report

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/findosh/stockpulse/internal/models"
	"github.com/findosh/stockpulse/internal/services/agent"
)

// ErrUnparseableResponse is returned when agent output is not a report object
var ErrUnparseableResponse = errors.New("could not parse agent response, please try again")

// ParseReport converts unwrapped agent output into a report stamped with
// receivedAt. Missing sections become empty; array elements that are not
// objects are skipped.
func ParseReport(p agent.Payload, receivedAt time.Time) (models.Report, error) {
	obj, ok := p.Object()
	if !ok {
		return models.Report{}, ErrUnparseableResponse
	}
	f := fields(obj)

	r := models.Report{
		ReportDate:       f.str("report_date"),
		ExecutiveSummary: f.str("executive_summary"),
		PortfolioHealth:  f.str("portfolio_health"),
		RiskAssessment:   f.str("risk_assessment"),
		MarketOverview:   f.str("market_overview"),
		GeneratedAt:      receivedAt.UTC(),
	}

	for _, e := range f.objects("price_movements") {
		r.PriceMovements = append(r.PriceMovements, models.PriceMovement{
			Ticker:        e.str("ticker"),
			CompanyName:   e.str("company_name"),
			CurrentPrice:  e.str("current_price"),
			PriceChange:   e.str("price_change"),
			PercentChange: e.str("percent_change"),
			Volume:        e.str("volume"),
		})
	}
	for _, e := range f.objects("sentiment_analysis") {
		r.SentimentAnalysis = append(r.SentimentAnalysis, models.SentimentItem{
			Ticker:         e.str("ticker"),
			Sentiment:      e.str("sentiment"),
			KeyNews:        e.str("key_news"),
			AnalystOutlook: e.str("analyst_outlook"),
		})
	}
	for _, e := range f.objects("technical_indicators") {
		r.TechnicalIndicators = append(r.TechnicalIndicators, models.TechnicalIndicator{
			Ticker:           e.str("ticker"),
			RSI:              e.str("rsi"),
			MACDStatus:       e.str("macd_status"),
			SMA50:            e.str("sma_50"),
			SMA200:           e.str("sma_200"),
			Support:          e.str("support"),
			Resistance:       e.str("resistance"),
			TechnicalOutlook: e.str("technical_outlook"),
		})
	}
	for _, e := range f.objects("recommendations") {
		r.Recommendations = append(r.Recommendations, models.Recommendation{
			Ticker:    e.str("ticker"),
			Action:    e.str("action"),
			Reasoning: e.str("reasoning"),
			RiskLevel: e.str("risk_level"),
		})
	}

	return r.Normalized(), nil
}

type fields map[string]any

func (f fields) str(key string) string {
	switch v := f[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fields{"v": item}.str("v"))
		}
		return strings.Join(parts, "\n")
	default:
		data, _ := json.Marshal(v)
		return string(data)
	}
}

func (f fields) objects(key string) []fields {
	arr, ok := f[key].([]any)
	if !ok {
		return nil
	}
	out := make([]fields, 0, len(arr))
	for _, item := range arr {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, fields(obj))
		}
	}
	return out
}
