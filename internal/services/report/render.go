package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/findosh/stockpulse/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown lays the report out as one markdown document
func Markdown(r models.Report) string {
	var b strings.Builder

	title := "Portfolio Report"
	if r.ReportDate != "" {
		title += " " + r.ReportDate
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if r.PortfolioHealth != "" {
		fmt.Fprintf(&b, "**Portfolio health:** %s\n\n", r.PortfolioHealth)
	}

	section(&b, "Executive Summary", r.ExecutiveSummary)

	if len(r.PriceMovements) > 0 {
		rows := make([][]string, 0, len(r.PriceMovements))
		for _, p := range r.PriceMovements {
			rows = append(rows, []string{p.Ticker, p.CompanyName, p.CurrentPrice, p.PriceChange, p.PercentChange, p.Volume})
		}
		table(&b, "Price Movements", []string{"Ticker", "Company", "Price", "Change", "%", "Volume"}, rows)
	}

	if len(r.SentimentAnalysis) > 0 {
		rows := make([][]string, 0, len(r.SentimentAnalysis))
		for _, s := range r.SentimentAnalysis {
			rows = append(rows, []string{s.Ticker, s.Sentiment, s.KeyNews, s.AnalystOutlook})
		}
		table(&b, "News Sentiment", []string{"Ticker", "Sentiment", "Key News", "Analyst Outlook"}, rows)
	}

	if len(r.TechnicalIndicators) > 0 {
		rows := make([][]string, 0, len(r.TechnicalIndicators))
		for _, t := range r.TechnicalIndicators {
			rows = append(rows, []string{t.Ticker, t.RSI, t.MACDStatus, t.SMA50, t.SMA200, t.Support, t.Resistance, t.TechnicalOutlook})
		}
		table(&b, "Technical Indicators", []string{"Ticker", "RSI", "MACD", "SMA 50", "SMA 200", "Support", "Resistance", "Outlook"}, rows)
	}

	if len(r.Recommendations) > 0 {
		rows := make([][]string, 0, len(r.Recommendations))
		for _, rec := range r.Recommendations {
			rows = append(rows, []string{rec.Ticker, rec.Action, rec.RiskLevel, rec.Reasoning})
		}
		table(&b, "Recommendations", []string{"Ticker", "Action", "Risk", "Reasoning"}, rows)
	}

	section(&b, "Risk Assessment", r.RiskAssessment)
	section(&b, "Market Overview", r.MarketOverview)

	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "_Generated %s_\n", r.GeneratedAt.Format("2006-01-02 15:04 MST"))
	}
	return b.String()
}

func section(b *strings.Builder, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	fmt.Fprintf(b, "## %s\n\n%s\n\n", title, strings.TrimSpace(body))
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

func table(b *strings.Builder, title string, header []string, rows [][]string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = cellEscaper.Replace(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML renders the report as a standalone HTML page.
// Raw HTML inside agent text is not passed through.
func RenderHTML(r models.Report) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(r)), &body); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	title := "StockPulse Report"
	if r.ReportDate != "" {
		title += " " + r.ReportDate
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("<style>body{font-family:Georgia,serif;max-width:960px;margin:2rem auto;padding:0 1rem;line-height:1.5}" +
		"table{border-collapse:collapse;width:100%}th,td{border:1px solid #ddd;padding:.4rem;text-align:left;font-size:.9rem}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}

// RenderTerminal renders the report for a terminal. An empty style
// picks light or dark from the terminal background.
func RenderTerminal(r models.Report, style string, width int) (string, error) {
	if width <= 0 {
		width = 100
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := renderer.Render(Markdown(r))
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return out, nil
}
