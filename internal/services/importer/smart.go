package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/findosh/stockpulse/internal/models"
)

// DefaultMaxPromptChars bounds how much file content goes into an extraction prompt
const DefaultMaxPromptChars = 15000

// BuildExtractionPrompt asks the extraction agent for a bare JSON array of holdings
func BuildExtractionPrompt(fileName, content string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxPromptChars
	}
	body, truncated := truncateRunes(content, maxChars)

	var b strings.Builder
	b.WriteString("Extract every stock, ETF or fund holding from the following file")
	if fileName != "" {
		fmt.Fprintf(&b, " (%s)", fileName)
	}
	b.WriteString(".\n\n")
	b.WriteString("Return ONLY a JSON array, with no explanation before or after it. ")
	b.WriteString("Each element must be an object with these fields:\n")
	b.WriteString(`- "ticker": the trading symbol (use an exchange suffix such as .L for non-US listings)` + "\n")
	b.WriteString(`- "shares": number of shares or units held` + "\n")
	b.WriteString(`- "acquisition_price": average price paid per share, or 0 if unknown` + "\n")
	b.WriteString(`- "investment_size": total amount invested, or 0 if unknown` + "\n\n")
	b.WriteString("Skip anything that is not an equity or fund holding, such as cash balances, bonds, options, interest and fees. ")
	b.WriteString("If a row identifies a security by ISIN or company name instead of a ticker, map it to your best estimate of the ticker symbol.\n\n")
	if truncated {
		fmt.Fprintf(&b, "The file was truncated to its first %d characters.\n\n", maxChars)
	}
	b.WriteString("FILE CONTENT:\n")
	b.WriteString(body)
	return b.String()
}

func truncateRunes(s string, limit int) (string, bool) {
	if len(s) <= limit {
		return s, false
	}
	r := []rune(s)
	if len(r) <= limit {
		return s, false
	}
	return string(r[:limit]), true
}

// ExtractJSONArray parses the span from the first '[' to the last ']' in
// free text. The widest span is used, so unrelated brackets in surrounding
// prose can make extraction fail.
func ExtractJSONArray(text string) ([]any, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, false
	}

	dec := json.NewDecoder(strings.NewReader(text[start : end+1]))
	dec.UseNumber()
	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	return items, true
}

// NormalizeExtracted maps agent-extracted objects to holdings tagged with source.
// Elements that are not objects or carry no usable ticker are dropped.
func NormalizeExtracted(items []any, source string) []models.Holding {
	source = models.NormalizeSource(source)
	holdings := make([]models.Holding, 0, len(items))

	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rec := newRecord(obj)

		ticker := models.NormalizeTicker(rec.text(tickerKeys))
		if ticker == "" {
			continue
		}

		shares := nonNegativeField(rec, sharesKeys)
		price := nonNegativeField(rec, priceKeys)
		size := nonNegativeField(rec, sizeKeys)
		holdings = append(holdings, models.NewHolding(ticker, shares, price, size, source))
	}

	return holdings
}
