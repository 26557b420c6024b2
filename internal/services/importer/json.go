package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/findosh/stockpulse/internal/models"
	"github.com/shopspring/decimal"
)

// ParseJSON parses an array of holding objects, or an object with a
// "holdings" array. An element's own source wins over the import tag.
func ParseJSON(text, source string) (ParseResult, error) {
	source = models.NormalizeSource(source)

	if strings.TrimSpace(text) == "" {
		return ParseResult{}, ErrEmptyFile
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return ParseResult{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	items, ok := holdingItems(raw)
	if !ok {
		return ParseResult{}, fmt.Errorf("%w: expected an array of holdings", ErrInvalidJSON)
	}

	result := newResult()
	for i, item := range items {
		h, err := parseItem(item, source)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Item %d: %s", i+1, err))
			continue
		}
		result.Holdings = append(result.Holdings, h)
	}
	return result, nil
}

func holdingItems(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case map[string]any:
		if items, ok := newRecord(v).lookup([]string{"holdings"}); ok {
			arr, isArr := items.([]any)
			return arr, isArr
		}
	}
	return nil, false
}

func parseItem(item any, source string) (models.Holding, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return models.Holding{}, fmt.Errorf("not an object")
	}
	rec := newRecord(obj)

	ticker, ok := normalizeSymbol(rec.text(tickerKeys))
	if !ok {
		return models.Holding{}, errInvalidTicker
	}

	shares, raw, ok := rec.number(sharesKeys)
	if !ok || !shares.IsPositive() {
		return models.Holding{}, fmt.Errorf("invalid shares value %q", raw)
	}

	price, size := nonNegativeField(rec, priceKeys), nonNegativeField(rec, sizeKeys)
	if s := strings.TrimSpace(rec.text(sourceKeys)); s != "" {
		source = s
	}

	return models.NewHolding(ticker, shares, price, size, source), nil
}

func nonNegativeField(rec record, keys []string) decimal.Decimal {
	d, _, ok := rec.number(keys)
	if !ok || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
