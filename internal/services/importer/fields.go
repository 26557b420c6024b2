package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Accepted spellings per field, compared after normalizeKey
var (
	tickerKeys = []string{"ticker", "symbol"}
	sharesKeys = []string{"shares", "quantity", "qty", "units"}
	priceKeys  = []string{"acquisitionprice", "price", "avgprice", "averageprice", "purchaseprice", "costpershare", "buyprice"}
	sizeKeys   = []string{"investmentsize", "investment", "invested", "totalcost", "costbasis", "amount", "value"}
	sourceKeys = []string{"source"}
)

var keyNoise = strings.NewReplacer("_", "", "-", "", " ", "")

func normalizeKey(k string) string {
	return keyNoise.Replace(strings.ToLower(strings.TrimSpace(k)))
}

// record is a JSON object with its keys normalized
type record map[string]any

func newRecord(obj map[string]any) record {
	r := make(record, len(obj))
	for k, v := range obj {
		nk := normalizeKey(k)
		if _, exists := r[nk]; !exists {
			r[nk] = v
		}
	}
	return r
}

func (r record) lookup(keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// text returns the first present field as a string
func (r record) text(keys []string) string {
	v, ok := r.lookup(keys)
	if !ok {
		return ""
	}
	return stringify(v)
}

// number returns the first present field as a decimal plus its raw text
func (r record) number(keys []string) (decimal.Decimal, string, bool) {
	v, ok := r.lookup(keys)
	if !ok {
		return decimal.Zero, "", false
	}
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), stringify(v), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, n.String(), err == nil
	case string:
		d, ok := parseDecimal(n)
		return d, n, ok
	}
	return decimal.Zero, stringify(v), false
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return decimal.NewFromFloat(s).String()
	case bool:
		if s {
			return "true"
		}
		return "false"
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
