package importer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/findosh/stockpulse/internal/models"
	"github.com/shopspring/decimal"
)

var (
	errInsufficientColumns = errors.New("insufficient columns")
	errInvalidTicker       = errors.New("invalid or missing ticker")
)

var (
	delimiters     = regexp.MustCompile(`[,;\t]`)
	headerKeywords = []string{"ticker", "symbol", "stock"}
)

// ParseCSV parses delimited holdings text. Column order is fixed:
// ticker, shares, acquisition price, investment size. Bad rows are
// skipped and reported in Errors; the rest of the file is still parsed.
func ParseCSV(text, source string) ParseResult {
	source = models.NormalizeSource(source)
	result := newResult()

	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		return result
	}

	start := 0
	if isHeader(lines[0]) {
		start = 1
	}

	for i := start; i < len(lines); i++ {
		h, err := parseLine(lines[i], source)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: %s", i+1, err))
			continue
		}
		result.Holdings = append(result.Holdings, h)
	}

	return result
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func isHeader(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range headerKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func splitFields(line string) []string {
	fields := delimiters.Split(line, -1)
	for i, f := range fields {
		f = strings.TrimSpace(f)
		f = strings.Trim(f, `"'`)
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

func parseLine(line, source string) (models.Holding, error) {
	fields := splitFields(line)
	if len(fields) < 2 {
		return models.Holding{}, errInsufficientColumns
	}

	ticker, ok := normalizeSymbol(fields[0])
	if !ok {
		return models.Holding{}, errInvalidTicker
	}

	shares, ok := parseDecimal(fields[1])
	if !ok || !shares.IsPositive() {
		return models.Holding{}, fmt.Errorf("invalid shares value %q", fields[1])
	}

	price, size := decimal.Zero, decimal.Zero
	if len(fields) > 2 {
		price = optionalDecimal(fields[2])
	}
	if len(fields) > 3 {
		size = optionalDecimal(fields[3])
	}

	return models.NewHolding(ticker, shares, price, size, source), nil
}
