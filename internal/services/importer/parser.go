// Package importer turns raw holdings exports into normalized ledger batches
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
	ErrEmptyFile   = errors.New("file is empty")
	ErrNoData      = errors.New("no valid holdings found")
	ErrInvalidJSON = errors.New("invalid JSON")
	ErrUnknownMode = errors.New("unknown import mode")
)

// Mode selects how an uploaded file is interpreted
type Mode string

const (
	ModeCSV   Mode = "csv"
	ModeJSON  Mode = "json"
	ModeSmart Mode = "smart"
)

// ParseMode validates a mode name, defaulting to CSV
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeCSV:
		return ModeCSV, nil
	case ModeJSON:
		return ModeJSON, nil
	case ModeSmart:
		return ModeSmart, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// ParseResult contains the holdings parsed from one payload plus per-row errors
type ParseResult struct {
	Holdings []models.Holding `json:"holdings"`
	Errors   []string         `json:"errors"`
}

func newResult() ParseResult {
	return ParseResult{Holdings: []models.Holding{}, Errors: []string{}}
}

// symbolPattern is the shape of a listed symbol with an optional exchange suffix
var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{1,6}(\.[A-Z0-9]{1,4})?$`)

// normalizeSymbol returns the normalized ticker and whether it is usable
func normalizeSymbol(raw string) (string, bool) {
	ticker := models.NormalizeTicker(raw)
	return ticker, symbolPattern.MatchString(ticker)
}

// Helper functions for parsing values

var numberNoise = strings.NewReplacer(",", "", "$", "", "£", "", "€", "", "%", "", " ", "", "\u00a0", "")

func parseDecimal(s string) (decimal.Decimal, bool) {
	s = numberNoise.Replace(strings.TrimSpace(s))

	// Handle parentheses for negative numbers
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	if s == "" || s == "--" || strings.EqualFold(s, "n/a") {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// optionalDecimal parses a price or size column; unparseable or negative becomes zero
func optionalDecimal(s string) decimal.Decimal {
	d, ok := parseDecimal(s)
	if !ok || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
