package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/findosh/stockpulse/internal/models"
	"github.com/shopspring/decimal"
)

// SettingsRepository persists the settings record
type SettingsRepository struct {
	records *RecordStore
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(records *RecordStore) *SettingsRepository {
	return &SettingsRepository{records: records}
}

// Load returns the stored settings. Absent or malformed records yield the
// defaults; older shapes are migrated field by field.
func (r *SettingsRepository) Load() (models.Settings, error) {
	payload, ok, err := r.records.Get(SettingsRecord)
	if err != nil {
		return models.DefaultSettings(), fmt.Errorf("failed to read settings: %w", err)
	}
	if !ok {
		return models.DefaultSettings(), nil
	}
	return DecodeSettings([]byte(payload)), nil
}

// Save writes the settings record
func (r *SettingsRepository) Save(s models.Settings) error {
	data, err := json.Marshal(s.Normalized())
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return r.records.Put(SettingsRecord, string(data))
}

// storedSettings accepts current and legacy key spellings
type storedSettings struct {
	Tickers            []string          `json:"tickers"`
	Holdings           []json.RawMessage `json:"holdings"`
	Email              string            `json:"email"`
	Timezone           string            `json:"timezone"`
	ScheduleTime       string            `json:"schedule_time"`
	LegacyScheduleTime string            `json:"scheduleTime"`
}

type storedHolding struct {
	Ticker                 string          `json:"ticker"`
	Shares                 decimal.Decimal `json:"shares"`
	AcquisitionPrice       decimal.Decimal `json:"acquisition_price"`
	InvestmentSize         decimal.Decimal `json:"investment_size"`
	LegacyAcquisitionPrice decimal.Decimal `json:"acquisitionPrice"`
	LegacyInvestmentSize   decimal.Decimal `json:"investmentSize"`
	Source                 string          `json:"source"`
}

// DecodeSettings parses a stored settings document, never failing.
// A record that predates the ledger keeps its tickers as zero-share
// Manual holdings so the watchlist survives.
func DecodeSettings(data []byte) models.Settings {
	var in storedSettings
	if err := json.Unmarshal(bytes.TrimSpace(data), &in); err != nil {
		return models.DefaultSettings()
	}

	s := models.DefaultSettings()
	s.Email = in.Email
	if in.Timezone != "" {
		s.Timezone = in.Timezone
	}
	switch {
	case in.ScheduleTime != "":
		s.ScheduleTime = in.ScheduleTime
	case in.LegacyScheduleTime != "":
		s.ScheduleTime = in.LegacyScheduleTime
	}
	if s.Validate() != nil {
		s.Timezone = models.DefaultTimezone
		s.ScheduleTime = models.DefaultScheduleTime
	}

	var ledger models.Ledger
	if in.Holdings != nil {
		batch := make([]models.Holding, 0, len(in.Holdings))
		for _, raw := range in.Holdings {
			var h storedHolding
			if err := json.Unmarshal(raw, &h); err != nil {
				continue
			}
			if models.NormalizeTicker(h.Ticker) == "" {
				continue
			}
			price, size := h.AcquisitionPrice, h.InvestmentSize
			if price.IsZero() {
				price = h.LegacyAcquisitionPrice
			}
			if size.IsZero() {
				size = h.LegacyInvestmentSize
			}
			batch = append(batch, models.NewHolding(h.Ticker, h.Shares, price, size, h.Source))
		}
		ledger = models.Ledger{}.Merge(batch)
	} else {
		batch := make([]models.Holding, 0, len(in.Tickers))
		for _, t := range in.Tickers {
			if models.NormalizeTicker(t) == "" {
				continue
			}
			batch = append(batch, models.NewHolding(t, decimal.Zero, decimal.Zero, decimal.Zero, models.DefaultSource))
		}
		ledger = models.Ledger{}.Merge(batch)
	}

	return s.WithHoldings(ledger)
}
