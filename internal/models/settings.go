package models

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

const (
	DefaultTimezone     = "America/New_York"
	DefaultScheduleTime = "07:00"
)

// Timezones offered for scheduled delivery
var Timezones = []string{
	"America/New_York",
	"America/Chicago",
	"America/Denver",
	"America/Los_Angeles",
	"America/Anchorage",
	"Pacific/Honolulu",
	"Europe/London",
	"Europe/Berlin",
	"Europe/Paris",
	"Asia/Tokyo",
	"Asia/Shanghai",
	"Asia/Kolkata",
	"Asia/Dubai",
	"Australia/Sydney",
	"Pacific/Auckland",
}

// Settings holds the process-wide user configuration.
// Tickers is always derived from Holdings; use WithHoldings to change the ledger.
type Settings struct {
	Tickers      []string `json:"tickers"`
	Holdings     Ledger   `json:"holdings"`
	Email        string   `json:"email"`
	Timezone     string   `json:"timezone"`
	ScheduleTime string   `json:"schedule_time"`
}

// DefaultSettings returns the settings used when nothing is stored
func DefaultSettings() Settings {
	return Settings{
		Tickers:      Ledger{}.Watchlist(),
		Holdings:     Ledger{},
		Email:        "",
		Timezone:     DefaultTimezone,
		ScheduleTime: DefaultScheduleTime,
	}
}

// WithHoldings returns a copy with the ledger replaced and the watchlist recomputed
func (s Settings) WithHoldings(l Ledger) Settings {
	s.Holdings = l.Clone()
	s.Tickers = s.Holdings.Watchlist()
	return s
}

// Normalized fills missing fields with defaults and re-derives the watchlist
func (s Settings) Normalized() Settings {
	if s.Timezone == "" {
		s.Timezone = DefaultTimezone
	}
	if s.ScheduleTime == "" {
		s.ScheduleTime = DefaultScheduleTime
	}
	return s.WithHoldings(s.Holdings)
}

// Validate checks user-editable fields
func (s Settings) Validate() error {
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q", s.Timezone)
	}
	if _, err := time.Parse("15:04", s.ScheduleTime); err != nil {
		return fmt.Errorf("invalid schedule time %q (want HH:MM)", s.ScheduleTime)
	}
	return nil
}

// Clone returns a deep copy of the settings
func (s Settings) Clone() Settings {
	out := s
	out.Holdings = s.Holdings.Clone()
	out.Tickers = append([]string(nil), s.Tickers...)
	return out
}
