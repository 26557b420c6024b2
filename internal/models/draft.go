package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// FieldState tracks where the value of a numeric input came from
type FieldState string

const (
	FieldUnset          FieldState = "unset"
	FieldAutoDerived    FieldState = "auto-derived"
	FieldUserOverridden FieldState = "user-overridden"
)

// NumericField is a numeric form input together with its provenance
type NumericField struct {
	State FieldState      `json:"state"`
	Value decimal.Decimal `json:"value"`
}

// Set records a value typed by the user
func (f *NumericField) Set(v decimal.Decimal) {
	f.State = FieldUserOverridden
	f.Value = v
}

// Clear drops a user value so the field can be derived again
func (f *NumericField) Clear() {
	f.State = FieldUnset
	f.Value = decimal.Zero
}

// HoldingDraft is a manually entered holding before it is committed to the ledger
type HoldingDraft struct {
	Ticker           string          `json:"ticker"`
	Shares           decimal.Decimal `json:"shares"`
	AcquisitionPrice NumericField    `json:"acquisition_price"`
	InvestmentSize   NumericField    `json:"investment_size"`
	Source           string          `json:"source"`
}

// Refresh re-derives the investment size unless the user typed one
func (d *HoldingDraft) Refresh() {
	if d.InvestmentSize.State == FieldUserOverridden {
		return
	}
	if d.Shares.IsPositive() && d.AcquisitionPrice.Value.IsPositive() {
		d.InvestmentSize = NumericField{
			State: FieldAutoDerived,
			Value: d.Shares.Mul(d.AcquisitionPrice.Value),
		}
		return
	}
	d.InvestmentSize.Clear()
}

// Resolve turns the draft into the holding that will be stored
func (d HoldingDraft) Resolve() Holding {
	d.Refresh()
	return Holding{
		Ticker:           NormalizeTicker(d.Ticker),
		Shares:           nonNegative(d.Shares),
		AcquisitionPrice: nonNegative(d.AcquisitionPrice.Value),
		InvestmentSize:   nonNegative(d.InvestmentSize.Value),
		Source:           NormalizeSource(d.Source),
	}
}

// holdingDraftInput is the wire form used by the API: an absent number is unset
type holdingDraftInput struct {
	Ticker           string           `json:"ticker"`
	Shares           decimal.Decimal  `json:"shares"`
	AcquisitionPrice *decimal.Decimal `json:"acquisition_price"`
	InvestmentSize   *decimal.Decimal `json:"investment_size"`
	Source           string           `json:"source"`
}

// UnmarshalJSON accepts plain numbers and marks supplied fields as overridden
func (d *HoldingDraft) UnmarshalJSON(data []byte) error {
	var in holdingDraftInput
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*d = HoldingDraft{Ticker: in.Ticker, Shares: in.Shares, Source: in.Source}
	d.AcquisitionPrice.Clear()
	d.InvestmentSize.Clear()
	if in.AcquisitionPrice != nil {
		d.AcquisitionPrice.Set(*in.AcquisitionPrice)
	}
	if in.InvestmentSize != nil {
		d.InvestmentSize.Set(*in.InvestmentSize)
	}
	d.Refresh()
	return nil
}
