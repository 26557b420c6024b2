package importer

import (
	"encoding/csv"
	"io"

	"github.com/findosh/stockpulse/internal/models"
)

var exportHeader = []string{"Ticker", "Shares", "Acquisition Price", "Investment Size", "Source"}

// ExportCSV writes the ledger one row per holding with numbers fixed to two decimals
func ExportCSV(w io.Writer, ledger models.Ledger) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, h := range ledger {
		row := []string{
			h.Ticker,
			h.Shares.StringFixed(2),
			h.AcquisitionPrice.StringFixed(2),
			h.InvestmentSize.StringFixed(2),
			models.NormalizeSource(h.Source),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteTemplate writes a sample import file
func WriteTemplate(w io.Writer) error {
	writer := csv.NewWriter(w)

	rows := [][]string{
		exportHeader[:4],
		{"AAPL", "10", "175.00", "1750.00"},
		{"TSLA", "5", "240.00", ""},
		{"VOD.L", "100", "1.20", "120.00"},
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}
