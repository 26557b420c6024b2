package handlers

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/findosh/stockpulse/internal/models"
	"github.com/findosh/stockpulse/internal/services/importer"
)

type holdingsResponse struct {
	Holdings      models.Ledger        `json:"holdings"`
	Tickers       []string             `json:"tickers"`
	TotalInvested string               `json:"total_invested"`
	Groups        []models.SourceGroup `json:"groups"`
}

// ListHoldings returns the ledger along with its per-source grouping
func (h *Handler) ListHoldings(w http.ResponseWriter, r *http.Request) {
	ledger := h.controller.Ledger()
	h.jsonResponse(w, holdingsResponse{
		Holdings:      ledger,
		Tickers:       ledger.Watchlist(),
		TotalInvested: ledger.TotalInvested().StringFixed(2),
		Groups:        ledger.GroupBySource(),
	})
}

// Allocation returns the cost-basis breakdown by ticker and source
func (h *Handler) Allocation(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.analytics.CalculateAllocation(h.controller.Ledger()))
}

// AddHolding merges one manually entered holding into the ledger
func (h *Handler) AddHolding(w http.ResponseWriter, r *http.Request) {
	var draft models.HoldingDraft
	if err := decodeJSON(r, &draft); err != nil {
		h.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	holding, err := h.controller.AddHolding(draft)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.jsonStatus(w, holding, http.StatusCreated)
}

// RemoveHolding drops a (ticker, source) position
func (h *Handler) RemoveHolding(w http.ResponseWriter, r *http.Request) {
	ticker := strings.TrimSpace(r.URL.Query().Get("ticker"))
	if ticker == "" {
		h.jsonError(w, "ticker is required", http.StatusBadRequest)
		return
	}

	if err := h.controller.RemoveHolding(ticker, r.URL.Query().Get("source")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportHoldings streams the ledger as CSV
func (h *Handler) ExportHoldings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=stockpulse_holdings.csv")
	if err := importer.ExportCSV(w, h.controller.Ledger()); err != nil {
		h.logger.Error().Err(err).Msg("failed to export holdings")
	}
}

// DownloadTemplate serves a sample CSV template
func (h *Handler) DownloadTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=stockpulse_template.csv")
	if err := importer.WriteTemplate(w); err != nil {
		h.logger.Error().Err(err).Msg("failed to write template")
	}
}

// Import applies an uploaded holdings file. The file is taken from the
// multipart field "file" or, failing that, from the raw request body.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	mode, err := importer.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		h.fail(w, err)
		return
	}
	source := r.URL.Query().Get("source")

	body, fileName, err := h.uploadedFile(r)
	if err != nil {
		h.jsonError(w, "Please select a file to upload", http.StatusBadRequest)
		return
	}
	defer body.Close()

	result, err := h.controller.Import(r.Context(), mode, fileName, body, source)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.jsonResponse(w, result)
}

func (h *Handler) uploadedFile(r *http.Request) (io.ReadCloser, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, r.URL.Query().Get("filename"), nil
	}

	maxBytes := int64(10 << 20)
	if h.cfg != nil && h.cfg.Import.MaxUploadBytes > 0 {
		maxBytes = h.cfg.Import.MaxUploadBytes
	}
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, "", err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	return file, header.Filename, nil
}
