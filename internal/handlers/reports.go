package handlers

import (
	"net/http"
	"time"

	"github.com/findosh/stockpulse/internal/models"
	"github.com/findosh/stockpulse/internal/services/report"
)

// GenerateReport runs the coordinator agent and stores the result
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	out, err := h.controller.GenerateReport(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.jsonStatus(w, out, http.StatusCreated)
}

// CurrentReport returns the report currently on display
func (h *Handler) CurrentReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.controller.CurrentReport()
	if !ok {
		h.jsonError(w, "No report generated yet", http.StatusNotFound)
		return
	}
	h.writeReport(w, r, rep)
}

// SampleReport returns the built-in example report
func (h *Handler) SampleReport(w http.ResponseWriter, r *http.Request) {
	h.writeReport(w, r, models.SampleReport())
}

type historyItem struct {
	ID               string    `json:"id"`
	GeneratedAt      time.Time `json:"generated_at"`
	ReportDate       string    `json:"report_date"`
	ExecutiveSummary string    `json:"executive_summary"`
}

// ReportHistory lists stored reports, newest first
func (h *Handler) ReportHistory(w http.ResponseWriter, r *http.Request) {
	history := h.controller.History()
	items := make([]historyItem, 0, len(history))
	for _, e := range history {
		items = append(items, historyItem{
			ID:               e.ID,
			GeneratedAt:      e.GeneratedAt,
			ReportDate:       e.Report.ReportDate,
			ExecutiveSummary: e.Report.ExecutiveSummary,
		})
	}
	h.jsonResponse(w, map[string]interface{}{
		"count":   len(items),
		"reports": items,
	})
}

// ClearHistory deletes every stored report
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.ClearHistory(); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetReport returns one stored report
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	entry, err := h.controller.HistoryEntry(r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	if r.URL.Query().Get("format") == "markdown" {
		h.writeReport(w, r, entry.Report)
		return
	}
	h.jsonResponse(w, entry)
}

// GetReportHTML renders one stored report as an HTML fragment
func (h *Handler) GetReportHTML(w http.ResponseWriter, r *http.Request) {
	entry, err := h.controller.HistoryEntry(r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}

	html, err := report.RenderHTML(entry.Report)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// writeReport honours ?format=markdown, defaulting to JSON
func (h *Handler) writeReport(w http.ResponseWriter, r *http.Request, rep models.Report) {
	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(report.Markdown(rep)))
		return
	}
	h.jsonResponse(w, rep)
}
