package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/findosh/stockpulse/internal/models"
)

// HistoryRepository persists the report history record
type HistoryRepository struct {
	records *RecordStore
	limit   int
}

// NewHistoryRepository creates a repository keeping at most limit entries
func NewHistoryRepository(records *RecordStore, limit int) *HistoryRepository {
	if limit <= 0 {
		limit = models.HistoryLimit
	}
	return &HistoryRepository{records: records, limit: limit}
}

// Load returns the stored history, newest first. Malformed records yield
// an empty history and entries without a report are dropped.
func (r *HistoryRepository) Load() (models.History, error) {
	payload, ok, err := r.records.Get(HistoryRecord)
	if err != nil {
		return models.History{}, fmt.Errorf("failed to read history: %w", err)
	}
	if !ok {
		return models.History{}, nil
	}
	return DecodeHistory([]byte(payload)).Truncate(r.limit), nil
}

// Save writes the history truncated to the bound
func (r *HistoryRepository) Save(h models.History) error {
	h = h.Truncate(r.limit)
	if h == nil {
		h = models.History{}
	}
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	return r.records.Put(HistoryRecord, string(data))
}

type storedEntry struct {
	ID                string         `json:"id"`
	Report            *models.Report `json:"report"`
	GeneratedAt       string         `json:"generated_at"`
	LegacyGeneratedAt string         `json:"generatedAt"`
}

// DecodeHistory parses a stored history document, never failing
func DecodeHistory(data []byte) models.History {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.History{}
	}

	out := make(models.History, 0, len(raw))
	for _, item := range raw {
		var e storedEntry
		if err := json.Unmarshal(item, &e); err != nil || e.Report == nil {
			continue
		}
		at := parseTime(e.GeneratedAt)
		if at.IsZero() {
			at = parseTime(e.LegacyGeneratedAt)
		}
		if at.IsZero() {
			at = e.Report.GeneratedAt
		}
		entry := models.HistoryEntry{ID: e.ID, Report: e.Report.Normalized(), GeneratedAt: at}
		if entry.ID == "" {
			entry.ID = models.NewHistoryEntry(entry.Report).ID
		}
		out = append(out, entry)
	}
	return out
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
