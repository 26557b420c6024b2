package models

import (
	"fmt"
	"testing"
	"time"
)

func TestHistory_InsertNewestFirst(t *testing.T) {
	var h History
	first := NewHistoryEntry(Report{ReportDate: "2025-01-01"})
	second := NewHistoryEntry(Report{ReportDate: "2025-01-02"})

	h = h.Insert(first, HistoryLimit)
	h = h.Insert(second, HistoryLimit)

	if len(h) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(h))
	}
	if h[0].ID != second.ID {
		t.Error("Expected newest entry first")
	}
	if first.ID == second.ID {
		t.Error("Expected unique ids")
	}
}

func TestHistory_EvictsOldestBeyondLimit(t *testing.T) {
	var h History
	for i := 0; i < 51; i++ {
		e := HistoryEntry{ID: fmt.Sprintf("r%d", i), GeneratedAt: time.Unix(int64(i), 0)}
		h = h.Insert(e, HistoryLimit)
	}

	if len(h) != 50 {
		t.Fatalf("Expected 50 entries, got %d", len(h))
	}
	if h[0].ID != "r50" {
		t.Errorf("Expected newest r50 first, got %s", h[0].ID)
	}
	if h[49].ID != "r1" {
		t.Errorf("Expected r1 last after evicting r0, got %s", h[49].ID)
	}
	if _, ok := h.Find("r0"); ok {
		t.Error("Expected r0 to be evicted")
	}
}

func TestHistory_InsertDoesNotMutate(t *testing.T) {
	h := History{{ID: "a"}}
	_ = h.Insert(HistoryEntry{ID: "b"}, HistoryLimit)

	if len(h) != 1 || h[0].ID != "a" {
		t.Errorf("Expected original history unchanged, got %+v", h)
	}
}

func TestSampleReport(t *testing.T) {
	r := SampleReport()

	if len(r.PriceMovements) != 5 || len(r.Recommendations) != 5 {
		t.Errorf("Expected 5 rows per section, got %d and %d", len(r.PriceMovements), len(r.Recommendations))
	}
	if r.PortfolioHealth == "" {
		t.Error("Expected portfolio health")
	}
}
