package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/findosh/stockpulse/internal/models"
)

func TestSelect(t *testing.T) {
	schedules := []models.Schedule{{ID: "a"}, {ID: "b"}}

	if s, ok := Select(schedules, "b"); !ok || s.ID != "b" {
		t.Errorf("Expected b, got %+v", s)
	}
	if s, ok := Select(schedules, "gone"); !ok || s.ID != "a" {
		t.Errorf("Expected fallback to first schedule, got %+v", s)
	}
	if _, ok := Select(nil, "a"); ok {
		t.Error("Expected no selection for empty list")
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	next := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /schedules", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "bad key"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"schedules": []models.Schedule{
				{ID: "s1", IsActive: true, CronExpression: "0 7 * * *", Timezone: "America/New_York", NextRunTime: &next},
			},
		})
	})
	mux.HandleFunc("POST /schedules/{id}/pause", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "s1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	mux.HandleFunc("POST /schedules/{id}/resume", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "quota exceeded"})
	})
	mux.HandleFunc("GET /schedules/{id}/logs", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "5" {
			t.Errorf("Expected limit 5, got %q", r.URL.Query().Get("limit"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"executions": []models.ExecutionLog{
				{ID: "e1", ScheduleID: "s1", Success: true, ExecutedAt: next},
			},
		})
	})
	mux.HandleFunc("PUT /schedules/{id}/message", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["message"] == "" {
			t.Error("Expected message in body")
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "schedule_id": "s2"})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestHTTPClient(t *testing.T) {
	server := newTestServer(t)
	client := NewHTTPClient(server.URL+"/", "secret", time.Second)
	ctx := context.Background()

	schedules, err := client.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(schedules) != 1 || !schedules[0].IsActive || schedules[0].NextRunTime == nil {
		t.Errorf("Unexpected schedules %+v", schedules)
	}

	if err := client.Pause(ctx, "s1"); err != nil {
		t.Errorf("Pause: %v", err)
	}
	if err := client.Pause(ctx, "missing"); !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("Expected ErrScheduleNotFound, got %v", err)
	}
	if err := client.Resume(ctx, "s1"); !errors.Is(err, ErrSchedulerFailed) {
		t.Errorf("Expected ErrSchedulerFailed, got %v", err)
	}

	logs, err := client.Logs(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if len(logs) != 1 || logs[0].ID != "e1" {
		t.Errorf("Unexpected logs %+v", logs)
	}

	newID, err := client.UpdateMessage(ctx, "s1", "Generate the daily report")
	if err != nil {
		t.Fatalf("UpdateMessage: %v", err)
	}
	if newID != "s2" {
		t.Errorf("Expected new id s2, got %q", newID)
	}
}

func TestHTTPClient_BadKey(t *testing.T) {
	server := newTestServer(t)
	client := NewHTTPClient(server.URL, "wrong", time.Second)

	_, err := client.List(context.Background())
	if !errors.Is(err, ErrSchedulerFailed) {
		t.Errorf("Expected ErrSchedulerFailed, got %v", err)
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(models.Schedule{ID: "s1", CronExpression: "0 7 * * *"})
	m.AddLog(models.ExecutionLog{ID: "e1", ScheduleID: "s1"})
	m.AddLog(models.ExecutionLog{ID: "e2", ScheduleID: "s1"})

	if err := m.Resume(ctx, "s1"); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	list, _ := m.List(ctx)
	if !list[0].IsActive || list[0].NextRunTime == nil {
		t.Errorf("Expected active schedule with next run, got %+v", list[0])
	}

	logs, _ := m.Logs(ctx, "s1", 1)
	if len(logs) != 1 || logs[0].ID != "e2" {
		t.Errorf("Expected newest log first, got %+v", logs)
	}

	m.Recreate = true
	newID, err := m.UpdateMessage(ctx, "s1", "hello")
	if err != nil {
		t.Fatalf("UpdateMessage: %v", err)
	}
	if newID == "s1" {
		t.Error("Expected a new id")
	}
	if err := m.Pause(ctx, "s1"); !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("Expected old id to be gone, got %v", err)
	}
	if logs, _ := m.Logs(ctx, newID, 0); len(logs) != 2 {
		t.Errorf("Expected logs to follow the new id, got %d", len(logs))
	}
}
