package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubInvoker struct {
	resp *Response
	err  error
}

func (s *stubInvoker) Invoke(ctx context.Context, message, agentID string) (*Response, error) {
	return s.resp, s.err
}

func TestCall(t *testing.T) {
	tests := []struct {
		name    string
		stub    *stubInvoker
		wantErr error
	}{
		{"success", &stubInvoker{resp: TextResult("ok")}, nil},
		{"transport error", &stubInvoker{err: io.ErrUnexpectedEOF}, io.ErrUnexpectedEOF},
		{"nil response", &stubInvoker{}, ErrEmptyResponse},
		{"unsuccessful", &stubInvoker{resp: &Response{Success: false, Error: "quota exceeded"}}, ErrAgentFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Call(context.Background(), tt.stub, "agent-1", "generate report", "hi")
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			var agentErr *Error
			if !errors.As(err, &agentErr) || agentErr.AgentID != "agent-1" {
				t.Errorf("Expected *Error for agent-1, got %T", err)
			}
		})
	}
}

func TestHTTPInvoker(t *testing.T) {
	var got invokeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/agents/invoke" {
			t.Errorf("Expected /agents/invoke, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "secret" {
			t.Errorf("Expected api key header")
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"success": true, "response": {"result": {"report_date": "2025-02-26"}}}`))
	}))
	defer server.Close()

	inv := NewHTTPInvoker(&Config{BaseURL: server.URL + "/", APIKey: "secret", UserID: "u1", Timeout: time.Second})
	resp, err := inv.Invoke(context.Background(), "hello", "coord")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	if got.Message != "hello" || got.AgentID != "coord" || got.UserID != "u1" || got.SessionID == "" {
		t.Errorf("Unexpected request %+v", got)
	}
	if !resp.Success {
		t.Error("Expected success")
	}
	if obj, ok := Unwrap(resp).Object(); !ok || obj["report_date"] != "2025-02-26" {
		t.Errorf("Unexpected payload %#v", Unwrap(resp).Value)
	}
	if resp.RawResponse == "" {
		t.Error("Expected raw response to be kept")
	}
}

func TestHTTPInvoker_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     bool
		wantMessage string
	}{
		{"envelope error", http.StatusBadGateway, `{"success": false, "error": "upstream timeout"}`, false, "upstream timeout"},
		{"plain error", http.StatusInternalServerError, `boom`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			inv := NewHTTPInvoker(&Config{BaseURL: server.URL, Timeout: time.Second})
			resp, err := inv.Invoke(context.Background(), "hello", "coord")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Invoke error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (resp.Success || resp.Error != tt.wantMessage) {
				t.Errorf("Expected failure %q, got %+v", tt.wantMessage, resp)
			}
		})
	}
}

func TestOpenAIInvoker(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"{\"report_date\":\"2025-02-26\"}"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	registry := NewRegistry(IDs{})
	inv := NewOpenAIInvoker("key", server.URL+"/v1", "gpt-4o-mini", registry)

	resp, err := inv.Invoke(context.Background(), "Generate the report", registry.ID(RoleCoordinator))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	p := Unwrap(resp)
	if obj, ok := p.Object(); !ok || obj["report_date"] != "2025-02-26" {
		t.Errorf("Unexpected payload %#v", p.Value)
	}
	if body["model"] != "gpt-4o-mini" {
		t.Errorf("Expected model in request, got %v", body["model"])
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(IDs{Coordinator: "c", Delivery: "d", Extraction: "x"})

	if r.ID(RoleDelivery) != "d" {
		t.Errorf("Expected delivery id d, got %s", r.ID(RoleDelivery))
	}
	if r.ID(RoleMarketData) != DefaultIDs().MarketData {
		t.Error("Expected default market data id")
	}
	if r.Name("c") != "Portfolio Analysis Coordinator" {
		t.Errorf("Unexpected name %s", r.Name("c"))
	}
	if _, err := r.Lookup("missing"); !errors.Is(err, ErrUnknownAgent) {
		t.Errorf("Expected ErrUnknownAgent, got %v", err)
	}
	if len(r.All()) != 6 {
		t.Errorf("Expected 6 agents, got %d", len(r.All()))
	}
}

func TestNew_Providers(t *testing.T) {
	if _, err := New(context.Background(), &Config{Provider: ProviderOpenAI}, nil); err == nil {
		t.Error("Expected openai without key to fail")
	}
	if _, err := New(context.Background(), &Config{Provider: "carrier-pigeon"}, nil); err == nil {
		t.Error("Expected unknown provider to fail")
	}
	inv, err := New(context.Background(), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Expected default provider, got %v", err)
	}
	if _, ok := inv.(*HTTPInvoker); !ok {
		t.Errorf("Expected *HTTPInvoker, got %T", inv)
	}
}

func TestActivityLog(t *testing.T) {
	log := NewActivityLog(2, zerolog.Nop())
	registry := NewRegistry(IDs{Coordinator: "c"})

	ok := Recorded(&stubInvoker{resp: TextResult("fine")}, log, registry)
	bad := Recorded(&stubInvoker{resp: &Response{Success: false, Error: "nope"}}, log, registry)

	ok.Invoke(context.Background(), "a", "c")
	bad.Invoke(context.Background(), "b", "c")
	ok.Invoke(context.Background(), "c", "unknown")

	recent := log.Recent(10)
	if len(recent) != 2 {
		t.Fatalf("Expected bounded log of 2, got %d", len(recent))
	}
	if recent[0].AgentName != "unknown" {
		t.Errorf("Expected newest first with raw id as name, got %s", recent[0].AgentName)
	}
	if recent[1].Success || recent[1].Error != "nope" {
		t.Errorf("Expected recorded failure, got %+v", recent[1])
	}
	if len(log.Active()) != 0 {
		t.Errorf("Expected no calls in flight, got %v", log.Active())
	}

	stats := log.Stats(time.Time{})
	if stats["total_calls"] != 2 || stats["failed_calls"] != 1 {
		t.Errorf("Unexpected stats %v", stats)
	}
}
