package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/findosh/stockpulse/internal/models"
	"github.com/findosh/stockpulse/internal/services/agent"
	"github.com/findosh/stockpulse/internal/services/importer"
	"github.com/shopspring/decimal"
)

const trading212CSV = `Ticker,Shares,Price,Investment
AAPL,10,175,1750
TSLA,5,240,1200
NVDA,2,800,1600
MSFT,3,400,1200
VOD.L,100,1.2,120
`

func TestImportCSV_Idempotent(t *testing.T) {
	f := newFixture()

	first, err := f.c.ImportCSV(trading212CSV, "Trading212")
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if len(first.Imported) != 5 || first.Ledger != 5 {
		t.Fatalf("Expected 5 holdings, got %+v", first)
	}

	second, err := f.c.ImportCSV(trading212CSV, "Trading212")
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if second.Ledger != 5 {
		t.Errorf("Expected re-import to keep 5 holdings, got %d", second.Ledger)
	}

	s := f.c.Settings()
	if strings.Join(s.Tickers, ",") != "AAPL,TSLA,NVDA,MSFT,VOD.L" {
		t.Errorf("Unexpected watchlist %v", s.Tickers)
	}
	if f.settings.saves != 2 {
		t.Errorf("Expected ledger persisted on each import, got %d saves", f.settings.saves)
	}
	if st := f.c.Statuses()[AreaImport]; st.Kind != StatusSuccess {
		t.Errorf("Expected success status, got %+v", st)
	}
}

func TestImportCSV_NoValidRows(t *testing.T) {
	f := newFixture()

	_, err := f.c.ImportCSV("BAD!!!,10\nAAPL,abc\n", "Manual")
	if !errors.Is(err, ErrNoValidHoldings) {
		t.Fatalf("Expected ErrNoValidHoldings, got %v", err)
	}
	if len(f.c.Ledger()) != 0 || f.settings.saves != 0 {
		t.Error("Expected ledger unchanged")
	}
	if st := f.c.Statuses()[AreaImport]; st.Kind != StatusError {
		t.Errorf("Expected error status, got %+v", st)
	}
}

func TestImport_JSONKeepsElementSource(t *testing.T) {
	f := newFixture()
	body := `[{"ticker":"AAPL","shares":1,"source":"Schwab"},{"ticker":"AAPL","shares":2}]`

	res, err := f.c.Import(context.Background(), importer.ModeJSON, "export.json", strings.NewReader(body), "Fidelity")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Ledger != 2 {
		t.Fatalf("Expected two positions, got %d", res.Ledger)
	}
	l := f.c.Ledger()
	if l[0].Source != "Schwab" || l[1].Source != "Fidelity" {
		t.Errorf("Unexpected sources %q %q", l[0].Source, l[1].Source)
	}
}

func TestAddAndRemoveHolding(t *testing.T) {
	f := newFixture()
	d := models.HoldingDraft{Ticker: "nvda", Shares: decimal.NewFromInt(2)}
	d.AcquisitionPrice.Set(decimal.NewFromInt(800))

	h, err := f.c.AddHolding(d)
	if err != nil {
		t.Fatalf("AddHolding: %v", err)
	}
	if h.Ticker != "NVDA" || !h.InvestmentSize.Equal(decimal.NewFromInt(1600)) || h.Source != "Manual" {
		t.Errorf("Unexpected holding %+v", h)
	}

	if _, err := f.c.AddHolding(models.HoldingDraft{Ticker: "  "}); !errors.Is(err, ErrInvalidHolding) {
		t.Errorf("Expected ErrInvalidHolding, got %v", err)
	}

	if err := f.c.RemoveHolding("NVDA", ""); err != nil {
		t.Fatalf("RemoveHolding: %v", err)
	}
	if len(f.c.Ledger()) != 0 {
		t.Error("Expected empty ledger")
	}
	if f.settings.saves != 2 {
		t.Errorf("Expected 2 saves, got %d", f.settings.saves)
	}
}

func TestSmartImport(t *testing.T) {
	f := newFixture()
	f.invoker.resp = agent.TextResult(`Sure, here are the holdings: [{"ticker":"vod.l","shares":100,"price":1.2}]`)

	res, err := f.c.SmartImport(context.Background(), "statement.txt", strings.NewReader("Vodafone Group 100 @ 1.20"), "Trading212")
	if err != nil {
		t.Fatalf("SmartImport: %v", err)
	}

	expected := models.NewHolding("VOD.L", decimal.NewFromInt(100), decimal.RequireFromString("1.2"), decimal.NewFromInt(120), "Trading212")
	if len(res.Imported) != 1 || !res.Imported[0].Equal(expected) {
		t.Errorf("Expected %+v, got %+v", expected, res.Imported)
	}
	if f.invoker.calls[0] != f.c.deps.Registry.ID(agent.RoleExtraction) {
		t.Errorf("Expected extraction agent, got %s", f.invoker.calls[0])
	}
	if f.c.Snapshot().ImportPhase != PhaseIdle {
		t.Error("Expected import phase back to idle")
	}
}

func TestSmartImport_Failures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		resp    *agent.Response
		err     error
		wantErr error
	}{
		{"empty file", "   ", agent.TextResult("[]"), nil, ErrFileUnreadable},
		{"binary file", "\xff\xfe\x00\x01", agent.TextResult("[]"), nil, ErrFileUnreadable},
		{"agent failure", "data", &agent.Response{Success: false, Error: "overloaded"}, nil, agent.ErrAgentFailed},
		{"transport error", "data", nil, errors.New("connection refused"), nil},
		{"no array", "data", agent.TextResult("I could not find any holdings."), nil, ErrNoJSONArray},
		{"no valid holdings", "data", agent.TextResult(`[{"shares":10},"cash"]`), nil, ErrNoValidHoldings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.invoker.resp = tt.resp
			f.invoker.err = tt.err

			_, err := f.c.SmartImport(context.Background(), "file.txt", strings.NewReader(tt.content), "eToro")
			if err == nil {
				t.Fatal("Expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			var agentErr *agent.Error
			if tt.err != nil && !errors.As(err, &agentErr) {
				t.Errorf("Expected *agent.Error, got %T", err)
			}

			if len(f.c.Ledger()) != 0 || f.settings.saves != 0 {
				t.Error("Expected ledger unchanged")
			}
			st := f.c.Statuses()[AreaImport]
			if st.Kind != StatusError || st.Text == "" {
				t.Errorf("Expected error status, got %+v", st)
			}
			if f.c.Snapshot().ImportPhase != PhaseIdle {
				t.Error("Expected import phase back to idle")
			}
		})
	}
}

func TestSmartImport_RejectsConcurrent(t *testing.T) {
	f := newFixture()
	f.invoker.resp = agent.TextResult(`[{"ticker":"VOD.L","shares":100}]`)
	f.invoker.entered = make(chan struct{}, 1)
	f.invoker.gate = make(chan struct{})

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = f.c.SmartImport(context.Background(), "a.txt", strings.NewReader("a"), "Trading212")
	}()
	<-f.invoker.entered

	if phase := f.c.Snapshot().ImportPhase; phase != PhaseAwaitingAgent {
		t.Errorf("Expected awaiting-agent, got %s", phase)
	}
	if _, err := f.c.SmartImport(context.Background(), "b.txt", strings.NewReader("b"), "Trading212"); !errors.Is(err, ErrImportInProgress) {
		t.Errorf("Expected ErrImportInProgress, got %v", err)
	}

	// a structured import while the agent is busy must survive the smart merge
	if _, err := f.c.ImportCSV("AAPL,10,175\n", "Manual"); err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}

	close(f.invoker.gate)
	wg.Wait()
	if firstErr != nil {
		t.Fatalf("SmartImport: %v", firstErr)
	}

	l := f.c.Ledger()
	if len(l) != 2 || l[0].Ticker != "AAPL" || l[1].Ticker != "VOD.L" {
		t.Errorf("Expected both imports applied once, got %+v", l)
	}
}

func TestUpdateAndSaveSettings(t *testing.T) {
	f := newFixture()
	bad := "Mars/Olympus"

	if _, err := f.c.UpdateSettings(SettingsPatch{Timezone: &bad}); err == nil {
		t.Error("Expected invalid timezone to be rejected")
	}

	tz, at := "Europe/London", "06:30"
	s, err := f.c.UpdateSettings(SettingsPatch{Timezone: &tz, ScheduleTime: &at})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if s.Timezone != tz || f.settings.saves != 0 {
		t.Errorf("Expected in-memory update only, got %+v saves=%d", s, f.settings.saves)
	}

	if err := f.c.SaveSettings(); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if f.settings.saved.ScheduleTime != "06:30" {
		t.Errorf("Expected saved schedule time, got %q", f.settings.saved.ScheduleTime)
	}
}
