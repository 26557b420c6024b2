package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/findosh/stockpulse/internal/models"
	"github.com/findosh/stockpulse/internal/services/agent"
	"github.com/findosh/stockpulse/internal/services/scheduler"
	"github.com/rs/zerolog"
)

type memSettings struct {
	mu    sync.Mutex
	saved *models.Settings
	saves int
	err   error
}

func (m *memSettings) Load() (models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		return models.DefaultSettings(), nil
	}
	return m.saved.Clone(), nil
}

func (m *memSettings) Save(s models.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := s.Clone()
	m.saved = &cp
	m.saves++
	return nil
}

type memHistory struct {
	mu    sync.Mutex
	saved models.History
}

func (m *memHistory) Load() (models.History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(models.History{}, m.saved...), nil
}

func (m *memHistory) Save(h models.History) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(models.History{}, h...)
	return nil
}

type memScheduleID struct {
	mu sync.Mutex
	id string
}

func (m *memScheduleID) LoadID(fallback string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.id == "" {
		return fallback, nil
	}
	return m.id, nil
}

func (m *memScheduleID) SaveID(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = id
	return nil
}

type fakeReporter struct {
	mu          sync.Mutex
	report      models.Report
	err         error
	deliverErr  error
	delivered   []string
	lastTickers []string
}

func (f *fakeReporter) Generate(ctx context.Context, tickers []string, ledger models.Ledger) (models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastTickers = tickers
	if f.err != nil {
		return models.Report{}, f.err
	}
	r := f.report
	r.GeneratedAt = time.Now().UTC()
	return r, nil
}

func (f *fakeReporter) Deliver(ctx context.Context, email string, r models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deliverErr != nil {
		return f.deliverErr
	}
	f.delivered = append(f.delivered, email)
	return nil
}

// stubInvoker answers every call with resp. When gate is set, the call
// signals entered and then blocks until gate is closed.
type stubInvoker struct {
	resp    *agent.Response
	err     error
	entered chan struct{}
	gate    chan struct{}
	calls   []string
	mu      sync.Mutex
}

func (s *stubInvoker) Invoke(ctx context.Context, message, agentID string) (*agent.Response, error) {
	s.mu.Lock()
	s.calls = append(s.calls, agentID)
	s.mu.Unlock()
	if s.gate != nil {
		s.entered <- struct{}{}
		<-s.gate
	}
	return s.resp, s.err
}

// flakyScheduler fails List a fixed number of times before delegating
type flakyScheduler struct {
	*scheduler.Memory
	mu       sync.Mutex
	failures int
	lists    int
	messages []string
}

func (f *flakyScheduler) List(ctx context.Context) ([]models.Schedule, error) {
	f.mu.Lock()
	f.lists++
	if f.failures > 0 {
		f.failures--
		f.mu.Unlock()
		return nil, errors.New("scheduler warming up")
	}
	f.mu.Unlock()
	return f.Memory.List(ctx)
}

func (f *flakyScheduler) UpdateMessage(ctx context.Context, id, message string) (string, error) {
	f.mu.Lock()
	f.messages = append(f.messages, message)
	f.mu.Unlock()
	return f.Memory.UpdateMessage(ctx, id, message)
}

type fixture struct {
	c         *Controller
	settings  *memSettings
	history   *memHistory
	ids       *memScheduleID
	reporter  *fakeReporter
	invoker   *stubInvoker
	scheduler *flakyScheduler
}

func newFixture() *fixture {
	f := &fixture{
		settings:  &memSettings{},
		history:   &memHistory{},
		ids:       &memScheduleID{},
		reporter:  &fakeReporter{report: models.SampleReport()},
		invoker:   &stubInvoker{resp: agent.TextResult("[]")},
		scheduler: &flakyScheduler{Memory: scheduler.NewMemory(models.Schedule{ID: "sched-1", CronExpression: "0 7 * * *", Timezone: "America/New_York"})},
	}
	opts := DefaultOptions()
	opts.InitialScheduleID = "sched-1"
	opts.RetryDelay = time.Millisecond
	opts.StartupDelay = time.Millisecond

	f.c = New(Deps{
		Settings:  f.settings,
		History:   f.history,
		Schedules: f.ids,
		Reporter:  f.reporter,
		Invoker:   f.invoker,
		Registry:  agent.NewRegistry(agent.IDs{}),
		Scheduler: f.scheduler,
		Logger:    zerolog.Nop(),
	}, opts)
	return f
}
