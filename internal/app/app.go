// Package app holds the in-memory application state and the operations
// that change it. Every operation records a user-visible status for its
// area and never leaves state partially updated on failure.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/findosh/stockpulse/internal/models"
	"github.com/findosh/stockpulse/internal/services/agent"
	"github.com/findosh/stockpulse/internal/services/importer"
	"github.com/findosh/stockpulse/internal/services/scheduler"
	"github.com/rs/zerolog"
)

var (
	ErrImportInProgress    = errors.New("an import is already in progress")
	ErrReportInProgress    = errors.New("a report is already being generated")
	ErrFileUnreadable      = errors.New("could not read file")
	ErrNoJSONArray         = errors.New("agent response did not contain a JSON array of holdings")
	ErrNoValidHoldings     = importer.ErrNoData
	ErrInvalidHolding      = errors.New("ticker is required")
	ErrEmailRequired       = errors.New("save a delivery email before activating the schedule")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidSettings     = errors.New("invalid settings")
	ErrScheduleUnavailable = errors.New("schedule information is not loaded")
	ErrReportNotFound      = errors.New("report not found")
)

// SettingsStore persists settings
type SettingsStore interface {
	Load() (models.Settings, error)
	Save(models.Settings) error
}

// HistoryStore persists report history
type HistoryStore interface {
	Load() (models.History, error)
	Save(models.History) error
}

// ScheduleStore persists the current schedule id
type ScheduleStore interface {
	LoadID(fallback string) (string, error)
	SaveID(id string) error
}

// Reporter generates and delivers reports
type Reporter interface {
	Generate(ctx context.Context, tickers []string, ledger models.Ledger) (models.Report, error)
	Deliver(ctx context.Context, email string, r models.Report) error
}

// Deps are the collaborators of the controller
type Deps struct {
	Settings  SettingsStore
	History   HistoryStore
	Schedules ScheduleStore
	Reporter  Reporter
	Invoker   agent.Invoker
	Registry  *agent.Registry
	Scheduler scheduler.Client
	Logger    zerolog.Logger
}

// Options tune the controller
type Options struct {
	InitialScheduleID string
	Retries           int
	RetryDelay        time.Duration
	StartupDelay      time.Duration
	LogLimit          int
	HistoryLimit      int
	MaxPromptChars    int
	MaxUploadBytes    int64
}

// DefaultOptions match the hosted dashboard
func DefaultOptions() Options {
	return Options{
		InitialScheduleID: "69a023e325d4d77f732e4fa8",
		Retries:           2,
		RetryDelay:        1500 * time.Millisecond,
		StartupDelay:      1200 * time.Millisecond,
		LogLimit:          scheduler.DefaultLogLimit,
		HistoryLimit:      models.HistoryLimit,
		MaxPromptChars:    importer.DefaultMaxPromptChars,
		MaxUploadBytes:    5 << 20,
	}
}

// Controller owns the application state.
// The lock is never held across an external call.
type Controller struct {
	deps Deps
	opts Options
	log  zerolog.Logger
	now  func() time.Time

	mu              sync.Mutex
	settings        models.Settings
	current         *models.Report
	history         models.History
	scheduleID      string
	schedule        *models.Schedule
	executionLogs   []models.ExecutionLog
	scheduleLoading bool
	importPhase     ImportPhase
	reportStarted   time.Time
	generating      bool
	statuses        map[Area]Status
}

// New loads persisted state and creates the controller. Unreadable
// records fall back to defaults.
func New(deps Deps, opts Options) *Controller {
	def := DefaultOptions()
	if opts.LogLimit <= 0 {
		opts.LogLimit = def.LogLimit
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = def.HistoryLimit
	}
	if opts.MaxPromptChars <= 0 {
		opts.MaxPromptChars = def.MaxPromptChars
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = def.MaxUploadBytes
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}

	c := &Controller{
		deps:        deps,
		opts:        opts,
		log:         deps.Logger.With().Str("component", "app").Logger(),
		now:         time.Now,
		settings:    models.DefaultSettings(),
		history:     models.History{},
		scheduleID:  opts.InitialScheduleID,
		importPhase: PhaseIdle,
		statuses:    make(map[Area]Status),
	}

	if deps.Settings != nil {
		s, err := deps.Settings.Load()
		if err != nil {
			c.log.Warn().Err(err).Msg("using default settings")
		}
		c.settings = s.Normalized()
	}
	if deps.History != nil {
		h, err := deps.History.Load()
		if err != nil {
			c.log.Warn().Err(err).Msg("starting with empty history")
		}
		if h != nil {
			c.history = h.Truncate(opts.HistoryLimit)
		}
	}
	if deps.Schedules != nil {
		id, err := deps.Schedules.LoadID(opts.InitialScheduleID)
		if err != nil {
			c.log.Warn().Err(err).Msg("using initial schedule id")
		} else if id != "" {
			c.scheduleID = id
		}
	}
	if len(c.history) > 0 {
		r := c.history[0].Report
		c.current = &r
	}

	return c
}

// Start runs the initial schedule refresh after the startup delay, in the
// background. The returned channel is closed when it has finished.
func (c *Controller) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := sleep(ctx, c.opts.StartupDelay); err != nil {
			return
		}
		if err := c.RefreshSchedule(ctx, true); err != nil {
			c.log.Warn().Err(err).Msg("initial schedule refresh failed")
		}
	}()
	return done
}

// Settings returns a copy of the current settings
func (c *Controller) Settings() models.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings.Clone()
}

// SettingsPatch holds user-editable settings; nil fields are left alone
type SettingsPatch struct {
	Email        *string `json:"email"`
	Timezone     *string `json:"timezone"`
	ScheduleTime *string `json:"schedule_time"`
}

// UpdateSettings changes settings in memory only; call SaveSettings to persist
func (c *Controller) UpdateSettings(p SettingsPatch) (models.Settings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.settings.Clone()
	if p.Email != nil {
		next.Email = *p.Email
	}
	if p.Timezone != nil {
		next.Timezone = *p.Timezone
	}
	if p.ScheduleTime != nil {
		next.ScheduleTime = *p.ScheduleTime
	}
	if next.Email != "" {
		if err := validateEmail(next.Email); err != nil {
			c.setStatus(AreaSettings, StatusError, err.Error())
			return c.settings.Clone(), err
		}
	}
	if err := next.Validate(); err != nil {
		c.setStatus(AreaSettings, StatusError, err.Error())
		return c.settings.Clone(), fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	c.settings = next
	c.setStatus(AreaSettings, StatusInfo, "Unsaved changes")
	return next.Clone(), nil
}

// SaveSettings persists the current settings
func (c *Controller) SaveSettings() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.persistSettings(c.settings); err != nil {
		c.setStatus(AreaSettings, StatusError, err.Error())
		return err
	}
	c.setStatus(AreaSettings, StatusSuccess, "Settings saved")
	return nil
}

// persistSettings must be called with mu held
func (c *Controller) persistSettings(s models.Settings) error {
	if c.deps.Settings == nil {
		return nil
	}
	if err := c.deps.Settings.Save(s); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
