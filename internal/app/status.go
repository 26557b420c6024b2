package app

import (
	"time"

	"github.com/findosh/stockpulse/internal/models"
)

// Area groups statuses by the part of the dashboard they belong to
type Area string

const (
	AreaReport   Area = "report"
	AreaImport   Area = "import"
	AreaSchedule Area = "schedule"
	AreaSettings Area = "settings"
)

// StatusKind is the tone of a status message
type StatusKind string

const (
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
	StatusInfo    StatusKind = "info"
)

// Status is the latest outcome message of an area
type Status struct {
	Kind StatusKind `json:"kind"`
	Text string     `json:"text"`
	At   time.Time  `json:"at"`
}

// ImportPhase is the state of the smart-import round trip
type ImportPhase string

const (
	PhaseIdle          ImportPhase = "idle"
	PhaseReading       ImportPhase = "reading"
	PhaseAwaitingAgent ImportPhase = "awaiting-agent"
	PhaseMerging       ImportPhase = "merging"
)

// LoadingMessages rotate while a report is being generated
var LoadingMessages = []string{
	"Analyzing market data...",
	"Gathering news sentiment...",
	"Computing technical indicators...",
	"Aggregating findings...",
	"Preparing recommendations...",
}

const loadingInterval = 3 * time.Second

// setStatus must be called with mu held
func (c *Controller) setStatus(area Area, kind StatusKind, text string) {
	c.statuses[area] = Status{Kind: kind, Text: text, At: c.now().UTC()}
}

// Statuses returns the latest status per area
func (c *Controller) Statuses() map[Area]Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[Area]Status, len(c.statuses))
	for k, v := range c.statuses {
		out[k] = v
	}
	if c.generating {
		out[AreaReport] = Status{Kind: StatusInfo, Text: c.loadingMessage(), At: c.reportStarted}
	}
	return out
}

func (c *Controller) loadingMessage() string {
	elapsed := c.now().Sub(c.reportStarted)
	if elapsed < 0 {
		elapsed = 0
	}
	return LoadingMessages[int(elapsed/loadingInterval)%len(LoadingMessages)]
}

// State is a read-only snapshot for presentation
type State struct {
	Settings        models.Settings       `json:"settings"`
	Report          *models.Report        `json:"report,omitempty"`
	HistoryCount    int                   `json:"history_count"`
	ScheduleID      string                `json:"schedule_id"`
	Schedule        *models.Schedule      `json:"schedule,omitempty"`
	ExecutionLogs   []models.ExecutionLog `json:"execution_logs"`
	ScheduleLoading bool                  `json:"schedule_loading"`
	ImportPhase     ImportPhase           `json:"import_phase"`
	Generating      bool                  `json:"generating"`
	Statuses        map[Area]Status       `json:"statuses"`
}

// Snapshot returns the current state
func (c *Controller) Snapshot() State {
	statuses := c.Statuses()

	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		Settings:        c.settings.Clone(),
		HistoryCount:    len(c.history),
		ScheduleID:      c.scheduleID,
		ExecutionLogs:   append([]models.ExecutionLog{}, c.executionLogs...),
		ScheduleLoading: c.scheduleLoading,
		ImportPhase:     c.importPhase,
		Generating:      c.generating,
		Statuses:        statuses,
	}
	if c.current != nil {
		r := *c.current
		st.Report = &r
	}
	if c.schedule != nil {
		s := *c.schedule
		st.Schedule = &s
	}
	return st
}
