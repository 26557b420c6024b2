package app

import (
	"context"
	"errors"

	"github.com/findosh/stockpulse/internal/models"
	"github.com/findosh/stockpulse/internal/services/agent"
	"github.com/findosh/stockpulse/internal/services/report"
)

// Generated is the outcome of GenerateReport
type Generated struct {
	Entry         models.HistoryEntry `json:"entry"`
	Delivered     bool                `json:"delivered"`
	DeliveryError string              `json:"delivery_error,omitempty"`
}

// GenerateReport asks the coordinator for a report on the watchlist,
// stores it in history and emails it when a delivery address is set.
// A failed delivery does not undo the report.
func (c *Controller) GenerateReport(ctx context.Context) (Generated, error) {
	c.mu.Lock()
	if c.generating {
		c.mu.Unlock()
		return Generated{}, ErrReportInProgress
	}
	c.generating = true
	c.reportStarted = c.now().UTC()
	tickers := c.settings.Holdings.Watchlist()
	ledger := c.settings.Holdings.Clone()
	email := c.settings.Email
	c.mu.Unlock()

	defer c.withLock(func() { c.generating = false })

	r, err := c.deps.Reporter.Generate(ctx, tickers, ledger)
	if err != nil {
		c.log.Warn().Err(err).Str("operation", "generate report").Msg("report generation failed")
		c.withLock(func() { c.setStatus(AreaReport, StatusError, reportMessage(err)) })
		return Generated{}, err
	}

	entry := models.NewHistoryEntry(r)

	c.mu.Lock()
	history := c.history.Insert(entry, c.opts.HistoryLimit)
	c.history = history
	c.current = &r
	c.setStatus(AreaReport, StatusSuccess, "Report generated")
	c.mu.Unlock()

	if c.deps.History != nil {
		if err := c.deps.History.Save(history); err != nil {
			c.log.Error().Err(err).Msg("failed to save report history")
		}
	}

	out := Generated{Entry: entry}
	if email == "" {
		return out, nil
	}

	c.withLock(func() { c.setStatus(AreaReport, StatusInfo, "Report generated, sending email...") })
	if err := c.deps.Reporter.Deliver(ctx, email, r); err != nil {
		c.log.Warn().Err(err).Str("operation", "deliver report").Msg("report delivery failed")
		out.DeliveryError = err.Error()
		c.withLock(func() {
			c.setStatus(AreaReport, StatusError, "Report generated, but email delivery failed: "+err.Error())
		})
		return out, nil
	}

	out.Delivered = true
	c.withLock(func() { c.setStatus(AreaReport, StatusSuccess, "Report generated and sent to "+email) })
	return out, nil
}

func reportMessage(err error) string {
	var agentErr *agent.Error
	switch {
	case errors.Is(err, report.ErrUnparseableResponse):
		return "Could not parse agent response. Please try again."
	case errors.Is(err, agent.ErrAgentFailed) && errors.As(err, &agentErr):
		return agentErr.Err.Error()
	case errors.As(err, &agentErr):
		return "Failed to generate report. Please try again."
	}
	return err.Error()
}

// CurrentReport returns the most recently shown report
func (c *Controller) CurrentReport() (models.Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return models.Report{}, false
	}
	return *c.current, true
}

// History returns the stored reports, newest first
func (c *Controller) History() models.History {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(models.History, len(c.history))
	copy(out, c.history)
	return out
}

// HistoryEntry looks up a stored report
func (c *Controller) HistoryEntry(id string) (models.HistoryEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.history.Find(id)
	if !ok {
		return models.HistoryEntry{}, ErrReportNotFound
	}
	return e, nil
}

// ClearHistory removes every stored report
func (c *Controller) ClearHistory() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deps.History != nil {
		if err := c.deps.History.Save(models.History{}); err != nil {
			c.setStatus(AreaReport, StatusError, "Failed to clear history: "+err.Error())
			return err
		}
	}
	c.history = models.History{}
	c.setStatus(AreaReport, StatusSuccess, "History cleared")
	return nil
}
