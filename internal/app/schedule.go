package app

import (
	"context"
	"fmt"

	"github.com/findosh/stockpulse/internal/models"
	"github.com/findosh/stockpulse/internal/services/report"
	"github.com/findosh/stockpulse/internal/services/scheduler"
)

// RefreshSchedule reloads the schedule and its recent executions. With
// initial set, listing is retried to ride out a scheduler that is still
// starting. When the stored id is unknown the first schedule is adopted.
func (c *Controller) RefreshSchedule(ctx context.Context, initial bool) error {
	c.withLock(func() { c.scheduleLoading = true })
	defer c.withLock(func() { c.scheduleLoading = false })

	attempts := 1
	if initial {
		attempts += c.opts.Retries
	}

	var (
		schedules []models.Schedule
		err       error
	)
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, c.opts.RetryDelay); err != nil {
				return err
			}
		}
		schedules, err = c.deps.Scheduler.List(ctx)
		if err == nil {
			break
		}
		c.log.Debug().Err(err).Int("attempt", attempt+1).Msg("list schedules failed")
	}

	c.mu.Lock()
	if err != nil {
		c.setStatus(AreaSchedule, StatusError, "Could not load schedule: "+err.Error())
	} else if selected, ok := scheduler.Select(schedules, c.scheduleID); ok {
		c.schedule = &selected
		c.adoptScheduleID(selected.ID)
	} else {
		c.schedule = nil
		c.setStatus(AreaSchedule, StatusInfo, "No schedules found")
	}
	id := c.scheduleID
	c.mu.Unlock()

	logs, logErr := c.deps.Scheduler.Logs(ctx, id, c.opts.LogLimit)
	if logErr != nil {
		c.log.Debug().Err(logErr).Str("schedule_id", id).Msg("fetch execution logs failed")
	} else {
		c.withLock(func() { c.executionLogs = logs })
	}

	if err != nil {
		return fmt.Errorf("list schedules: %w", err)
	}
	return nil
}

// adoptScheduleID must be called with mu held
func (c *Controller) adoptScheduleID(id string) {
	if id == "" || id == c.scheduleID {
		return
	}
	c.log.Info().Str("schedule_id", id).Str("previous", c.scheduleID).Msg("schedule id changed")
	c.scheduleID = id
	if c.deps.Schedules != nil {
		if err := c.deps.Schedules.SaveID(id); err != nil {
			c.log.Error().Err(err).Msg("failed to save schedule id")
		}
	}
}

// ToggleSchedule pauses an active schedule or activates a paused one.
// Activation needs a saved delivery email.
func (c *Controller) ToggleSchedule(ctx context.Context) error {
	c.mu.Lock()
	if c.schedule == nil {
		c.mu.Unlock()
		return ErrScheduleUnavailable
	}
	active := c.schedule.IsActive
	id := c.scheduleID
	email := c.settings.Email
	if !active && email == "" {
		c.setStatus(AreaSchedule, StatusError, ErrEmailRequired.Error())
		c.mu.Unlock()
		return ErrEmailRequired
	}
	c.scheduleLoading = true
	c.mu.Unlock()

	var err error
	if active {
		err = c.deps.Scheduler.Pause(ctx, id)
	} else {
		err = c.deps.Scheduler.Resume(ctx, id)
	}
	c.withLock(func() { c.scheduleLoading = false })
	if err != nil {
		c.withLock(func() { c.setStatus(AreaSchedule, StatusError, "Failed to update schedule: "+err.Error()) })
		return err
	}

	c.log.Info().Str("schedule_id", id).Bool("active", !active).Msg("schedule toggled")
	if refreshErr := c.RefreshSchedule(ctx, false); refreshErr != nil {
		return refreshErr
	}
	text := "Schedule activated"
	if active {
		text = "Schedule paused"
	}
	c.withLock(func() { c.setStatus(AreaSchedule, StatusSuccess, text) })
	return nil
}

// SyncEmail saves the delivery email and rewrites the schedule payload so
// scheduled runs deliver to it. The schedule may come back with a new id.
func (c *Controller) SyncEmail(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		c.withLock(func() { c.setStatus(AreaSchedule, StatusError, err.Error()) })
		return err
	}

	c.mu.Lock()
	next := c.settings.Clone()
	next.Email = email
	if err := c.persistSettings(next); err != nil {
		c.setStatus(AreaSchedule, StatusError, err.Error())
		c.mu.Unlock()
		return err
	}
	c.settings = next
	id := c.scheduleID
	msg := report.ScheduleMessage(next.Holdings.Watchlist(), email, next.Holdings)
	c.scheduleLoading = true
	c.setStatus(AreaSchedule, StatusInfo, "Syncing email with schedule...")
	c.mu.Unlock()

	newID, err := c.deps.Scheduler.UpdateMessage(ctx, id, msg)
	c.withLock(func() { c.scheduleLoading = false })
	if err != nil {
		c.withLock(func() { c.setStatus(AreaSchedule, StatusError, "Failed to sync email with schedule: "+err.Error()) })
		return err
	}

	c.withLock(func() { c.adoptScheduleID(newID) })
	if err := c.RefreshSchedule(ctx, false); err != nil {
		c.log.Warn().Err(err).Msg("refresh after email sync failed")
	}
	c.withLock(func() { c.setStatus(AreaSchedule, StatusSuccess, "Email synced with schedule successfully") })
	return nil
}

// Schedule returns the selected schedule and its recent executions
func (c *Controller) Schedule() (*models.Schedule, []models.ExecutionLog, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var s *models.Schedule
	if c.schedule != nil {
		cp := *c.schedule
		s = &cp
	}
	return s, append([]models.ExecutionLog{}, c.executionLogs...), c.scheduleID
}
