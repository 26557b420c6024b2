// Package scheduler talks to the external service that owns the daily
// report schedule. Cron evaluation and execution happen over there.
package scheduler

import (
	"context"
	"errors"

	"github.com/findosh/stockpulse/internal/models"
)

var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrSchedulerFailed  = errors.New("scheduler reported failure")
)

// DefaultLogLimit is how many execution logs the dashboard shows
const DefaultLogLimit = 5

// Client is the scheduler collaborator.
// UpdateMessage may recreate the schedule; callers must adopt the returned id.
type Client interface {
	List(ctx context.Context) ([]models.Schedule, error)
	Pause(ctx context.Context, id string) error
	Resume(ctx context.Context, id string) error
	Logs(ctx context.Context, id string, limit int) ([]models.ExecutionLog, error)
	UpdateMessage(ctx context.Context, id, message string) (string, error)
}

// Select picks the schedule with the given id, or the first one when the
// id is unknown. ok is false only when there are no schedules at all.
func Select(schedules []models.Schedule, id string) (models.Schedule, bool) {
	for _, s := range schedules {
		if s.ID == id {
			return s, true
		}
	}
	if len(schedules) > 0 {
		return schedules[0], true
	}
	return models.Schedule{}, false
}
