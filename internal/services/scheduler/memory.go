package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/findosh/stockpulse/internal/models"
	"github.com/google/uuid"
)

// Memory is an in-process scheduler used when no scheduler service is
// configured. It stores schedules and logs but never runs anything.
type Memory struct {
	mu        sync.Mutex
	schedules []models.Schedule
	logs      map[string][]models.ExecutionLog
	// Recreate mimics services that issue a new id when the message changes
	Recreate bool
}

// NewMemory creates a memory scheduler holding the given schedules
func NewMemory(schedules ...models.Schedule) *Memory {
	m := &Memory{logs: make(map[string][]models.ExecutionLog)}
	m.schedules = append(m.schedules, schedules...)
	return m
}

// AddLog records an execution, newest first
func (m *Memory) AddLog(l models.ExecutionLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs[l.ScheduleID] = append([]models.ExecutionLog{l}, m.logs[l.ScheduleID]...)
}

func (m *Memory) List(ctx context.Context) ([]models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Schedule, len(m.schedules))
	copy(out, m.schedules)
	return out, nil
}

func (m *Memory) Pause(ctx context.Context, id string) error {
	return m.setActive(id, false)
}

func (m *Memory) Resume(ctx context.Context, id string) error {
	return m.setActive(id, true)
}

func (m *Memory) Logs(ctx context.Context, id string, limit int) ([]models.ExecutionLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	logs := m.logs[id]
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	out := make([]models.ExecutionLog, len(logs))
	copy(out, logs)
	return out, nil
}

func (m *Memory) UpdateMessage(ctx context.Context, id, message string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return "", ErrScheduleNotFound
	}
	m.schedules[i].Message = message
	if m.Recreate {
		newID := uuid.New().String()
		m.schedules[i].ID = newID
		m.logs[newID] = m.logs[id]
		delete(m.logs, id)
		return newID, nil
	}
	return id, nil
}

func (m *Memory) setActive(id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return ErrScheduleNotFound
	}
	m.schedules[i].IsActive = active
	if !active {
		m.schedules[i].NextRunTime = nil
	} else if m.schedules[i].NextRunTime == nil {
		next := time.Now().Add(24 * time.Hour).UTC()
		m.schedules[i].NextRunTime = &next
	}
	return nil
}

func (m *Memory) index(id string) int {
	for i, s := range m.schedules {
		if s.ID == id {
			return i
		}
	}
	return -1
}
