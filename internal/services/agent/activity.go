package agent

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Activity is one recorded agent invocation
type Activity struct {
	AgentID    string    `json:"agent_id"`
	AgentName  string    `json:"agent_name"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
}

// ActivityLog keeps recent agent invocations in memory and logs each one
type ActivityLog struct {
	mu       sync.Mutex
	entries  []Activity
	limit    int
	inFlight map[string]int
	logger   zerolog.Logger
}

// NewActivityLog creates a log that retains the last limit entries
func NewActivityLog(limit int, logger zerolog.Logger) *ActivityLog {
	if limit <= 0 {
		limit = 200
	}
	return &ActivityLog{
		limit:    limit,
		inFlight: make(map[string]int),
		logger:   logger,
	}
}

func (al *ActivityLog) begin(agentID string) {
	al.mu.Lock()
	al.inFlight[agentID]++
	al.mu.Unlock()
}

// Record stores a finished invocation
func (al *ActivityLog) Record(entry Activity) {
	al.mu.Lock()
	if al.inFlight[entry.AgentID] > 0 {
		al.inFlight[entry.AgentID]--
	}
	al.entries = append(al.entries, entry)
	if len(al.entries) > al.limit {
		al.entries = al.entries[len(al.entries)-al.limit:]
	}
	al.mu.Unlock()

	var ev *zerolog.Event
	if entry.Success {
		ev = al.logger.Info()
	} else {
		ev = al.logger.Warn().Str("error", entry.Error)
	}
	ev.Str("agent", entry.AgentName).
		Str("agent_id", entry.AgentID).
		Int64("duration_ms", entry.DurationMs).
		Bool("success", entry.Success).
		Msg("agent invocation")
}

// Recent returns up to limit entries, newest first
func (al *ActivityLog) Recent(limit int) []Activity {
	al.mu.Lock()
	defer al.mu.Unlock()

	results := make([]Activity, 0)
	for i := len(al.entries) - 1; i >= 0 && (limit <= 0 || len(results) < limit); i-- {
		results = append(results, al.entries[i])
	}
	return results
}

// Active returns the ids of agents with calls in flight
func (al *ActivityLog) Active() []string {
	al.mu.Lock()
	defer al.mu.Unlock()

	ids := make([]string, 0, len(al.inFlight))
	for id, n := range al.inFlight {
		if n > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// Stats summarizes recorded invocations since a point in time
func (al *ActivityLog) Stats(since time.Time) map[string]interface{} {
	al.mu.Lock()
	defer al.mu.Unlock()

	total, failed := 0, 0
	var totalMs int64
	byAgent := make(map[string]int)

	for _, entry := range al.entries {
		if entry.StartedAt.Before(since) {
			continue
		}
		total++
		if !entry.Success {
			failed++
		}
		totalMs += entry.DurationMs
		byAgent[entry.AgentName]++
	}

	avgMs := int64(0)
	if total > 0 {
		avgMs = totalMs / int64(total)
	}

	return map[string]interface{}{
		"total_calls":     total,
		"failed_calls":    failed,
		"avg_duration_ms": avgMs,
		"by_agent":        byAgent,
	}
}

// Recorded wraps an invoker so every call lands in the activity log
func Recorded(inv Invoker, log *ActivityLog, registry *Registry) Invoker {
	return &recordedInvoker{next: inv, log: log, registry: registry}
}

type recordedInvoker struct {
	next     Invoker
	log      *ActivityLog
	registry *Registry
}

func (r *recordedInvoker) Invoke(ctx context.Context, message, agentID string) (*Response, error) {
	start := time.Now()
	r.log.begin(agentID)

	resp, err := r.next.Invoke(ctx, message, agentID)

	entry := Activity{
		AgentID:    agentID,
		AgentName:  agentID,
		StartedAt:  start.UTC(),
		DurationMs: time.Since(start).Milliseconds(),
		Success:    err == nil && resp != nil && resp.Success,
	}
	if r.registry != nil {
		entry.AgentName = r.registry.Name(agentID)
	}
	switch {
	case err != nil:
		entry.Error = err.Error()
	case resp == nil:
		entry.Error = ErrEmptyResponse.Error()
	case !resp.Success:
		entry.Error = resp.Error
	}
	r.log.Record(entry)

	return resp, err
}
