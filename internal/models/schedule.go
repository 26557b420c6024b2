package models

import "time"

// Schedule describes a recurring job owned by the external scheduler
type Schedule struct {
	ID             string     `json:"id"`
	IsActive       bool       `json:"is_active"`
	CronExpression string     `json:"cron_expression"`
	Timezone       string     `json:"timezone"`
	NextRunTime    *time.Time `json:"next_run_time,omitempty"`
	LastRunAt      *time.Time `json:"last_run_at,omitempty"`
	Message        string     `json:"message,omitempty"`
}

// ExecutionLog is one run of a schedule
type ExecutionLog struct {
	ID         string    `json:"id"`
	ScheduleID string    `json:"schedule_id"`
	Success    bool      `json:"success"`
	ExecutedAt time.Time `json:"executed_at"`
	Error      string    `json:"error,omitempty"`
}
