package handlers

import (
	"net/http"
	"strings"

	"github.com/findosh/stockpulse/internal/models"
	"github.com/findosh/stockpulse/internal/services/scheduler"
)

type scheduleResponse struct {
	ScheduleID    string                `json:"schedule_id"`
	Schedule      *models.Schedule      `json:"schedule"`
	Description   string                `json:"description,omitempty"`
	ExecutionLogs []models.ExecutionLog `json:"execution_logs"`
}

func (h *Handler) scheduleState() scheduleResponse {
	sched, logs, id := h.controller.Schedule()
	resp := scheduleResponse{
		ScheduleID:    id,
		Schedule:      sched,
		ExecutionLogs: logs,
	}
	if sched != nil {
		resp.Description = scheduler.CronToHuman(sched.CronExpression)
	}
	return resp
}

// GetSchedule returns the selected schedule with its recent executions
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.scheduleState())
}

// RefreshSchedule reloads schedule information from the scheduler
func (h *Handler) RefreshSchedule(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.RefreshSchedule(r.Context(), false); err != nil {
		h.fail(w, err)
		return
	}
	h.jsonResponse(w, h.scheduleState())
}

// ToggleSchedule pauses an active schedule or resumes a paused one
func (h *Handler) ToggleSchedule(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.ToggleSchedule(r.Context()); err != nil {
		h.fail(w, err)
		return
	}
	h.jsonResponse(w, h.scheduleState())
}

// SyncEmail saves the delivery address and rewrites the scheduled message
func (h *Handler) SyncEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.controller.SyncEmail(r.Context(), strings.TrimSpace(req.Email)); err != nil {
		h.fail(w, err)
		return
	}
	h.jsonResponse(w, h.scheduleState())
}
