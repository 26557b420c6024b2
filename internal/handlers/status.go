package handlers

import (
	"net/http"
	"strconv"
	"time"
)

// Status returns the full dashboard snapshot
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.controller.Snapshot())
}

// Agents lists the configured agents of the pipeline
func (h *Handler) Agents(w http.ResponseWriter, r *http.Request) {
	var active []string
	if h.activity != nil {
		active = h.activity.Active()
	}
	h.jsonResponse(w, map[string]interface{}{
		"agents": h.registry.All(),
		"active": active,
	})
}

// AgentActivity returns recent agent invocations and usage statistics
func (h *Handler) AgentActivity(w http.ResponseWriter, r *http.Request) {
	if h.activity == nil {
		h.jsonError(w, "Activity log not available", http.StatusServiceUnavailable)
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	h.jsonResponse(w, map[string]interface{}{
		"recent": h.activity.Recent(limit),
		"stats":  h.activity.Stats(time.Now().Add(-24 * time.Hour)),
	})
}
