package handlers

import (
	"net/http"

	"github.com/findosh/stockpulse/internal/app"
	"github.com/findosh/stockpulse/internal/models"
)

type settingsResponse struct {
	Settings  models.Settings `json:"settings"`
	Timezones []string        `json:"timezones"`
}

// GetSettings returns the current settings and the selectable timezones
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, settingsResponse{
		Settings:  h.controller.Settings(),
		Timezones: models.Timezones,
	})
}

// UpdateSettings edits settings in memory without persisting them
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch app.SettingsPatch
	if err := decodeJSON(r, &patch); err != nil {
		h.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s, err := h.controller.UpdateSettings(patch)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.jsonResponse(w, settingsResponse{Settings: s, Timezones: models.Timezones})
}

// SaveSettings persists the current settings
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.SaveSettings(); err != nil {
		h.fail(w, err)
		return
	}
	h.jsonResponse(w, settingsResponse{Settings: h.controller.Settings(), Timezones: models.Timezones})
}
