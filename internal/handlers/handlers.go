// Package handlers provides the JSON API over the dashboard controller
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/findosh/stockpulse/internal/app"
	"github.com/findosh/stockpulse/internal/config"
	"github.com/findosh/stockpulse/internal/middleware"
	"github.com/findosh/stockpulse/internal/services/agent"
	"github.com/findosh/stockpulse/internal/services/analytics"
	"github.com/findosh/stockpulse/internal/services/auth"
	"github.com/findosh/stockpulse/internal/services/importer"
	"github.com/findosh/stockpulse/internal/services/report"
	"github.com/findosh/stockpulse/internal/services/scheduler"
)

// Handler contains all HTTP handlers and dependencies
type Handler struct {
	cfg         *config.Config
	controller  *app.Controller
	authService *auth.Service
	activity    *agent.ActivityLog
	registry    *agent.Registry
	analytics   *analytics.Service
	logger      zerolog.Logger
}

// New creates a new handler with all dependencies. activity may be nil.
func New(
	cfg *config.Config,
	controller *app.Controller,
	authService *auth.Service,
	activity *agent.ActivityLog,
	registry *agent.Registry,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		cfg:         cfg,
		controller:  controller,
		authService: authService,
		activity:    activity,
		registry:    registry,
		analytics:   analytics.NewService(),
		logger:      logger.With().Str("component", "http").Logger(),
	}
}

// Routes registers every endpoint and applies the global middleware
func (h *Handler) Routes() http.Handler {
	authMiddleware := middleware.NewAuth(h.authService)
	protect := func(fn http.HandlerFunc) http.Handler {
		return authMiddleware.RequireAuth(fn)
	}

	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/session", h.Login)
	mux.HandleFunc("GET /api/template.csv", h.DownloadTemplate)
	mux.HandleFunc("GET /api/reports/sample", h.SampleReport)

	// Session
	mux.Handle("DELETE /api/session", protect(h.Logout))

	// Settings
	mux.Handle("GET /api/settings", protect(h.GetSettings))
	mux.Handle("PUT /api/settings", protect(h.UpdateSettings))
	mux.Handle("POST /api/settings/save", protect(h.SaveSettings))

	// Holdings
	mux.Handle("GET /api/holdings", protect(h.ListHoldings))
	mux.Handle("POST /api/holdings", protect(h.AddHolding))
	mux.Handle("DELETE /api/holdings", protect(h.RemoveHolding))
	mux.Handle("GET /api/holdings/export.csv", protect(h.ExportHoldings))
	mux.Handle("GET /api/holdings/allocation", protect(h.Allocation))
	mux.Handle("POST /api/import", protect(h.Import))

	// Reports
	mux.Handle("POST /api/reports/generate", protect(h.GenerateReport))
	mux.Handle("GET /api/reports/current", protect(h.CurrentReport))
	mux.Handle("GET /api/reports/history", protect(h.ReportHistory))
	mux.Handle("DELETE /api/reports/history", protect(h.ClearHistory))
	mux.Handle("GET /api/reports/{id}", protect(h.GetReport))
	mux.Handle("GET /api/reports/{id}/html", protect(h.GetReportHTML))

	// Schedule
	mux.Handle("GET /api/schedule", protect(h.GetSchedule))
	mux.Handle("POST /api/schedule/refresh", protect(h.RefreshSchedule))
	mux.Handle("POST /api/schedule/toggle", protect(h.ToggleSchedule))
	mux.Handle("POST /api/schedule/email", protect(h.SyncEmail))

	// Dashboard state and agents
	mux.Handle("GET /api/status", protect(h.Status))
	mux.Handle("GET /api/agents", protect(h.Agents))
	mux.Handle("GET /api/agents/activity", protect(h.AgentActivity))

	return middleware.Chain(
		mux,
		middleware.Recover(h.logger),
		middleware.SecurityHeaders,
		middleware.Logger(h.logger),
	)
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data interface{}) {
	h.jsonStatus(w, data, http.StatusOK)
}

func (h *Handler) jsonStatus(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	h.jsonStatus(w, map[string]string{"error": message}, status)
}

// fail maps a controller error to its HTTP status
func (h *Handler) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, app.ErrImportInProgress), errors.Is(err, app.ErrReportInProgress):
		status = http.StatusConflict
	case errors.Is(err, app.ErrReportNotFound), errors.Is(err, scheduler.ErrScheduleNotFound):
		status = http.StatusNotFound
	case errors.Is(err, app.ErrScheduleUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, app.ErrFileUnreadable),
		errors.Is(err, app.ErrNoJSONArray),
		errors.Is(err, app.ErrNoValidHoldings),
		errors.Is(err, app.ErrInvalidHolding),
		errors.Is(err, app.ErrEmailRequired),
		errors.Is(err, app.ErrInvalidEmail),
		errors.Is(err, app.ErrInvalidSettings),
		errors.Is(err, importer.ErrUnknownMode),
		errors.Is(err, importer.ErrEmptyFile),
		errors.Is(err, importer.ErrInvalidJSON):
		status = http.StatusBadRequest
	case errors.Is(err, report.ErrUnparseableResponse),
		errors.Is(err, agent.ErrAgentFailed),
		errors.Is(err, scheduler.ErrSchedulerFailed):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Int("status", status).Msg("request failed")
	}
	h.jsonError(w, err.Error(), status)
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
