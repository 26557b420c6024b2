package handlers

import (
	"errors"
	"net/http"

	"github.com/findosh/stockpulse/internal/middleware"
	"github.com/findosh/stockpulse/internal/services/auth"
)

// Login exchanges the operator password for a session token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Login(req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrDisabled):
			h.jsonError(w, "Authentication is not configured", http.StatusNotFound)
		case errors.Is(err, auth.ErrInvalidCredentials):
			h.jsonError(w, "Invalid password", http.StatusUnauthorized)
		default:
			h.logger.Error().Err(err).Msg("login failed")
			h.jsonError(w, "Login failed", http.StatusInternalServerError)
		}
		return
	}

	// Set session cookie
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.Expires,
		HttpOnly: true,
		Secure:   h.cfg != nil && h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	h.jsonResponse(w, result)
}

// Logout revokes the current session
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if jti := middleware.GetSession(r); jti != "" {
		if err := h.authService.Logout(jti); err != nil {
			h.logger.Warn().Err(err).Msg("failed to revoke session")
		}
	}

	// Clear cookie
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	w.WriteHeader(http.StatusNoContent)
}
