package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/formbay/formbay-be/internal/auth"
	"github.com/formbay/formbay-be/internal/services"
)

// SessionHandler handles login and logout.
type SessionHandler struct {
	users    services.UserServiceProvider
	sessions services.SessionServiceProvider
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(users services.UserServiceProvider, sessions services.SessionServiceProvider) *SessionHandler {
	return &SessionHandler{users: users, sessions: sessions}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Create handles user authentication and session creation.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	var details []services.FieldError
	if payload.Email == "" {
		details = append(details, services.FieldError{Field: "email", Message: "Email is required"})
	}
	if payload.Password == "" {
		details = append(details, services.FieldError{Field: "password", Message: "Password is required"})
	}
	if len(details) > 0 {
		writeError(w, services.NewInvalidError("Validation failed", details...))
		return
	}

	user, err := h.users.Authenticate(payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		writeError(w, err)
		return
	}

	_, token, err := h.sessions.Create(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to create session")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// DeleteCurrent revokes the session the request was authenticated with.
func (h *SessionHandler) DeleteCurrent(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, services.NewUnauthorizedError("Missing bearer token"))
		return
	}

	if err := h.sessions.Revoke(identity.SessionID, identity.UserID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete revokes one of the caller's sessions by id.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, services.NewUnauthorizedError("Missing bearer token"))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.sessions.Revoke(id, identity.UserID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
