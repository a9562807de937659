package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/formbay/formbay-be/internal/auth"
	"github.com/formbay/formbay-be/internal/services"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	users services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServiceProvider) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// UpdateProfilePayload defines the structure for profile updates.
type UpdateProfilePayload struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.users.Register(payload.Email, payload.Password, payload.Name)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// List handles retrieving all users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetMe retrieves the currently authenticated user.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, services.NewUnauthorizedError("Missing bearer token"))
		return
	}

	user, err := h.users.GetUserByID(identity.UserID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", identity.UserID).Msg("User from token not found")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateMe handles updating the current user's name and/or password.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, services.NewUnauthorizedError("Missing bearer token"))
		return
	}

	var payload UpdateProfilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.users.UpdateProfile(identity.UserID, payload.Name, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("user_id", identity.UserID).Msg("Failed to update profile")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Get handles retrieving a user by their ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.users.GetUserByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Delete handles the permanent deletion of the caller's own account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, services.NewUnauthorizedError("Missing bearer token"))
		return
	}

	id := chi.URLParam(r, "id")
	if id != identity.UserID {
		writeError(w, services.NewForbiddenError("You may only delete your own account"))
		return
	}

	if err := h.users.DeleteUser(id); err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to delete user")
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
