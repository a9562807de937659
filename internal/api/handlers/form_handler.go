package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/formbay/formbay-be/internal/auth"
	"github.com/formbay/formbay-be/internal/models"
	"github.com/formbay/formbay-be/internal/services"
)

// FormHandler handles HTTP requests for forms.
type FormHandler struct {
	forms services.FormServiceProvider
}

// NewFormHandler creates a new FormHandler.
func NewFormHandler(forms services.FormServiceProvider) *FormHandler {
	return &FormHandler{forms: forms}
}

// FormPayload defines the structure for form create requests.
type FormPayload struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []models.Question `json:"questions"`
}

// FormPatchPayload defines the structure for form update requests.
// Absent fields keep their current values.
type FormPatchPayload struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Questions   *[]models.Question `json:"questions"`
}

// Create handles the request to create a new form.
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, services.NewUnauthorizedError("Missing bearer token"))
		return
	}

	var payload FormPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	form, err := h.forms.CreateForm(identity.UserID, models.Form{
		Title:       payload.Title,
		Description: payload.Description,
		Questions:   payload.Questions,
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", identity.UserID).Msg("Failed to create form")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, form)
}

// List handles the request to get one page of forms.
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	forms, total, err := h.forms.ListForms(page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, forms, total, page, limit)
}

// Get handles the request to get a single form by its ID.
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	form, err := h.forms.GetFormByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// Update handles the request to update a form.
func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, services.NewUnauthorizedError("Missing bearer token"))
		return
	}

	var payload FormPatchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	id := chi.URLParam(r, "id")
	form, err := h.forms.UpdateForm(id, identity.UserID, services.FormPatch{
		Title:       payload.Title,
		Description: payload.Description,
		Questions:   payload.Questions,
	})
	if err != nil {
		log.Warn().Err(err).Str("form_id", id).Str("user_id", identity.UserID).Msg("Failed to update form")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// Delete handles the request to delete a form.
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, services.NewUnauthorizedError("Missing bearer token"))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.forms.DeleteForm(id, identity.UserID); err != nil {
		log.Warn().Err(err).Str("form_id", id).Str("user_id", identity.UserID).Msg("Failed to delete form")
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
