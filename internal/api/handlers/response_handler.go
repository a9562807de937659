package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/formbay/formbay-be/internal/models"
	"github.com/formbay/formbay-be/internal/services"
)

// ResponseHandler handles HTTP requests for form responses.
type ResponseHandler struct {
	responses services.ResponseServiceProvider
}

// NewResponseHandler creates a new ResponseHandler.
func NewResponseHandler(responses services.ResponseServiceProvider) *ResponseHandler {
	return &ResponseHandler{responses: responses}
}

// SubmitPayload defines the structure for response submissions.
type SubmitPayload struct {
	Answers []models.Answer `json:"answers"`
}

// Create handles submitting a new response to a form.
func (h *ResponseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload SubmitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	formID := chi.URLParam(r, "id")
	response, err := h.responses.Submit(formID, payload.Answers)
	if err != nil {
		log.Warn().Err(err).Str("form_id", formID).Msg("Failed to submit response")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, response)
}

// List handles retrieving one page of a form's responses.
func (h *ResponseHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	responses, total, err := h.responses.ListForForm(chi.URLParam(r, "id"), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, responses, total, page, limit)
}

// Get handles retrieving a single response.
func (h *ResponseHandler) Get(w http.ResponseWriter, r *http.Request) {
	response, err := h.responses.GetByID(chi.URLParam(r, "id"), chi.URLParam(r, "rid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}
