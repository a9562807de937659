package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/formbay/formbay-be/internal/auth"
	"github.com/formbay/formbay-be/internal/models"
	"github.com/formbay/formbay-be/internal/services"
)

// QuestionHandler handles HTTP requests for a form's questions.
type QuestionHandler struct {
	forms services.FormServiceProvider
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(forms services.FormServiceProvider) *QuestionHandler {
	return &QuestionHandler{forms: forms}
}

// QuestionPatchPayload defines the structure for question update requests.
type QuestionPatchPayload struct {
	Text     *string   `json:"text"`
	Type     *string   `json:"type"`
	Required *bool     `json:"required"`
	Options  *[]string `json:"options"`
}

// List returns a form's questions in order.
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	questions, err := h.forms.ListQuestions(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

// Create appends a question to a form.
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, services.NewUnauthorizedError("Missing bearer token"))
		return
	}

	var q models.Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	created, err := h.forms.AddQuestion(chi.URLParam(r, "id"), identity.UserID, q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get retrieves a single question.
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.forms.GetQuestion(chi.URLParam(r, "id"), chi.URLParam(r, "qid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Update merges changes into a question.
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, services.NewUnauthorizedError("Missing bearer token"))
		return
	}

	var payload QuestionPatchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	q, err := h.forms.UpdateQuestion(chi.URLParam(r, "id"), identity.UserID, chi.URLParam(r, "qid"), services.QuestionPatch{
		Text:     payload.Text,
		Type:     payload.Type,
		Required: payload.Required,
		Options:  payload.Options,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Delete removes a question from a form.
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, services.NewUnauthorizedError("Missing bearer token"))
		return
	}

	if err := h.forms.RemoveQuestion(chi.URLParam(r, "id"), identity.UserID, chi.URLParam(r, "qid")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
