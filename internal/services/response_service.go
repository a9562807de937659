package services

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/formbay/formbay-be/internal/models"
)

// ResponseServiceProvider defines the interface for response services.
type ResponseServiceProvider interface {
	Submit(formID string, answers []models.Answer) (models.Response, error)
	ListForForm(formID string, page, pageSize int) ([]models.Response, int, error)
	GetByID(formID, responseID string) (models.Response, error)
}

// ResponseService provides business logic for form responses.
type ResponseService struct {
	db    *sql.DB
	forms FormServiceProvider
}

// NewResponseService creates a new ResponseService.
func NewResponseService(db *sql.DB, forms FormServiceProvider) *ResponseService {
	return &ResponseService{db: db, forms: forms}
}

// Submit validates answers against the parent form and stores a new
// response. Every question marked required must have a non-empty answer,
// matched by question id; answers to unknown questions are rejected.
func (s *ResponseService) Submit(formID string, answers []models.Answer) (models.Response, error) {
	form, err := s.forms.GetFormByID(formID)
	if err != nil {
		return models.Response{}, err
	}

	byQuestion := make(map[string]string, len(answers))
	known := make(map[string]bool, len(form.Questions))
	for _, q := range form.Questions {
		known[q.ID] = true
	}

	var errs []FieldError
	for _, a := range answers {
		if !known[a.QuestionID] {
			errs = append(errs, FieldError{Field: "answers", Message: "Unknown question id " + a.QuestionID})
			continue
		}
		byQuestion[a.QuestionID] = a.Value
	}

	for _, q := range form.Questions {
		if !q.Required {
			continue
		}
		if strings.TrimSpace(byQuestion[q.ID]) == "" {
			errs = append(errs, FieldError{Field: q.ID, Message: "Answer is required for question: " + q.Text})
		}
	}

	if len(errs) > 0 {
		return models.Response{}, NewInvalidError("Validation failed", errs...)
	}

	response := models.Response{
		ID:        uuid.New().String(),
		FormID:    form.ID,
		Answers:   answers,
		CreatedAt: time.Now().UTC(),
	}
	response.PrepareForSave()

	stmt, err := s.db.Prepare("INSERT INTO responses(id, form_id, answers_json, created_at) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.Response{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(response.ID, response.FormID, response.AnswersJSON, response.CreatedAt); err != nil {
		return models.Response{}, err
	}

	return response, nil
}

// ListForForm returns one page of a form's responses in submission order
// along with the total count.
func (s *ResponseService) ListForForm(formID string, page, pageSize int) ([]models.Response, int, error) {
	if _, err := s.forms.GetFormByID(formID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM responses WHERE form_id = ?", formID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`
		SELECT id, form_id, answers_json, created_at
		FROM responses WHERE form_id = ? ORDER BY created_at, id LIMIT ? OFFSET ?`,
		formID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	responses := []models.Response{}
	for rows.Next() {
		var response models.Response
		if err := rows.Scan(&response.ID, &response.FormID, &response.AnswersJSON, &response.CreatedAt); err != nil {
			return nil, 0, err
		}
		response.PrepareForAPI()
		responses = append(responses, response)
	}
	return responses, total, rows.Err()
}

// GetByID retrieves a single response belonging to a form.
func (s *ResponseService) GetByID(formID, responseID string) (models.Response, error) {
	var response models.Response
	row := s.db.QueryRow("SELECT id, form_id, answers_json, created_at FROM responses WHERE id = ? AND form_id = ?", responseID, formID)
	err := row.Scan(&response.ID, &response.FormID, &response.AnswersJSON, &response.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Response{}, NewNotFoundError("Response not found")
		}
		return models.Response{}, err
	}
	response.PrepareForAPI()
	return response, nil
}
