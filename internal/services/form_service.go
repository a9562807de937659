package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/formbay/formbay-be/internal/models"
)

// FormServiceProvider defines the interface for form services.
type FormServiceProvider interface {
	CreateForm(ownerID string, form models.Form) (models.Form, error)
	ListForms(page, pageSize int) ([]models.Form, int, error)
	GetFormByID(id string) (models.Form, error)
	UpdateForm(id, ownerID string, patch FormPatch) (models.Form, error)
	DeleteForm(id, ownerID string) error

	ListQuestions(formID string) ([]models.Question, error)
	AddQuestion(formID, ownerID string, q models.Question) (models.Question, error)
	GetQuestion(formID, questionID string) (models.Question, error)
	UpdateQuestion(formID, ownerID, questionID string, patch QuestionPatch) (models.Question, error)
	RemoveQuestion(formID, ownerID, questionID string) error
}

// FormPatch carries the fields of a form update. Nil fields are left as-is.
type FormPatch struct {
	Title       *string
	Description *string
	Questions   *[]models.Question
}

// QuestionPatch carries the fields of a question update.
type QuestionPatch struct {
	Text     *string
	Type     *string
	Required *bool
	Options  *[]string
}

// FormService provides business logic for forms and their questions.
type FormService struct {
	db *sql.DB
}

// NewFormService creates a new FormService.
func NewFormService(db *sql.DB) *FormService {
	return &FormService{db: db}
}

// validateForm checks title, description and the question list, filling in
// question ids where the client left them out. Question order is preserved.
func validateForm(form *models.Form) error {
	var errs []FieldError

	form.Title = strings.TrimSpace(form.Title)
	form.Description = strings.TrimSpace(form.Description)

	if form.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "Title is required"})
	}
	if form.Description == "" {
		errs = append(errs, FieldError{Field: "description", Message: "Description is required"})
	}
	if len(form.Questions) == 0 {
		errs = append(errs, FieldError{Field: "questions", Message: "At least one question is required"})
	}

	seen := make(map[string]bool, len(form.Questions))
	for i := range form.Questions {
		q := &form.Questions[i]
		if q.ID == "" {
			q.ID = uuid.New().String()
		}
		if seen[q.ID] {
			errs = append(errs, FieldError{Field: "questions", Message: fmt.Sprintf("Duplicate question id %q", q.ID)})
		}
		seen[q.ID] = true
		if strings.TrimSpace(q.Text) == "" {
			errs = append(errs, FieldError{Field: "questions", Message: fmt.Sprintf("Question %d is missing text", i+1)})
		}
		if !models.ValidQuestionType(q.Type) {
			errs = append(errs, FieldError{Field: "questions", Message: fmt.Sprintf("Question %d has unknown type %q", i+1, q.Type)})
		}
	}

	if len(errs) > 0 {
		return NewInvalidError("Validation failed", errs...)
	}
	return nil
}

// CreateForm stores a new form owned by ownerID.
func (s *FormService) CreateForm(ownerID string, form models.Form) (models.Form, error) {
	if err := validateForm(&form); err != nil {
		return models.Form{}, err
	}

	now := time.Now().UTC()
	form.ID = uuid.New().String()
	form.OwnerID = ownerID
	form.CreatedAt = now
	form.UpdatedAt = now
	form.PrepareForSave()

	stmt, err := s.db.Prepare("INSERT INTO forms(id, owner_id, title, description, questions_json, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.Form{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(form.ID, form.OwnerID, form.Title, form.Description, form.QuestionsJSON, form.CreatedAt, form.UpdatedAt); err != nil {
		return models.Form{}, err
	}

	return form, nil
}

// ListForms returns one page of forms in insertion order along with the
// total count across all pages.
func (s *FormService) ListForms(page, pageSize int) ([]models.Form, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM forms").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`
		SELECT id, owner_id, title, description, questions_json, created_at, updated_at
		FROM forms ORDER BY created_at, id LIMIT ? OFFSET ?`,
		pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	forms := []models.Form{}
	for rows.Next() {
		var form models.Form
		if err := rows.Scan(&form.ID, &form.OwnerID, &form.Title, &form.Description, &form.QuestionsJSON, &form.CreatedAt, &form.UpdatedAt); err != nil {
			return nil, 0, err
		}
		form.PrepareForAPI()
		forms = append(forms, form)
	}
	return forms, total, rows.Err()
}

// GetFormByID retrieves a single form.
func (s *FormService) GetFormByID(id string) (models.Form, error) {
	var form models.Form
	row := s.db.QueryRow(`
		SELECT id, owner_id, title, description, questions_json, created_at, updated_at
		FROM forms WHERE id = ?`, id)
	err := row.Scan(&form.ID, &form.OwnerID, &form.Title, &form.Description, &form.QuestionsJSON, &form.CreatedAt, &form.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Form{}, NewNotFoundError("Form not found")
		}
		return models.Form{}, err
	}
	form.PrepareForAPI()
	return form, nil
}

// getOwnedForm loads a form and checks the caller owns it.
func (s *FormService) getOwnedForm(id, ownerID string) (models.Form, error) {
	form, err := s.GetFormByID(id)
	if err != nil {
		return models.Form{}, err
	}
	if form.OwnerID != ownerID {
		return models.Form{}, NewForbiddenError("Only the form owner may modify it")
	}
	return form, nil
}

// UpdateForm merges the provided fields into an existing form, re-validates
// and bumps updated_at. Only the owner may update.
func (s *FormService) UpdateForm(id, ownerID string, patch FormPatch) (models.Form, error) {
	form, err := s.getOwnedForm(id, ownerID)
	if err != nil {
		return models.Form{}, err
	}

	if patch.Title != nil {
		form.Title = *patch.Title
	}
	if patch.Description != nil {
		form.Description = *patch.Description
	}
	if patch.Questions != nil {
		form.Questions = *patch.Questions
	}

	return s.saveForm(form)
}

// saveForm validates and writes back an already-loaded form.
func (s *FormService) saveForm(form models.Form) (models.Form, error) {
	if err := validateForm(&form); err != nil {
		return models.Form{}, err
	}

	form.UpdatedAt = time.Now().UTC()
	form.PrepareForSave()

	_, err := s.db.Exec("UPDATE forms SET title = ?, description = ?, questions_json = ?, updated_at = ? WHERE id = ?",
		form.Title, form.Description, form.QuestionsJSON, form.UpdatedAt, form.ID)
	if err != nil {
		return models.Form{}, err
	}
	return form, nil
}

// DeleteForm removes a form and its responses. Only the owner may delete.
func (s *FormService) DeleteForm(id, ownerID string) error {
	if _, err := s.getOwnedForm(id, ownerID); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM forms WHERE id = ?", id)
	return err
}

// ListQuestions returns a form's questions in order.
func (s *FormService) ListQuestions(formID string) ([]models.Question, error) {
	form, err := s.GetFormByID(formID)
	if err != nil {
		return nil, err
	}
	return form.Questions, nil
}

// AddQuestion appends a question to a form.
func (s *FormService) AddQuestion(formID, ownerID string, q models.Question) (models.Question, error) {
	form, err := s.getOwnedForm(formID, ownerID)
	if err != nil {
		return models.Question{}, err
	}

	form.Questions = append(form.Questions, q)
	saved, err := s.saveForm(form)
	if err != nil {
		return models.Question{}, err
	}
	return saved.Questions[len(saved.Questions)-1], nil
}

// GetQuestion retrieves a single question from a form.
func (s *FormService) GetQuestion(formID, questionID string) (models.Question, error) {
	form, err := s.GetFormByID(formID)
	if err != nil {
		return models.Question{}, err
	}
	for _, q := range form.Questions {
		if q.ID == questionID {
			return q, nil
		}
	}
	return models.Question{}, NewNotFoundError("Question not found")
}

// UpdateQuestion merges the provided fields into a question in place,
// preserving its position in the form.
func (s *FormService) UpdateQuestion(formID, ownerID, questionID string, patch QuestionPatch) (models.Question, error) {
	form, err := s.getOwnedForm(formID, ownerID)
	if err != nil {
		return models.Question{}, err
	}

	idx := -1
	for i, q := range form.Questions {
		if q.ID == questionID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.Question{}, NewNotFoundError("Question not found")
	}

	q := &form.Questions[idx]
	if patch.Text != nil {
		q.Text = *patch.Text
	}
	if patch.Type != nil {
		q.Type = *patch.Type
	}
	if patch.Required != nil {
		q.Required = *patch.Required
	}
	if patch.Options != nil {
		q.Options = *patch.Options
	}

	saved, err := s.saveForm(form)
	if err != nil {
		return models.Question{}, err
	}
	return saved.Questions[idx], nil
}

// RemoveQuestion deletes a question from a form. A form may not drop to
// zero questions.
func (s *FormService) RemoveQuestion(formID, ownerID, questionID string) error {
	form, err := s.getOwnedForm(formID, ownerID)
	if err != nil {
		return err
	}

	idx := -1
	for i, q := range form.Questions {
		if q.ID == questionID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return NewNotFoundError("Question not found")
	}

	form.Questions = append(form.Questions[:idx], form.Questions[idx+1:]...)
	_, err = s.saveForm(form)
	return err
}
